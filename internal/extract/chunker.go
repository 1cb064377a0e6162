package extract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidConfig is returned when the chunking parameters would produce a
// non-advancing or reversing window.
var ErrInvalidConfig = errors.New("invalid chunking configuration")

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200

	boundaryLookback = 100
)

// Page is one page of text as produced by the PDF reader.
type Page struct {
	Number int
	Text   string
}

// Chunk is a contiguous slice of the concatenated document text. CharStart
// and CharEnd are offsets into that concatenated text, so consecutive chunks
// overlap by the configured width.
type Chunk struct {
	Index      int    `json:"chunk_index"`
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	CharStart  int    `json:"char_start"`
	CharEnd    int    `json:"char_end"`
}

type Chunker struct {
	chunkSize int
	overlap   int
}

func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, chunk_size), got %d", ErrInvalidConfig, overlap)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk walks the concatenated page text producing overlapping windows of at
// most chunkSize characters. The window start advances by the actual cut point
// minus the overlap, so for every chunk after the first the head repeats
// exactly `overlap` characters of the previous chunk's tail. Pure and
// deterministic; an empty page sequence yields an empty slice.
func (c *Chunker) Chunk(pages []Page) []Chunk {
	chunks := make([]Chunk, 0)
	if len(pages) == 0 {
		return chunks
	}
	text, starts := joinPages(pages)
	if text == "" {
		return chunks
	}
	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = c.cutPoint(text, start, end)
		}
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			PageNumber: pageAt(pages, starts, start),
			Text:       text[start:end],
			CharStart:  start,
			CharEnd:    end,
		})
		if end == len(text) {
			break
		}
		start = end - c.overlap
	}
	return chunks
}

var sentenceEnds = []*regexp.Regexp{
	regexp.MustCompile(`\.\s`),
	regexp.MustCompile(`!\s`),
	regexp.MustCompile(`\?\s`),
	regexp.MustCompile(`\n\n`),
}

// cutPoint prefers a sentence ending, then any whitespace, inside a small
// lookback window before the nominal cut so chunks do not split mid-word.
// Best effort: with no boundary in the window it cuts at the exact offset.
func (c *Chunker) cutPoint(text string, start, nominal int) int {
	low := nominal - boundaryLookback
	if min := start + c.overlap + 1; low < min {
		low = min
	}
	if low >= nominal {
		return nominal
	}
	window := text[low:nominal]
	for _, re := range sentenceEnds {
		if locs := re.FindAllStringIndex(window, -1); len(locs) > 0 {
			return low + locs[len(locs)-1][1]
		}
	}
	if idx := strings.LastIndexAny(window, " \t\n"); idx > 0 {
		return low + idx + 1
	}
	return nominal
}

// Reassemble rebuilds the concatenated document text from an ordered chunk
// sequence, trimming the overlapping head of each chunk via its offsets.
func Reassemble(chunks []Chunk) string {
	var sb strings.Builder
	prevEnd := 0
	for _, ch := range chunks {
		skip := prevEnd - ch.CharStart
		if skip < 0 {
			skip = 0
		}
		if skip > len(ch.Text) {
			skip = len(ch.Text)
		}
		sb.WriteString(ch.Text[skip:])
		prevEnd = ch.CharEnd
	}
	return sb.String()
}

func joinPages(pages []Page) (string, []int) {
	starts := make([]int, len(pages))
	var sb strings.Builder
	for i, p := range pages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		starts[i] = sb.Len()
		sb.WriteString(p.Text)
	}
	return sb.String(), starts
}

// pageAt returns the number of the page containing the given offset.
func pageAt(pages []Page, starts []int, offset int) int {
	idx := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}
	return pages[idx].Number
}
