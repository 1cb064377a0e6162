// Package search scores document chunks against a free-text question
// by keyword overlap and returns the best matches.
package search

import (
	"sort"
	"strings"

	"github.com/clauselens/clauselens/internal/model"
)

type Hit struct {
	Chunk *model.DocumentChunk
	Score int
}

// TopK returns up to k chunks whose text contains the most query words.
// Chunks with a zero score are not returned. Ties keep document order.
func TopK(question string, chunks []*model.DocumentChunk, k int) []Hit {
	words := queryWords(question)
	if len(words) == 0 || len(chunks) == 0 || k <= 0 {
		return nil
	}
	hits := make([]Hit, 0, len(chunks))
	for _, ch := range chunks {
		text := strings.ToLower(ch.Text)
		score := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, Hit{Chunk: ch, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func queryWords(question string) []string {
	fields := strings.Fields(strings.ToLower(question))
	words := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,;:!?\"'()[]")
		if len(w) < 3 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
