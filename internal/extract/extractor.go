package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// MethodRuleBased identifies the pattern-matching extraction engine. An "llm"
// method may produce the same record shape through a different engine.
const MethodRuleBased = "rule-based"

// fieldCount is the number of schema fields the confidence ratio is taken
// over: parties, effective date, term, governing law, five section fields,
// liability cap and signatories.
const fieldCount = 11

type LiabilityCap struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Signatory struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Fields is the structured record extracted from one contract. Optional
// fields are left zero when no pattern matched; ConfidenceScore is the ratio
// of populated fields, a coverage measure, not per-field accuracy.
type Fields struct {
	Parties          []string      `json:"parties"`
	EffectiveDate    string        `json:"effective_date,omitempty"`
	Term             string        `json:"term,omitempty"`
	GoverningLaw     string        `json:"governing_law,omitempty"`
	PaymentTerms     string        `json:"payment_terms,omitempty"`
	Termination      string        `json:"termination,omitempty"`
	AutoRenewal      string        `json:"auto_renewal,omitempty"`
	Confidentiality  string        `json:"confidentiality,omitempty"`
	Indemnity        string        `json:"indemnity,omitempty"`
	LiabilityCap     *LiabilityCap `json:"liability_cap"`
	Signatories      []Signatory   `json:"signatories"`
	ExtractionMethod string        `json:"extraction_method"`
	ConfidenceScore  float64       `json:"confidence_score"`
}

type FieldExtractor struct {
	rules Rules
}

func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{rules: DefaultRules()}
}

// NewFieldExtractorWithRules builds an extractor over an alternate pattern
// table. The rules are not copied; callers must not mutate them afterwards.
func NewFieldExtractorWithRules(rules Rules) *FieldExtractor {
	return &FieldExtractor{rules: rules}
}

// Extract runs every field rule against the full document text and returns
// the populated record. Total over strings: pattern misses and malformed
// numbers leave the field unset, they never fail the call.
func (e *FieldExtractor) Extract(fullText string) Fields {
	fields := Fields{
		Parties:          []string{},
		Signatories:      []Signatory{},
		ExtractionMethod: MethodRuleBased,
	}
	if strings.TrimSpace(fullText) == "" {
		return fields
	}
	fields.Parties = e.extractParties(fullText)
	fields.EffectiveDate = firstMatch(e.rules.EffectiveDate, head(fullText, e.rules.DateHead))
	fields.Term = firstMatch(e.rules.Term, head(fullText, e.rules.TermHead))
	fields.GoverningLaw = firstMatch(e.rules.GoverningLaw, fullText)
	fields.PaymentTerms = e.extractSection(fullText, FieldPaymentTerms)
	fields.Termination = e.extractSection(fullText, FieldTermination)
	fields.AutoRenewal = e.extractSection(fullText, FieldAutoRenewal)
	fields.Confidentiality = e.extractSection(fullText, FieldConfidentiality)
	fields.Indemnity = e.extractSection(fullText, FieldIndemnity)
	fields.LiabilityCap = e.extractLiabilityCap(fullText)
	fields.Signatories = e.extractSignatories(fullText)
	fields.ConfidenceScore = float64(populatedCount(fields)) / fieldCount
	return fields
}

// extractParties collects candidate names from every party template, cleans
// them and collapses near-duplicates case-insensitively, preserving first
// appearance order.
func (e *FieldExtractor) extractParties(text string) []string {
	region := head(text, e.rules.PartyHead)
	parties := make([]string, 0, 2)
	seen := make(map[string]struct{})
	for _, re := range e.rules.Parties {
		for _, match := range re.FindAllStringSubmatch(region, -1) {
			for _, raw := range match[1:] {
				party := cleanParty(raw)
				if len(party) <= 3 {
					continue
				}
				key := strings.ToLower(strings.Join(strings.Fields(party), " "))
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				parties = append(parties, party)
			}
		}
	}
	return parties
}

func cleanParty(raw string) string {
	party := strings.Join(strings.Fields(raw), " ")
	return strings.Trim(party, " ,.\"'")
}

// extractSection returns a bounded window of text following the first anchor
// found for the field. Anchors are tried in priority order; the window runs
// from the start of the anchor's line to the first sentence end after the
// anchor, capped at SectionSpan characters.
func (e *FieldExtractor) extractSection(text, field string) string {
	lower := strings.ToLower(text)
	for _, anchor := range e.rules.SectionAnchors[field] {
		idx := strings.Index(lower, anchor)
		if idx < 0 {
			continue
		}
		start := strings.LastIndexByte(text[:idx], '\n') + 1
		end := start + e.rules.SectionSpan
		if end > len(text) {
			end = len(text)
		}
		if cut := sentenceEndAfter(text, idx+len(anchor), end); cut > 0 {
			end = cut
		}
		return strings.TrimSpace(text[start:end])
	}
	return ""
}

// sentenceEndAfter finds the first sentence terminator in text[from:limit],
// returning the offset just past it, or 0 when there is none.
func sentenceEndAfter(text string, from, limit int) int {
	if from >= limit {
		return 0
	}
	if idx := strings.IndexAny(text[from:limit], ".!?"); idx >= 0 {
		return from + idx + 1
	}
	return 0
}

func (e *FieldExtractor) extractLiabilityCap(text string) *LiabilityCap {
	for _, re := range e.rules.LiabilityCap {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", ""), 64)
		if err != nil {
			continue
		}
		return &LiabilityCap{Amount: amount, Currency: normalizeCurrency(match[1])}
	}
	return nil
}

func normalizeCurrency(token string) string {
	switch token {
	case "$":
		return "USD"
	case "€":
		return "EUR"
	case "£":
		return "GBP"
	}
	return strings.ToUpper(token)
}

// extractSignatories matches "Name, Title" lines in the tail of the document,
// where signature blocks live. An empty result is valid.
func (e *FieldExtractor) extractSignatories(text string) []Signatory {
	region := tail(text, e.rules.SignatoryRegion)
	signatories := make([]Signatory, 0)
	for _, match := range e.rules.Signatories.FindAllStringSubmatch(region, -1) {
		signatories = append(signatories, Signatory{
			Name:  strings.TrimSpace(match[1]),
			Title: strings.Trim(strings.TrimSpace(match[2]), "."),
		})
	}
	return signatories
}

func firstMatch(variants []*regexp.Regexp, text string) string {
	for _, re := range variants {
		if match := re.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

func populatedCount(fields Fields) int {
	count := 0
	if len(fields.Parties) > 0 {
		count++
	}
	for _, value := range []string{
		fields.EffectiveDate,
		fields.Term,
		fields.GoverningLaw,
		fields.PaymentTerms,
		fields.Termination,
		fields.AutoRenewal,
		fields.Confidentiality,
		fields.Indemnity,
	} {
		if value != "" {
			count++
		}
	}
	if fields.LiabilityCap != nil {
		count++
	}
	if len(fields.Signatories) > 0 {
		count++
	}
	return count
}

func head(text string, limit int) string {
	if limit > 0 && len(text) > limit {
		return text[:limit]
	}
	return text
}

func tail(text string, limit int) string {
	if limit > 0 && len(text) > limit {
		return text[len(text)-limit:]
	}
	return text
}
