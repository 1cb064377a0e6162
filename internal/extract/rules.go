package extract

import "regexp"

// Field names for the section anchor table.
const (
	FieldPaymentTerms    = "payment_terms"
	FieldTermination     = "termination"
	FieldAutoRenewal     = "auto_renewal"
	FieldConfidentiality = "confidentiality"
	FieldIndemnity       = "indemnity"
)

// Rules is the immutable pattern configuration of a FieldExtractor. Each list
// is an ordered set of independent matcher variants for one field: variants
// are tried in order and the first match wins. Anchors are lowercase
// substrings tried in priority order by the section extractor.
type Rules struct {
	Parties       []*regexp.Regexp
	EffectiveDate []*regexp.Regexp
	Term          []*regexp.Regexp
	GoverningLaw  []*regexp.Regexp
	LiabilityCap  []*regexp.Regexp
	Signatories   *regexp.Regexp

	SectionAnchors map[string][]string

	// Scan regions, in characters. Parties and dates live in the head of a
	// contract, signature blocks in the tail.
	PartyHead       int
	DateHead        int
	TermHead        int
	SectionSpan     int
	SignatoryRegion int
}

// DefaultRules returns the built-in pattern tables. The returned value is
// treated as read-only and is safe to share across concurrent extractions.
func DefaultRules() Rules {
	return Rules{
		Parties: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bbetween\s+([A-Z][A-Za-z0-9&.,'\- ]{2,79}?)\s+(?:and|&)\s+([A-Z][A-Za-z0-9&.,'\- ]{2,79}?)(?:\s+(?:on|dated|effective|as)\b|[,;.(]|\n|$)`),
			regexp.MustCompile(`(?i)\bentered\s+into\s+by\s+([A-Z][A-Za-z0-9&.,'\- ]{2,79}?)\s+(?:and|&)\s+([A-Z][A-Za-z0-9&.,'\- ]{2,79}?)(?:\s+(?:on|dated|effective|as)\b|[,;.(]|\n|$)`),
			regexp.MustCompile(`(?im)^PARTY\s+(?:A|1)\s*:\s*([A-Z][A-Za-z0-9&.,'\- ]{2,79})$`),
			regexp.MustCompile(`(?im)^PARTY\s+(?:B|2)\s*:\s*([A-Z][A-Za-z0-9&.,'\- ]{2,79})$`),
			regexp.MustCompile(`(?im)^(?:Client|Vendor|Contractor|Supplier|Customer)\s*:\s*([A-Z][A-Za-z0-9&.,'\- ]{2,79})$`),
		},
		EffectiveDate: []*regexp.Regexp{
			regexp.MustCompile(`(?is)(?:effective|dated?|entered\s+into)\b.{0,80}?(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			regexp.MustCompile(`(?is)(?:effective|dated?|entered\s+into)\b.{0,80}?([A-Z][a-z]+\s+\d{1,2},?\s+\d{4})`),
			regexp.MustCompile(`(?i)effective\s+date\s*:\s*([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
		},
		Term: []*regexp.Regexp{
			regexp.MustCompile(`(?is)\bterm\b.{0,60}?(\d+\s+(?:day|month|year)s?)`),
			regexp.MustCompile(`(?is)\bfor\s+a\s+period\s+of\s+(\d+\s+(?:day|month|year)s?)`),
		},
		GoverningLaw: []*regexp.Regexp{
			regexp.MustCompile(`(?is)governed\s+by.{0,60}?laws?\s+of\s+(?:the\s+(?:state|commonwealth)\s+of\s+)?([A-Z][A-Za-z ]+?)(?:[,.;\n]|$)`),
			regexp.MustCompile(`(?i)governing\s+law\s*[:\-]\s*([A-Z][A-Za-z ]+?)(?:[,.;\n]|$)`),
			regexp.MustCompile(`(?is)governing\s+law.{0,40}?\bof\s+([A-Z][A-Za-z ]+?)(?:[,.;\n]|$)`),
		},
		LiabilityCap: []*regexp.Regexp{
			regexp.MustCompile(`(?is)liabilit.{0,120}?(?:limited|capped|cap|exceed)\b.{0,80}?(USD|EUR|GBP|[$€£])\s*([0-9][0-9,]*(?:\.[0-9]+)?)`),
			regexp.MustCompile(`(?is)(USD|EUR|GBP|[$€£])\s*([0-9][0-9,]*(?:\.[0-9]+)?).{0,120}?liabilit`),
		},
		Signatories: regexp.MustCompile(`(?m)^[ \t]*(?:By\s*:\s*)?([A-Z][A-Za-z.'\-]+(?:\s+[A-Z][A-Za-z.'\-]+){1,3})\s*,[ \t]*([A-Z][A-Za-z&.'\- ]{2,60}?)[ \t]*$`),
		SectionAnchors: map[string][]string{
			FieldPaymentTerms:    {"payment terms", "payment", "compensation", "fees"},
			FieldTermination:     {"termination", "terminate", "cancellation"},
			FieldAutoRenewal:     {"automatically renew", "auto-renew", "auto renew", "renewal", "renew"},
			FieldConfidentiality: {"confidentiality", "confidential", "non-disclosure", "nondisclosure"},
			FieldIndemnity:       {"indemnification", "indemnif", "indemnit"},
		},
		PartyHead:       2000,
		DateHead:        2000,
		TermHead:        3000,
		SectionSpan:     500,
		SignatoryRegion: 2000,
	}
}
