// Package audit runs rule-based risk checks over contract text and
// scores the aggregate exposure.
package audit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/model"
)

const (
	FindingMissingTermination     = "MISSING_TERMINATION"
	FindingUnlimitedLiability     = "UNLIMITED_LIABILITY"
	FindingAutoRenewal            = "AUTO_RENEWAL"
	FindingMissingGoverningLaw    = "MISSING_GOVERNING_LAW"
	FindingUnilateralModification = "UNILATERAL_MODIFICATION"
	FindingShortNoticeTermination = "SHORT_NOTICE_TERMINATION"
	FindingBroadIndemnity         = "BROAD_INDEMNITY"
	FindingNoWarranty             = "NO_WARRANTY"
)

const (
	evidenceContext   = 100
	minimumNoticeDays = 30
	maxRiskScore      = 100.0
)

var severityWeights = map[string]float64{
	model.SeverityHigh:   30,
	model.SeverityMedium: 15,
	model.SeverityLow:    5,
}

// checkFunc inspects the full text plus any extracted fields and
// returns a partially filled finding, or nil when the rule passes.
type checkFunc func(text string, fields *extract.Fields) *model.AuditFinding

type rule struct {
	id       string
	name     string
	severity string
	patterns []*regexp.Regexp
	check    checkFunc
}

type Engine struct {
	rules []rule
}

func NewEngine() *Engine {
	return &Engine{rules: []rule{
		{
			id:       FindingMissingTermination,
			name:     "Missing Termination Clause",
			severity: model.SeverityHigh,
			check:    checkTerminationClause,
		},
		{
			id:       FindingUnlimitedLiability,
			name:     "Unlimited Liability",
			severity: model.SeverityHigh,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)unlimited\s+liability`),
				regexp.MustCompile(`(?i)no\s+(?:limit|cap).*?liability`),
			},
		},
		{
			id:       FindingAutoRenewal,
			name:     "Automatic Renewal Without Notice",
			severity: model.SeverityMedium,
			check:    checkAutoRenewal,
		},
		{
			id:       FindingMissingGoverningLaw,
			name:     "Missing Governing Law",
			severity: model.SeverityMedium,
			check:    checkGoverningLaw,
		},
		{
			id:       FindingUnilateralModification,
			name:     "Unilateral Modification Rights",
			severity: model.SeverityHigh,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:may|can|shall)\s+(?:modify|change|amend).*?(?:at any time|without notice)`),
				regexp.MustCompile(`(?i)reserves?\s+the\s+right\s+to\s+(?:modify|change|amend)`),
			},
		},
		{
			id:       FindingShortNoticeTermination,
			name:     "Short Notice Period",
			severity: model.SeverityMedium,
			check:    checkTerminationNotice,
		},
		{
			id:       FindingBroadIndemnity,
			name:     "Broad Indemnity Clause",
			severity: model.SeverityHigh,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)indemnify.*?(?:from\s+(?:any|all)|harmless)`),
				regexp.MustCompile(`(?i)hold\s+harmless`),
			},
		},
		{
			id:       FindingNoWarranty,
			name:     "No Warranty Disclaimer",
			severity: model.SeverityLow,
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)as\s+is`),
				regexp.MustCompile(`(?i)without\s+warranty`),
				regexp.MustCompile(`(?i)no\s+warranties`),
			},
		},
	}}
}

// Audit evaluates every rule against the text. At most one finding is
// produced per rule. fields may be nil when no extraction has run.
func (e *Engine) Audit(text string, fields *extract.Fields) ([]*model.AuditFinding, float64) {
	findings := make([]*model.AuditFinding, 0, len(e.rules))
	for _, r := range e.rules {
		var f *model.AuditFinding
		if r.check != nil {
			f = r.check(text, fields)
		} else {
			f = matchPatterns(text, r.patterns)
		}
		if f == nil {
			continue
		}
		f.FindingType = r.id
		f.Severity = r.severity
		f.Description = r.name
		findings = append(findings, f)
	}
	return findings, RiskScore(findings)
}

// RiskScore sums the severity weights of the findings, capped at 100.
func RiskScore(findings []*model.AuditFinding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var total float64
	for _, f := range findings {
		w, ok := severityWeights[f.Severity]
		if !ok {
			w = severityWeights[model.SeverityLow]
		}
		total += w
	}
	if total > maxRiskScore {
		return maxRiskScore
	}
	return total
}

// Summary renders a one-line severity breakdown.
func Summary(findings []*model.AuditFinding, riskScore float64) string {
	if len(findings) == 0 {
		return "No significant risks identified."
	}
	var high, medium, low int
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityHigh:
			high++
		case model.SeverityMedium:
			medium++
		default:
			low++
		}
	}
	return fmt.Sprintf("Found %d issues: %d high, %d medium, %d low severity. Risk score: %.0f/100.",
		len(findings), high, medium, low, riskScore)
}

func matchPatterns(text string, patterns []*regexp.Regexp) *model.AuditFinding {
	for _, p := range patterns {
		loc := p.FindStringIndex(text)
		if loc == nil {
			continue
		}
		return evidenceFinding(text, loc[0], loc[1])
	}
	return nil
}

func evidenceFinding(text string, start, end int) *model.AuditFinding {
	evStart := start - evidenceContext
	if evStart < 0 {
		evStart = 0
	}
	evEnd := end + evidenceContext
	if evEnd > len(text) {
		evEnd = len(text)
	}
	return &model.AuditFinding{
		Evidence:  strings.TrimSpace(text[evStart:evEnd]),
		CharStart: intPtr(start),
		CharEnd:   intPtr(end),
	}
}

var (
	terminationRe       = regexp.MustCompile(`(?i)terminat(?:ion|e)`)
	governingLawRe      = regexp.MustCompile(`(?i)governing\s+law`)
	autoRenewalRe       = regexp.MustCompile(`(?i)auto(?:matic)?(?:ally)?\s+renew`)
	renewalNoticeRe     = regexp.MustCompile(`(?i)(\d+)\s+days?\s+(?:notice|prior)`)
	terminationNoticeRe = regexp.MustCompile(`(?i)(?:terminate|cancel).*?(\d+)\s+days?\s+notice`)
)

func checkTerminationClause(text string, fields *extract.Fields) *model.AuditFinding {
	if !terminationRe.MatchString(text) {
		return &model.AuditFinding{Evidence: "No termination clause found in document"}
	}
	if fields != nil && fields.Termination == "" {
		return &model.AuditFinding{Evidence: "Termination clause not clearly defined"}
	}
	return nil
}

func checkGoverningLaw(text string, fields *extract.Fields) *model.AuditFinding {
	if !governingLawRe.MatchString(text) {
		return &model.AuditFinding{Evidence: "No governing law clause found"}
	}
	if fields != nil && fields.GoverningLaw == "" {
		return &model.AuditFinding{Evidence: "Governing law not clearly specified"}
	}
	return nil
}

func checkAutoRenewal(text string, _ *extract.Fields) *model.AuditFinding {
	loc := autoRenewalRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	winStart := loc[0] - 500
	if winStart < 0 {
		winStart = 0
	}
	winEnd := loc[1] + 500
	if winEnd > len(text) {
		winEnd = len(text)
	}
	m := renewalNoticeRe.FindStringSubmatch(text[winStart:winEnd])
	if m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil && days >= minimumNoticeDays {
			return nil
		}
	}
	end := loc[0] + 200
	if end > len(text) {
		end = len(text)
	}
	return &model.AuditFinding{
		Evidence:  text[loc[0]:end],
		CharStart: intPtr(loc[0]),
		CharEnd:   intPtr(end),
	}
}

func checkTerminationNotice(text string, _ *extract.Fields) *model.AuditFinding {
	for _, m := range terminationNoticeRe.FindAllStringSubmatchIndex(text, -1) {
		days, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || days >= minimumNoticeDays {
			continue
		}
		end := m[1] + evidenceContext
		if end > len(text) {
			end = len(text)
		}
		return &model.AuditFinding{
			Evidence:  text[m[0]:end],
			CharStart: intPtr(m[0]),
			CharEnd:   intPtr(m[1]),
		}
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
