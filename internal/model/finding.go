package model

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

type AuditFinding struct {
	DocumentID  string `json:"-"`
	FindingType string `json:"finding_type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
	PageNumber  *int   `json:"page_number"`
	CharStart   *int   `json:"char_start"`
	CharEnd     *int   `json:"char_end"`
	Ctime       int64  `json:"-"`
}
