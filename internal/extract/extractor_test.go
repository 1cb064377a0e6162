package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleContract = `This agreement is entered into between Company A and Company B on January 1, 2024. Term: 12 months. Governing Law: California. Liability is capped at $100,000 USD.`

func TestExtractSampleContract(t *testing.T) {
	fields := NewFieldExtractor().Extract(sampleContract)

	require.Equal(t, []string{"Company A", "Company B"}, fields.Parties)
	require.Equal(t, "January 1, 2024", fields.EffectiveDate)
	require.Equal(t, "12 months", fields.Term)
	require.Equal(t, "California", fields.GoverningLaw)
	require.NotNil(t, fields.LiabilityCap)
	require.Equal(t, float64(100000), fields.LiabilityCap.Amount)
	require.Equal(t, "USD", fields.LiabilityCap.Currency)
	require.Equal(t, MethodRuleBased, fields.ExtractionMethod)
	require.InDelta(t, 5.0/11.0, fields.ConfidenceScore, 1e-9)
}

func TestExtractEmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		fields := NewFieldExtractor().Extract(text)
		require.Empty(t, fields.Parties)
		require.NotNil(t, fields.Parties)
		require.Empty(t, fields.EffectiveDate)
		require.Empty(t, fields.Term)
		require.Empty(t, fields.GoverningLaw)
		require.Empty(t, fields.PaymentTerms)
		require.Empty(t, fields.Termination)
		require.Empty(t, fields.AutoRenewal)
		require.Empty(t, fields.Confidentiality)
		require.Empty(t, fields.Indemnity)
		require.Nil(t, fields.LiabilityCap)
		require.NotNil(t, fields.Signatories)
		require.Empty(t, fields.Signatories)
		require.Equal(t, MethodRuleBased, fields.ExtractionMethod)
		require.Zero(t, fields.ConfidenceScore)
	}
}

func TestExtractTotalOverGarbage(t *testing.T) {
	inputs := []string{
		strings.Repeat("\x00\x01\x02", 100),
		"between and between and & &",
		"$ , . USD EUR effective dated term liability governed by",
		strings.Repeat("a", 100000),
	}
	for _, text := range inputs {
		fields := NewFieldExtractor().Extract(text)
		require.GreaterOrEqual(t, fields.ConfidenceScore, 0.0)
		require.LessOrEqual(t, fields.ConfidenceScore, 1.0)
	}
}

func TestExtractPartiesDeduplicated(t *testing.T) {
	text := `SERVICE AGREEMENT entered into by Acme Corp and Widget LLC.
PARTY A: Acme  Corp
PARTY B: Widget LLC
Client: Acme Corp`
	fields := NewFieldExtractor().Extract(text)
	require.Equal(t, []string{"Acme Corp", "Widget LLC"}, fields.Parties)
}

func TestExtractNumericDateWinsOverTextual(t *testing.T) {
	text := "This contract is effective 01/02/2024, also described as February 1, 2024."
	fields := NewFieldExtractor().Extract(text)
	require.Equal(t, "01/02/2024", fields.EffectiveDate)
}

func TestExtractDateAbsent(t *testing.T) {
	fields := NewFieldExtractor().Extract("No dates appear anywhere in this text.")
	require.Empty(t, fields.EffectiveDate)
}

func TestExtractGoverningLawVariants(t *testing.T) {
	fields := NewFieldExtractor().Extract("This agreement shall be governed by the laws of the State of New York, without regard to conflicts.")
	require.Equal(t, "New York", fields.GoverningLaw)

	fields = NewFieldExtractor().Extract("Governing Law: Delaware\n")
	require.Equal(t, "Delaware", fields.GoverningLaw)
}

func TestExtractSectionFields(t *testing.T) {
	text := `1. Payment Terms. Invoices are payable within 30 days of receipt.
2. Termination. Either party may terminate this agreement with 60 days written notice.
3. Confidentiality. Each party shall keep the other's information confidential.
4. Indemnification. Vendor shall indemnify Client against third party claims.
5. Renewal. This agreement shall automatically renew for successive one year terms.`
	fields := NewFieldExtractor().Extract(text)

	require.Contains(t, fields.PaymentTerms, "Payment Terms")
	require.Contains(t, fields.Termination, "Termination")
	require.Contains(t, fields.Confidentiality, "Confidentiality")
	require.Contains(t, fields.Indemnity, "Indemnification")
	require.Contains(t, fields.AutoRenewal, "Renewal")
}

func TestExtractSectionAbsentStaysUnset(t *testing.T) {
	fields := NewFieldExtractor().Extract("Nothing relevant here at all.")
	require.Empty(t, fields.PaymentTerms)
	require.Empty(t, fields.Termination)
	require.Empty(t, fields.AutoRenewal)
	require.Empty(t, fields.Confidentiality)
	require.Empty(t, fields.Indemnity)
}

func TestExtractLiabilityCapCurrencies(t *testing.T) {
	cases := []struct {
		text     string
		amount   float64
		currency string
	}{
		{"Liability shall not exceed EUR 50,000.", 50000, "EUR"},
		{"Liability is capped at £1,250.50 in aggregate.", 1250.50, "GBP"},
		{"In no event shall liability exceed $2,000,000.", 2000000, "USD"},
	}
	for _, tc := range cases {
		fields := NewFieldExtractor().Extract(tc.text)
		require.NotNil(t, fields.LiabilityCap, tc.text)
		require.Equal(t, tc.amount, fields.LiabilityCap.Amount, tc.text)
		require.Equal(t, tc.currency, fields.LiabilityCap.Currency, tc.text)
	}
}

func TestExtractLiabilityCapAbsent(t *testing.T) {
	fields := NewFieldExtractor().Extract("Liability is unlimited under this agreement.")
	require.Nil(t, fields.LiabilityCap)
}

func TestExtractSignatories(t *testing.T) {
	text := "AGREEMENT BODY\n" + strings.Repeat("clause text. ", 50) + `
IN WITNESS WHEREOF, the parties have executed this agreement.

John Smith, Chief Executive Officer
Jane Doe, General Counsel
`
	fields := NewFieldExtractor().Extract(text)
	require.Equal(t, []Signatory{
		{Name: "John Smith", Title: "Chief Executive Officer"},
		{Name: "Jane Doe", Title: "General Counsel"},
	}, fields.Signatories)
}

func TestConfidenceScoreIsCoverageRatio(t *testing.T) {
	fields := NewFieldExtractor().Extract(sampleContract)
	require.Equal(t, float64(populatedCount(fields))/11.0, fields.ConfidenceScore)

	full := sampleContract + `
Payment terms: net 30 days from invoice.
Either party may terminate with 90 days notice.
All confidential information remains protected.
Vendor shall indemnify Client against all claims.
This agreement shall automatically renew each year.

John Smith, Chief Executive Officer
`
	fields = NewFieldExtractor().Extract(full)
	require.Equal(t, 1.0, fields.ConfidenceScore)
}

func TestExtractWithAlternateRules(t *testing.T) {
	rules := DefaultRules()
	rules.SectionAnchors = map[string][]string{
		FieldPaymentTerms: {"remuneration"},
	}
	extractor := NewFieldExtractorWithRules(rules)
	fields := extractor.Extract("Remuneration shall be agreed separately.")
	require.Contains(t, fields.PaymentTerms, "Remuneration")
}
