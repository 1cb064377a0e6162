package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/model"
	"github.com/clauselens/clauselens/internal/pkg/dbutil"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
)

var extractionColumns = []string{
	"document_id", "parties", "effective_date", "term", "governing_law",
	"payment_terms", "termination", "auto_renewal", "confidentiality", "indemnity",
	"liability_cap_amount", "liability_cap_currency", "signatories",
	"extraction_method", "confidence_score", "ctime",
}

type ExtractionRepo struct {
	db *sql.DB
}

func NewExtractionRepo(db *sql.DB) *ExtractionRepo {
	return &ExtractionRepo{db: db}
}

// Upsert replaces any stored extraction for the document.
func (r *ExtractionRepo) Upsert(ctx context.Context, rec *model.Extraction) error {
	parties, err := json.Marshal(rec.Fields.Parties)
	if err != nil {
		return err
	}
	signatories, err := json.Marshal(rec.Fields.Signatories)
	if err != nil {
		return err
	}
	var capAmount interface{}
	capCurrency := ""
	if rec.Fields.LiabilityCap != nil {
		capAmount = rec.Fields.LiabilityCap.Amount
		capCurrency = rec.Fields.LiabilityCap.Currency
	}
	data := map[string]interface{}{
		"document_id":            rec.DocumentID,
		"parties":                string(parties),
		"effective_date":         rec.Fields.EffectiveDate,
		"term":                   rec.Fields.Term,
		"governing_law":          rec.Fields.GoverningLaw,
		"payment_terms":          rec.Fields.PaymentTerms,
		"termination":            rec.Fields.Termination,
		"auto_renewal":           rec.Fields.AutoRenewal,
		"confidentiality":        rec.Fields.Confidentiality,
		"indemnity":              rec.Fields.Indemnity,
		"liability_cap_amount":   capAmount,
		"liability_cap_currency": capCurrency,
		"signatories":            string(signatories),
		"extraction_method":      rec.Fields.ExtractionMethod,
		"confidence_score":       rec.Fields.ConfidenceScore,
		"ctime":                  rec.Ctime,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	delStr, delArgs, err := builder.BuildDelete("extractions", map[string]interface{}{"document_id": rec.DocumentID})
	if err != nil {
		return err
	}
	delStr, delArgs = dbutil.Finalize(delStr, delArgs)
	if _, err := tx.ExecContext(ctx, delStr, delArgs...); err != nil {
		return err
	}

	insStr, insArgs, err := builder.BuildInsert("extractions", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	insStr, insArgs = dbutil.Finalize(insStr, insArgs)
	if _, err := tx.ExecContext(ctx, insStr, insArgs...); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ExtractionRepo) Get(ctx context.Context, docID string) (*model.Extraction, error) {
	where := map[string]interface{}{
		"document_id": docID,
	}
	sqlStr, args, err := builder.BuildSelect("extractions", where, extractionColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}

	var (
		rec         model.Extraction
		parties     string
		signatories string
		capAmount   sql.NullFloat64
		capCurrency string
	)
	if err := rows.Scan(&rec.DocumentID, &parties, &rec.Fields.EffectiveDate, &rec.Fields.Term, &rec.Fields.GoverningLaw,
		&rec.Fields.PaymentTerms, &rec.Fields.Termination, &rec.Fields.AutoRenewal, &rec.Fields.Confidentiality, &rec.Fields.Indemnity,
		&capAmount, &capCurrency, &signatories,
		&rec.Fields.ExtractionMethod, &rec.Fields.ConfidenceScore, &rec.Ctime); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(parties), &rec.Fields.Parties); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(signatories), &rec.Fields.Signatories); err != nil {
		return nil, err
	}
	if capAmount.Valid {
		rec.Fields.LiabilityCap = &extract.LiabilityCap{Amount: capAmount.Float64, Currency: capCurrency}
	}
	return &rec, nil
}

func (r *ExtractionRepo) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM extractions")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ExtractionRepo) DeleteByDocument(ctx context.Context, docID string) error {
	where := map[string]interface{}{
		"document_id": docID,
	}
	sqlStr, args, err := builder.BuildDelete("extractions", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
