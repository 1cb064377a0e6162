package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/clauselens/clauselens/internal/model"
	"github.com/clauselens/clauselens/internal/pkg/dbutil"
)

var findingColumns = []string{"document_id", "finding_type", "severity", "description", "evidence", "page_number", "char_start", "char_end", "ctime"}

type FindingRepo struct {
	db *sql.DB
}

func NewFindingRepo(db *sql.DB) *FindingRepo {
	return &FindingRepo{db: db}
}

// ReplaceForDocument swaps the stored findings for a document in one
// transaction, so a re-audit never leaves a mixed result set.
func (r *FindingRepo) ReplaceForDocument(ctx context.Context, docID string, findings []*model.AuditFinding) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	delStr, delArgs, err := builder.BuildDelete("audit_findings", map[string]interface{}{"document_id": docID})
	if err != nil {
		return err
	}
	delStr, delArgs = dbutil.Finalize(delStr, delArgs)
	if _, err := tx.ExecContext(ctx, delStr, delArgs...); err != nil {
		return err
	}

	if len(findings) > 0 {
		data := make([]map[string]interface{}, 0, len(findings))
		for _, f := range findings {
			data = append(data, map[string]interface{}{
				"document_id":  docID,
				"finding_type": f.FindingType,
				"severity":     f.Severity,
				"description":  f.Description,
				"evidence":     f.Evidence,
				"page_number":  nullableInt(f.PageNumber),
				"char_start":   nullableInt(f.CharStart),
				"char_end":     nullableInt(f.CharEnd),
				"ctime":        f.Ctime,
			})
		}
		insStr, insArgs, err := builder.BuildInsert("audit_findings", data)
		if err != nil {
			return err
		}
		insStr, insArgs = dbutil.Finalize(insStr, insArgs)
		if _, err := tx.ExecContext(ctx, insStr, insArgs...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *FindingRepo) ListByDocument(ctx context.Context, docID string) ([]*model.AuditFinding, error) {
	where := map[string]interface{}{
		"document_id": docID,
		"_orderby":    "id asc",
	}
	sqlStr, args, err := builder.BuildSelect("audit_findings", where, findingColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	findings := make([]*model.AuditFinding, 0)
	for rows.Next() {
		var (
			f                           model.AuditFinding
			pageNum, charStart, charEnd sql.NullInt64
		)
		if err := rows.Scan(&f.DocumentID, &f.FindingType, &f.Severity, &f.Description, &f.Evidence, &pageNum, &charStart, &charEnd, &f.Ctime); err != nil {
			return nil, err
		}
		f.PageNumber = fromNullInt(pageNum)
		f.CharStart = fromNullInt(charStart)
		f.CharEnd = fromNullInt(charEnd)
		findings = append(findings, &f)
	}
	return findings, rows.Err()
}

func (r *FindingRepo) CountByDocument(ctx context.Context, docID string) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM audit_findings WHERE document_id = $1", docID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FindingRepo) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM audit_findings")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FindingRepo) DeleteByDocument(ctx context.Context, docID string) error {
	where := map[string]interface{}{
		"document_id": docID,
	}
	sqlStr, args, err := builder.BuildDelete("audit_findings", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
