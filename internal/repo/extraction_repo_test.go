package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/model"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/pkg/timeutil"
	"github.com/clauselens/clauselens/internal/repo"
)

func TestExtractionRepoUpsertAndGet(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	extractions := repo.NewExtractionRepo(conn)
	docID := testID(t)
	rec := &model.Extraction{
		DocumentID: docID,
		Fields: extract.Fields{
			Parties:          []string{"Company A", "Company B"},
			EffectiveDate:    "January 1, 2024",
			Term:             "12 months",
			GoverningLaw:     "California",
			LiabilityCap:     &extract.LiabilityCap{Amount: 100000, Currency: "USD"},
			Signatories:      []extract.Signatory{{Name: "John Smith", Title: "CEO"}},
			ExtractionMethod: extract.MethodRuleBased,
			ConfidenceScore:  6.0 / 11.0,
		},
		Ctime: timeutil.NowUnix(),
	}
	require.NoError(t, extractions.Upsert(context.Background(), rec))
	defer extractions.DeleteByDocument(context.Background(), docID)

	stored, err := extractions.Get(context.Background(), docID)
	require.NoError(t, err)
	require.Equal(t, []string{"Company A", "Company B"}, stored.Fields.Parties)
	require.Equal(t, "12 months", stored.Fields.Term)
	require.NotNil(t, stored.Fields.LiabilityCap)
	require.Equal(t, 100000.0, stored.Fields.LiabilityCap.Amount)
	require.Equal(t, "USD", stored.Fields.LiabilityCap.Currency)
	require.Len(t, stored.Fields.Signatories, 1)
	require.Equal(t, "CEO", stored.Fields.Signatories[0].Title)

	rec.Fields.Term = "24 months"
	rec.Fields.LiabilityCap = nil
	require.NoError(t, extractions.Upsert(context.Background(), rec))

	stored, err = extractions.Get(context.Background(), docID)
	require.NoError(t, err)
	require.Equal(t, "24 months", stored.Fields.Term)
	require.Nil(t, stored.Fields.LiabilityCap)
}

func TestExtractionRepoGetMissing(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	extractions := repo.NewExtractionRepo(conn)
	_, err := extractions.Get(context.Background(), "missing-"+testID(t))
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
