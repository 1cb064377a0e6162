package model

import "github.com/clauselens/clauselens/internal/extract"

// Extraction is the stored field record for one document. At most one row
// per document; re-extraction replaces it. Stored records are not
// invalidated when the source document changes.
type Extraction struct {
	DocumentID string
	Fields     extract.Fields
	Ctime      int64
}
