package model

type Document struct {
	ID       string `json:"document_id"`
	Filename string `json:"filename"`
	FileKey  string `json:"-"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"-"`
	NumPages int    `json:"num_pages"`
	State    int    `json:"-"`
	Ctime    int64  `json:"created_at"`
	Mtime    int64  `json:"-"`
}
