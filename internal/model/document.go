package model

import "time"

// StorageMode describes where a document's bytes live. It is derived from the
// record's fields, never stored: the blob column wins over a recorded path.
type StorageMode string

const (
	// StorageBlob means the bytes are stored inline in the documents row.
	StorageBlob StorageMode = "blob"
	// StorageFile means the bytes live on a filesystem referenced by FilePath.
	StorageFile StorageMode = "file"
	// StorageUnresolved means the record has neither blob data nor a path.
	// Such records are reported by the audit runner, never served as empty.
	StorageUnresolved StorageMode = "unresolved"
)

// Document represents a stored deal document. BlobData is the authoritative
// byte source when present; FilePath is meaningful only for records predating
// the blob-storage migration.
type Document struct {
	ID           int64     `json:"id"`
	DealID       int64     `json:"deal_id"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	BlobData     []byte    `json:"-"`
	FilePath     string    `json:"file_path,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	Description  string    `json:"description,omitempty"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// StorageMode derives the record's storage mode per the blob-then-file rule.
func (d *Document) StorageMode() StorageMode {
	switch {
	case len(d.BlobData) > 0:
		return StorageBlob
	case d.FilePath != "":
		return StorageFile
	default:
		return StorageUnresolved
	}
}

// DocumentSummary is the blob-free projection of a document row used by
// listings and the audit scan. HasBlob and BlobSize are computed in SQL via
// octet_length so blob payloads never leave the database for bulk reads.
type DocumentSummary struct {
	ID           int64     `json:"id"`
	DealID       int64     `json:"deal_id"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	FilePath     string    `json:"file_path,omitempty"`
	DocumentType string    `json:"document_type,omitempty"`
	Description  string    `json:"description,omitempty"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
	HasBlob      bool      `json:"has_blob"`
	BlobSize     int64     `json:"blob_size"`
}

// StorageMode derives the storage mode from the projection fields.
func (s *DocumentSummary) StorageMode() StorageMode {
	switch {
	case s.HasBlob:
		return StorageBlob
	case s.FilePath != "":
		return StorageFile
	default:
		return StorageUnresolved
	}
}
