package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Package storage contains the S3-compatible archive sink for migrated legacy
// files. The engine never deletes filesystem bytes; after a file is promoted
// to blob storage, a copy can be parked here so operators can reclaim disk
// space out-of-band. Implementations rely on streaming I/O only.

// ErrObjectNotFound is returned by Stat when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Archive is the write-and-verify surface the migration pass needs. Methods
// use context and streaming readers; no local disk is used.
type Archive interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Stat returns object info for a key, or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// ArchiveKey builds the bucket key for one document's legacy file copy.
func ArchiveKey(dealID, documentID int64, fileName string) string {
	return fmt.Sprintf("archive/%d/%d_%s", dealID, documentID, fileName)
}
