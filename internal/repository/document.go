package repository

import (
	"context"

	"dealdocs/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations. Absent rows
// surface as sql.ErrNoRows; the service layer maps them to typed errors.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record with
	// database-assigned ID and upload timestamp.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns the full document row, blob payload included.
	// Use FindSummaryByID wherever the payload is not needed.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindSummaryByID returns the blob-free projection of a document.
	// Blob presence and size are computed in SQL via octet_length.
	FindSummaryByID(ctx context.Context, id int64) (*model.DocumentSummary, error)

	// FindDealID returns only the recorded deal_id of a document.
	FindDealID(ctx context.Context, id int64) (int64, error)

	// ListByDeal returns a page of summaries for one deal, newest first,
	// plus the deal's total row count.
	ListByDeal(ctx context.Context, dealID int64, pq PageQuery) (*PageResult[model.DocumentSummary], error)

	// ListSummariesAfter returns up to limit summaries with id > afterID in
	// ascending id order. Keyset iteration for corpus-wide audit passes.
	ListSummariesAfter(ctx context.Context, afterID int64, limit int) ([]model.DocumentSummary, error)

	// UpdateBlob writes the blob payload and corrects file_size in one
	// single-row UPDATE. Used by the blob migration pass.
	UpdateBlob(ctx context.Context, id int64, blob []byte, size int64) error

	// UpdateFilePath rewrites the recorded file path. Used by path repair.
	UpdateFilePath(ctx context.Context, id int64, path string) error

	// Move reassigns the document to toDealID and appends a document_moves
	// row in one transaction; both happen or neither does. The UPDATE is
	// conditional on deal_id still being fromDealID, so a concurrent move
	// rolls back instead of silently overwriting.
	Move(ctx context.Context, documentID, fromDealID, toDealID int64, reason string) (*model.DocumentMove, error)

	// ListMoves returns the append-only move trail in insertion order.
	ListMoves(ctx context.Context, documentID int64) ([]model.DocumentMove, error)

	// Delete removes a document row (its blob goes with it). It returns nil
	// if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
