package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dealdocs/internal/model"
	"dealdocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Nullable text columns are written with NULLIF and read with COALESCE so the
// model only ever sees empty strings.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (deal_id, file_name, file_type, file_size, blob_data, file_path, document_type, description, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		RETURNING id, uploaded_at
	`
	out := *doc
	row := r.db.QueryRowContext(ctx, q,
		doc.DealID,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.BlobData,
		doc.FilePath,
		doc.DocumentType,
		doc.Description,
		doc.UploadedBy,
	)
	if err := row.Scan(&out.ID, &out.UploadedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID, blob payload included.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, deal_id, file_name, file_type, file_size, blob_data,
		       COALESCE(file_path, ''), COALESCE(document_type, ''),
		       COALESCE(description, ''), COALESCE(uploaded_by, ''), uploaded_at
		FROM documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.DealID,
		&d.FileName,
		&d.FileType,
		&d.FileSize,
		&d.BlobData,
		&d.FilePath,
		&d.DocumentType,
		&d.Description,
		&d.UploadedBy,
		&d.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// summaryColumns is the blob-free projection shared by every summary query.
// octet_length keeps payload bytes inside the database.
const summaryColumns = `id, deal_id, file_name, file_type, file_size,
	       COALESCE(file_path, ''), COALESCE(document_type, ''),
	       COALESCE(description, ''), COALESCE(uploaded_by, ''), uploaded_at,
	       COALESCE(octet_length(blob_data), 0) > 0,
	       COALESCE(octet_length(blob_data), 0)`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*model.DocumentSummary, error) {
	var s model.DocumentSummary
	if err := row.Scan(
		&s.ID,
		&s.DealID,
		&s.FileName,
		&s.FileType,
		&s.FileSize,
		&s.FilePath,
		&s.DocumentType,
		&s.Description,
		&s.UploadedBy,
		&s.UploadedAt,
		&s.HasBlob,
		&s.BlobSize,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSummaryByID fetches the blob-free projection of a document.
func (r *DocumentPostgres) FindSummaryByID(ctx context.Context, id int64) (*model.DocumentSummary, error) {
	const q = `
		SELECT ` + summaryColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanSummary(r.db.QueryRowContext(ctx, q, id))
}

// FindDealID returns only the recorded deal_id of a document.
func (r *DocumentPostgres) FindDealID(ctx context.Context, id int64) (int64, error) {
	const q = `SELECT deal_id FROM documents WHERE id = $1`
	var dealID int64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&dealID); err != nil {
		return 0, err
	}
	return dealID, nil
}

// ListByDeal returns one deal's summaries using LIMIT/OFFSET pagination and a
// total count, newest first.
func (r *DocumentPostgres) ListByDeal(ctx context.Context, dealID int64, pq repository.PageQuery) (*repository.PageResult[model.DocumentSummary], error) {
	// Count total rows for the deal
	const qCount = `SELECT COUNT(*) FROM documents WHERE deal_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, dealID).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT ` + summaryColumns + `
		FROM documents
		WHERE deal_id = $1
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, dealID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.DocumentSummary]{
		Items: items,
		Total: total,
	}, nil
}

// ListSummariesAfter returns up to limit summaries with id > afterID in
// ascending id order. Keyset pagination for full-corpus iteration.
func (r *DocumentPostgres) ListSummariesAfter(ctx context.Context, afterID int64, limit int) ([]model.DocumentSummary, error) {
	const q = `
		SELECT ` + summaryColumns + `
		FROM documents
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentSummary, 0)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateBlob writes the payload and corrects file_size in one single-row UPDATE.
func (r *DocumentPostgres) UpdateBlob(ctx context.Context, id int64, blob []byte, size int64) error {
	const q = `UPDATE documents SET blob_data = $2, file_size = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, blob, size)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateFilePath rewrites the recorded file path.
func (r *DocumentPostgres) UpdateFilePath(ctx context.Context, id int64, path string) error {
	const q = `UPDATE documents SET file_path = NULLIF($2, '') WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, path)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Move reassigns a document to another deal and appends the audit row in a
// single transaction. The UPDATE is conditional on deal_id still matching
// fromDealID; zero rows affected rolls everything back.
func (r *DocumentPostgres) Move(ctx context.Context, documentID, fromDealID, toDealID int64, reason string) (*model.DocumentMove, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin move tx: %w", err)
	}
	defer tx.Rollback()

	const qUpdate = `UPDATE documents SET deal_id = $2 WHERE id = $1 AND deal_id = $3`
	res, err := tx.ExecContext(ctx, qUpdate, documentID, toDealID, fromDealID)
	if err != nil {
		return nil, fmt.Errorf("move update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, sql.ErrNoRows
	}

	const qInsert = `
		INSERT INTO document_moves (document_id, from_deal_id, to_deal_id, reason)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, moved_at
	`
	mv := model.DocumentMove{
		DocumentID: documentID,
		FromDealID: fromDealID,
		ToDealID:   toDealID,
		Reason:     reason,
	}
	if err := tx.QueryRowContext(ctx, qInsert, documentID, fromDealID, toDealID, reason).
		Scan(&mv.ID, &mv.MovedAt); err != nil {
		return nil, fmt.Errorf("move audit insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit move tx: %w", err)
	}
	return &mv, nil
}

// ListMoves returns the move trail for a document in insertion order.
func (r *DocumentPostgres) ListMoves(ctx context.Context, documentID int64) ([]model.DocumentMove, error) {
	const q = `
		SELECT id, document_id, from_deal_id, to_deal_id, COALESCE(reason, ''), moved_at
		FROM document_moves
		WHERE document_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moves := make([]model.DocumentMove, 0)
	for rows.Next() {
		var m model.DocumentMove
		if err := rows.Scan(
			&m.ID,
			&m.DocumentID,
			&m.FromDealID,
			&m.ToDealID,
			&m.Reason,
			&m.MovedAt,
		); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return moves, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Ignore rows affected to keep behavior simple per requirement (no business logic).
	_, _ = res.RowsAffected()
	return nil
}
