package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"dealdocs/internal/apperr"
	"dealdocs/internal/config"
	"dealdocs/internal/model"
	"dealdocs/internal/repository"
	"dealdocs/internal/resolver"
)

var pdfMagic = []byte("%PDF")

// PathResolver locates file-backed documents whose recorded path is stale.
// Satisfied by *resolver.Resolver.
type PathResolver interface {
	Resolve(ctx context.Context, recordedPath, fileName string) (resolver.Result, error)
}

// StoreInput carries one upload. Size is the declared length from the caller
// (e.g. the multipart header); the stored length is whatever is actually read
// from Content, capped at the configured ceiling.
type StoreInput struct {
	DealID       int64
	FileName     string
	FileType     string
	DocumentType string
	Description  string
	UploadedBy   string
	Content      io.Reader
	Size         int64
}

// RetrieveResult is one resolved document read. Content streams from the blob
// or the resolved file; the caller owns closing it.
type RetrieveResult struct {
	Content      io.ReadCloser
	FileName     string
	FileType     string
	Size         int64
	Source       model.StorageMode
	ResolvedPath string
}

// DocumentService defines the use cases for storing and retrieving documents.
// Every operation is scoped to the caller's deal; ownership violations surface
// as *apperr.CrossDealAccessError before any bytes move.
type DocumentService interface {
	// Store validates the payload and writes a new blob-backed document row.
	Store(ctx context.Context, in StoreInput) (*model.Document, error)

	// Retrieve returns the document's bytes: directly from the blob when
	// present, otherwise from the filesystem via path resolution. A record
	// whose bytes cannot be produced in any mode yields *apperr.GoneError.
	Retrieve(ctx context.Context, documentID, dealID int64) (*RetrieveResult, error)

	// Get returns the blob-free metadata projection.
	Get(ctx context.Context, documentID, dealID int64) (*model.DocumentSummary, error)

	// Delete removes the metadata row and its blob. Filesystem bytes are
	// never touched; legacy files are externally managed.
	Delete(ctx context.Context, documentID, dealID int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	repo     repository.DocumentRepository
	deals    repository.DealRepository
	guard    IsolationService
	res      PathResolver
	maxBytes int64
	checkPDF bool
	log      zerolog.Logger
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	repo repository.DocumentRepository,
	deals repository.DealRepository,
	guard IsolationService,
	res PathResolver,
	cfg config.DocumentsConfig,
	log zerolog.Logger,
) DocumentService {
	return &documentService{
		repo:     repo,
		deals:    deals,
		guard:    guard,
		res:      res,
		maxBytes: cfg.MaxUploadBytes,
		checkPDF: cfg.PDFMagicCheck,
		log:      log.With().Str("component", "documents").Logger(),
	}
}

func (s *documentService) Store(ctx context.Context, in StoreInput) (*model.Document, error) {
	if in.Content == nil {
		return nil, &apperr.ValidationError{Field: "file", Reason: "no content"}
	}
	if in.FileName == "" {
		return nil, &apperr.ValidationError{Field: "file_name", Reason: "required"}
	}
	if in.DealID <= 0 {
		return nil, &apperr.ValidationError{Field: "deal_id", Reason: "required"}
	}
	if in.Size > s.maxBytes {
		return nil, &apperr.ValidationError{
			Field:  "file_size",
			Reason: fmt.Sprintf("exceeds %d bytes", s.maxBytes),
		}
	}

	exists, err := s.deals.Exists(ctx, in.DealID)
	if err != nil {
		return nil, fmt.Errorf("check deal: %w", err)
	}
	if !exists {
		return nil, &apperr.NotFoundError{Resource: "deal", ID: in.DealID}
	}

	// Read one byte past the ceiling so an over-declared or unbounded reader
	// is detected without buffering more than the limit.
	data, err := io.ReadAll(io.LimitReader(in.Content, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(data) == 0 {
		return nil, &apperr.ValidationError{Field: "file", Reason: "empty payload"}
	}
	if int64(len(data)) > s.maxBytes {
		return nil, &apperr.ValidationError{
			Field:  "file_size",
			Reason: fmt.Sprintf("exceeds %d bytes", s.maxBytes),
		}
	}
	if s.checkPDF && in.FileType == "application/pdf" && !bytes.HasPrefix(data, pdfMagic) {
		return nil, &apperr.ValidationError{Field: "file", Reason: "missing PDF magic header"}
	}

	doc := &model.Document{
		DealID:       in.DealID,
		FileName:     in.FileName,
		FileType:     in.FileType,
		FileSize:     int64(len(data)),
		BlobData:     data,
		DocumentType: in.DocumentType,
		Description:  in.Description,
		UploadedBy:   in.UploadedBy,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.log.Info().
		Int64("document_id", stored.ID).
		Int64("deal_id", stored.DealID).
		Int64("size_bytes", stored.FileSize).
		Str("file_name", stored.FileName).
		Msg("document stored")
	return stored, nil
}

func (s *documentService) Retrieve(ctx context.Context, documentID, dealID int64) (*RetrieveResult, error) {
	if err := s.guard.AssertOwnership(ctx, documentID, dealID); err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Resource: "document", ID: documentID}
		}
		return nil, fmt.Errorf("load document: %w", err)
	}

	// Blob wins; the path is only consulted for records predating migration.
	if len(doc.BlobData) > 0 {
		return &RetrieveResult{
			Content:  io.NopCloser(bytes.NewReader(doc.BlobData)),
			FileName: doc.FileName,
			FileType: doc.FileType,
			Size:     int64(len(doc.BlobData)),
			Source:   model.StorageBlob,
		}, nil
	}

	if doc.FilePath == "" {
		return nil, s.gone(doc)
	}

	res, err := s.res.Resolve(ctx, doc.FilePath, doc.FileName)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, s.gone(doc)
	}

	f, err := os.Open(res.Path)
	if err != nil {
		return nil, s.gone(doc)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat resolved file: %w", err)
	}
	if fi.Size() != doc.FileSize {
		warn := &apperr.IntegrityWarning{
			DocumentID: doc.ID,
			Kind:       apperr.WarnSizeMismatch,
			Detail:     fmt.Sprintf("recorded %d bytes, resolved file has %d", doc.FileSize, fi.Size()),
		}
		s.log.Warn().Err(warn).Int64("document_id", doc.ID).Str("path", res.Path).
			Msg("integrity warning on read path")
	}

	return &RetrieveResult{
		Content:      f,
		FileName:     doc.FileName,
		FileType:     doc.FileType,
		Size:         fi.Size(),
		Source:       model.StorageFile,
		ResolvedPath: res.Path,
	}, nil
}

// gone builds the diagnostic error for a record whose metadata exists but
// whose bytes cannot be produced.
func (s *documentService) gone(doc *model.Document) error {
	err := &apperr.GoneError{
		DocumentID:   doc.ID,
		ExpectedPath: doc.FilePath,
		RecordedSize: doc.FileSize,
		HasDBData:    len(doc.BlobData) > 0,
		HasFilePath:  doc.FilePath != "",
	}
	s.log.Warn().
		Int64("document_id", doc.ID).
		Str("expected_path", doc.FilePath).
		Int64("recorded_size", doc.FileSize).
		Msg("document content gone")
	return err
}

// Get returns the blob-free projection after the ownership check.
func (s *documentService) Get(ctx context.Context, documentID, dealID int64) (*model.DocumentSummary, error) {
	if err := s.guard.AssertOwnership(ctx, documentID, dealID); err != nil {
		return nil, err
	}
	sum, err := s.repo.FindSummaryByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Resource: "document", ID: documentID}
		}
		return nil, err
	}
	return sum, nil
}

// Delete removes the metadata row after the ownership check.
func (s *documentService) Delete(ctx context.Context, documentID, dealID int64) error {
	if err := s.guard.AssertOwnership(ctx, documentID, dealID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.log.Info().Int64("document_id", documentID).Int64("deal_id", dealID).Msg("document deleted")
	return nil
}
