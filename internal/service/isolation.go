package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"dealdocs/internal/apperr"
	"dealdocs/internal/model"
	"dealdocs/internal/repository"
)

// DocumentListResult is the service-level DTO for paginated document listings.
type DocumentListResult struct {
	Items []model.DocumentSummary `json:"data"`
	Total int                     `json:"total"`
}

// IsolationService enforces deal-scoped access: a document is only visible or
// mutable through its owning deal, and ownership changes only through the
// audited Move. Violations are data or caller errors, never retried.
type IsolationService interface {
	// AssertOwnership fails with *apperr.CrossDealAccessError when the
	// document's recorded deal differs from expectedDealID.
	AssertOwnership(ctx context.Context, documentID, expectedDealID int64) error

	// Move reassigns the document to toDealID and appends an audit row, both
	// in one transaction. The target deal must exist; moving a document to
	// the deal it already belongs to is rejected.
	Move(ctx context.Context, documentID, toDealID int64, reason string) (*model.DocumentMove, error)

	// ListForDeal returns the deal's document summaries, newest first.
	ListForDeal(ctx context.Context, dealID int64, limit, offset int) (*DocumentListResult, error)

	// History returns the document's append-only move trail.
	History(ctx context.Context, documentID int64) ([]model.DocumentMove, error)
}

// isolationService is a concrete implementation of IsolationService.
type isolationService struct {
	docs  repository.DocumentRepository
	deals repository.DealRepository
	log   zerolog.Logger
}

// NewIsolationService constructs a new IsolationService.
func NewIsolationService(docs repository.DocumentRepository, deals repository.DealRepository, log zerolog.Logger) IsolationService {
	return &isolationService{
		docs:  docs,
		deals: deals,
		log:   log.With().Str("component", "isolation").Logger(),
	}
}

func (s *isolationService) AssertOwnership(ctx context.Context, documentID, expectedDealID int64) error {
	actual, err := s.docs.FindDealID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &apperr.NotFoundError{Resource: "document", ID: documentID}
		}
		return fmt.Errorf("load document owner: %w", err)
	}
	if actual != expectedDealID {
		s.log.Warn().
			Int64("document_id", documentID).
			Int64("expected_deal_id", expectedDealID).
			Int64("actual_deal_id", actual).
			Msg("cross-deal access rejected")
		return &apperr.CrossDealAccessError{
			DocumentID: documentID,
			Expected:   expectedDealID,
			Actual:     actual,
		}
	}
	return nil
}

func (s *isolationService) Move(ctx context.Context, documentID, toDealID int64, reason string) (*model.DocumentMove, error) {
	if toDealID <= 0 {
		return nil, &apperr.ValidationError{Field: "to_deal_id", Reason: "required"}
	}

	from, err := s.docs.FindDealID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperr.NotFoundError{Resource: "document", ID: documentID}
		}
		return nil, fmt.Errorf("load document owner: %w", err)
	}
	if from == toDealID {
		return nil, &apperr.ValidationError{
			Field:  "to_deal_id",
			Reason: fmt.Sprintf("document already belongs to deal %d", toDealID),
		}
	}

	exists, err := s.deals.Exists(ctx, toDealID)
	if err != nil {
		return nil, fmt.Errorf("check target deal: %w", err)
	}
	if !exists {
		return nil, &apperr.NotFoundError{Resource: "deal", ID: toDealID}
	}

	mv, err := s.docs.Move(ctx, documentID, from, toDealID, reason)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The document changed owner between the read and the update.
			return nil, fmt.Errorf("move document %d: owner changed concurrently", documentID)
		}
		return nil, fmt.Errorf("move document %d: %w", documentID, err)
	}

	s.log.Info().
		Int64("document_id", documentID).
		Int64("from_deal_id", from).
		Int64("to_deal_id", toDealID).
		Str("reason", reason).
		Msg("document moved")
	return mv, nil
}

// ListForDeal returns paginated summaries without exposing repository types.
func (s *isolationService) ListForDeal(ctx context.Context, dealID int64, limit, offset int) (*DocumentListResult, error) {
	exists, err := s.deals.Exists(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("check deal: %w", err)
	}
	if !exists {
		return nil, &apperr.NotFoundError{Resource: "deal", ID: dealID}
	}

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.docs.ListByDeal(ctx, dealID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// History returns the move trail. Rows survive document deletion, so an empty
// trail is the only "not found" signal here.
func (s *isolationService) History(ctx context.Context, documentID int64) ([]model.DocumentMove, error) {
	return s.docs.ListMoves(ctx, documentID)
}
