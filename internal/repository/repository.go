package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres, mongo) inside this directory.

import (
	"context"

	"dealdocs/internal/model"
)

// DealRepository is the read-only view of the CRM deals table this engine
// needs. Deal creation and updates belong to the wider CRM.
type DealRepository interface {
	// FindByID returns a deal by its ID.
	FindByID(ctx context.Context, id int64) (*model.Deal, error)

	// Exists reports whether a deal row exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// ListAll returns every deal. Used by the audit runner to build the
	// deal-name keyword index for mismatch detection.
	ListAll(ctx context.Context) ([]model.Deal, error)
}
