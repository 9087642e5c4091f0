package model

// Package model contains domain models/data structures.
// Pure data types shared across layers (HTTP, service, storage); no business
// logic and no database-specific dependencies here.

import "time"

// Deal is the read-only projection of a CRM deal that document operations
// need: ownership checks and name-mismatch heuristics. Deal lifecycle is
// managed elsewhere in the CRM.
type Deal struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
