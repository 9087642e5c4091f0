package model

import "time"

// DocumentMove is one row of the append-only move audit trail. The table has
// no foreign key to documents on purpose: history must survive document
// deletion.
type DocumentMove struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	FromDealID int64     `json:"from_deal_id"`
	ToDealID   int64     `json:"to_deal_id"`
	Reason     string    `json:"reason,omitempty"`
	MovedAt    time.Time `json:"moved_at"`
}
