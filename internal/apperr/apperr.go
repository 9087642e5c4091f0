// Package apperr defines the typed errors shared by the service, resolver and
// HTTP layers. Callers branch with errors.As; the handler layer maps each type
// to a distinct status code instead of collapsing everything into 404.
package apperr

import "fmt"

// ValidationError reports rejected caller input: empty payloads, oversize
// uploads, malformed content. Not retryable with the same input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid document: %s", e.Reason)
	}
	return fmt.Sprintf("invalid document: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent deal or document record.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// CrossDealAccessError reports a document requested through a deal that does
// not own it. Expected is the deal the caller claimed, Actual the recorded
// owner. Never retried; logged for audit.
type CrossDealAccessError struct {
	DocumentID int64
	Expected   int64
	Actual     int64
}

func (e *CrossDealAccessError) Error() string {
	return fmt.Sprintf("document %d belongs to deal %d, not deal %d",
		e.DocumentID, e.Actual, e.Expected)
}

// GoneError reports a document whose metadata exists but whose bytes cannot
// be produced in any storage mode. Distinct from NotFoundError so callers can
// offer re-upload instead of treating the record as absent.
type GoneError struct {
	DocumentID   int64
	ExpectedPath string
	RecordedSize int64
	HasDBData    bool
	HasFilePath  bool
}

func (e *GoneError) Error() string {
	return fmt.Sprintf("document %d content gone (expected path %q, recorded size %d)",
		e.DocumentID, e.ExpectedPath, e.RecordedSize)
}

// Integrity warning kinds.
const (
	WarnSizeMismatch = "size_mismatch"
	WarnDealMismatch = "deal_mismatch"
)

// IntegrityWarning is a non-fatal anomaly noticed on the read path or during
// an audit scan: recorded size differs from actual bytes, or a document's
// name suggests it belongs to another deal. It is logged and reported, never
// returned as a request failure.
type IntegrityWarning struct {
	DocumentID int64
	Kind       string
	Detail     string
}

func (e *IntegrityWarning) Error() string {
	return fmt.Sprintf("integrity warning for document %d: %s: %s",
		e.DocumentID, e.Kind, e.Detail)
}
