package audit

import (
	"time"

	"dealdocs/internal/resolver"
)

// Classification is the health bucket a document lands in after the scan
// pass. Every record lands in exactly one bucket.
type Classification string

const (
	ClassBlob             Classification = "blob"
	ClassFilesystemOK     Classification = "filesystem_ok"
	ClassFilesystemBroken Classification = "filesystem_broken"
	ClassMissing          Classification = "missing"
)

// Problem kinds attached to records whose content is not reachable.
const (
	ProblemBrokenFile = "filesystem_broken"
	ProblemNoPath     = "no_path"
)

// Problem is one record whose bytes could not be located. ExpectedPath and
// RecordedSize carry what the metadata claims, so an operator can act on it.
type Problem struct {
	DocumentID   int64  `json:"document_id"`
	DealID       int64  `json:"deal_id"`
	FileName     string `json:"file_name"`
	Kind         string `json:"kind"`
	ExpectedPath string `json:"expected_path,omitempty"`
	RecordedSize int64  `json:"recorded_size"`
}

// SizeMismatch flags a record whose recorded size differs from the byte
// source actually holding its content. Reported, never fatal.
type SizeMismatch struct {
	DocumentID   int64  `json:"document_id"`
	FileName     string `json:"file_name"`
	Source       string `json:"source"`
	Path         string `json:"path,omitempty"`
	RecordedSize int64  `json:"recorded_size"`
	ActualSize   int64  `json:"actual_size"`
}

// DealMismatch flags a filename that carries a keyword belonging exclusively
// to a different deal than the record's owner. Heuristic evidence for manual
// review, never auto-corrected.
type DealMismatch struct {
	DocumentID      int64  `json:"document_id"`
	DealID          int64  `json:"deal_id"`
	FileName        string `json:"file_name"`
	Keyword         string `json:"keyword"`
	SuspectDealID   int64  `json:"suspect_deal_id"`
	SuspectDealName string `json:"suspect_deal_name"`
}

// Report is the outcome of one scan pass over the full corpus.
type Report struct {
	ScannedAt      time.Time              `json:"scanned_at"`
	Total          int                    `json:"total"`
	Counts         map[Classification]int `json:"counts"`
	Problems       []Problem              `json:"problems,omitempty"`
	SizeMismatches []SizeMismatch         `json:"size_mismatches,omitempty"`
	DealMismatches []DealMismatch         `json:"deal_mismatches,omitempty"`
}

// MigrateOptions controls the blob-promotion pass. Limit bounds how many
// non-blob records are attempted; zero means no bound.
type MigrateOptions struct {
	DryRun bool
	Limit  int
}

// MigrateStats summarizes one migration pass. Examined counts the non-blob
// records attempted; AlreadyBlob counts the short-circuited ones.
type MigrateStats struct {
	Examined      int  `json:"examined"`
	AlreadyBlob   int  `json:"already_blob"`
	Promoted      int  `json:"promoted"`
	Unresolved    int  `json:"unresolved"`
	LowConfidence int  `json:"low_confidence"`
	Failed        int  `json:"failed"`
	Archived      int  `json:"archived"`
	DryRun        bool `json:"dry_run"`
}

// RepairOptions controls the path-repair pass. Limit bounds how many broken
// records are attempted; zero means no bound.
type RepairOptions struct {
	DryRun bool
	Limit  int
}

// PathChange is one rewrite the repair pass applied or proposed. Applied is
// false for dry runs and for low-confidence suggestions.
type PathChange struct {
	DocumentID int64               `json:"document_id"`
	FileName   string              `json:"file_name"`
	OldPath    string              `json:"old_path"`
	NewPath    string              `json:"new_path"`
	Strategy   resolver.Strategy   `json:"strategy"`
	Confidence resolver.Confidence `json:"confidence"`
	Applied    bool                `json:"applied"`
}

// RepairStats summarizes one path-repair pass over the file-backed records.
// Examined = Healthy + Repaired + LowConfidence + Unresolved + Failed.
type RepairStats struct {
	Examined      int          `json:"examined"`
	Healthy       int          `json:"healthy"`
	Repaired      int          `json:"repaired"`
	LowConfidence int          `json:"low_confidence"`
	Unresolved    int          `json:"unresolved"`
	Failed        int          `json:"failed"`
	DryRun        bool         `json:"dry_run"`
	Changes       []PathChange `json:"changes,omitempty"`
}
