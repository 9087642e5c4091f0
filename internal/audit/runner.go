// Package audit walks the document corpus, classifies each record's health,
// and applies narrow non-destructive repairs: promoting file-backed records
// to blob storage and rewriting stale paths. Every pass is idempotent, so a
// crashed run is resumed by running it again.
package audit

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"dealdocs/internal/apperr"
	"dealdocs/internal/config"
	"dealdocs/internal/model"
	"dealdocs/internal/repository"
	"dealdocs/internal/resolver"
	"dealdocs/internal/storage"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers   = 4
	defaultBatchSize = 200
)

// Runner executes audit passes over the documents table. Iteration is
// keyset-batched over blob-free summaries; per-record work runs on a bounded
// worker pool. archive may be nil, which disables the legacy-file copy on
// promotion.
type Runner struct {
	docs    repository.DocumentRepository
	deals   repository.DealRepository
	res     *resolver.Resolver
	archive storage.Archive
	workers int
	batch   int
	log     zerolog.Logger
}

func NewRunner(
	docs repository.DocumentRepository,
	deals repository.DealRepository,
	res *resolver.Resolver,
	archive storage.Archive,
	cfg config.AuditConfig,
	log zerolog.Logger,
) *Runner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Runner{
		docs:    docs,
		deals:   deals,
		res:     res,
		archive: archive,
		workers: workers,
		batch:   batch,
		log:     log.With().Str("component", "audit").Logger(),
	}
}

// forEachBatch streams summary batches in ascending id order until the
// corpus is exhausted, fn returns false, or an error aborts the run.
func (r *Runner) forEachBatch(ctx context.Context, fn func(batch []model.DocumentSummary) (bool, error)) error {
	afterID := int64(0)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := r.docs.ListSummariesAfter(ctx, afterID, r.batch)
		if err != nil {
			return fmt.Errorf("list documents after %d: %w", afterID, err)
		}
		if len(batch) == 0 {
			return nil
		}
		cont, err := fn(batch)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		afterID = batch[len(batch)-1].ID
	}
}

// classify buckets one record and, for unreachable or inconsistent content,
// describes what is wrong. The existence probe checks the recorded path
// only; full resolution belongs to the repair passes.
func classify(d model.DocumentSummary) (Classification, *Problem, *SizeMismatch) {
	if d.HasBlob {
		if d.BlobSize != d.FileSize {
			return ClassBlob, nil, &SizeMismatch{
				DocumentID:   d.ID,
				FileName:     d.FileName,
				Source:       "blob",
				RecordedSize: d.FileSize,
				ActualSize:   d.BlobSize,
			}
		}
		return ClassBlob, nil, nil
	}

	if d.FilePath == "" {
		return ClassMissing, &Problem{
			DocumentID:   d.ID,
			DealID:       d.DealID,
			FileName:     d.FileName,
			Kind:         ProblemNoPath,
			RecordedSize: d.FileSize,
		}, nil
	}

	info, err := os.Stat(d.FilePath)
	if err != nil || !info.Mode().IsRegular() {
		return ClassFilesystemBroken, &Problem{
			DocumentID:   d.ID,
			DealID:       d.DealID,
			FileName:     d.FileName,
			Kind:         ProblemBrokenFile,
			ExpectedPath: d.FilePath,
			RecordedSize: d.FileSize,
		}, nil
	}

	if info.Size() != d.FileSize {
		return ClassFilesystemOK, nil, &SizeMismatch{
			DocumentID:   d.ID,
			FileName:     d.FileName,
			Source:       "file",
			Path:         d.FilePath,
			RecordedSize: d.FileSize,
			ActualSize:   info.Size(),
		}
	}
	return ClassFilesystemOK, nil, nil
}

// Scan classifies every document and reports problems, size mismatches, and
// suspected deal mismatches. Read-only.
func (r *Runner) Scan(ctx context.Context) (*Report, error) {
	idx, err := r.buildDealIndex(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ScannedAt: time.Now().UTC(),
		Counts:    make(map[Classification]int),
	}
	var mu sync.Mutex

	err = r.forEachBatch(ctx, func(batch []model.DocumentSummary) (bool, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for _, d := range batch {
			d := d
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				class, prob, size := classify(d)
				mm := idx.suspect(d)
				if mm != nil {
					r.log.Warn().Err(&apperr.IntegrityWarning{
						DocumentID: d.ID,
						Kind:       apperr.WarnDealMismatch,
						Detail:     fmt.Sprintf("file name mentions deal %d (%s)", mm.SuspectDealID, mm.SuspectDealName),
					}).Int64("deal_id", d.DealID).Msg("suspect deal assignment")
				}

				mu.Lock()
				rep.Total++
				rep.Counts[class]++
				if prob != nil {
					rep.Problems = append(rep.Problems, *prob)
				}
				if size != nil {
					rep.SizeMismatches = append(rep.SizeMismatches, *size)
				}
				if mm != nil {
					rep.DealMismatches = append(rep.DealMismatches, *mm)
				}
				mu.Unlock()
				return nil
			})
		}
		return true, g.Wait()
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rep.Problems, func(i, j int) bool { return rep.Problems[i].DocumentID < rep.Problems[j].DocumentID })
	sort.Slice(rep.SizeMismatches, func(i, j int) bool { return rep.SizeMismatches[i].DocumentID < rep.SizeMismatches[j].DocumentID })
	sort.Slice(rep.DealMismatches, func(i, j int) bool { return rep.DealMismatches[i].DocumentID < rep.DealMismatches[j].DocumentID })

	recordRun("scan")
	r.log.Info().
		Int("total", rep.Total).
		Int("blob", rep.Counts[ClassBlob]).
		Int("filesystem_ok", rep.Counts[ClassFilesystemOK]).
		Int("filesystem_broken", rep.Counts[ClassFilesystemBroken]).
		Int("missing", rep.Counts[ClassMissing]).
		Int("deal_mismatches", len(rep.DealMismatches)).
		Msg("scan complete")
	return rep, nil
}

// Migrate promotes file-backed records to blob storage. Records that
// already hold blob data are skipped, which is what makes re-runs no-ops.
// Resolution must reach high or medium confidence; the legacy file is left
// in place and, when an archive sink is configured, copied to it.
func (r *Runner) Migrate(ctx context.Context, opts MigrateOptions) (*MigrateStats, error) {
	stats := &MigrateStats{DryRun: opts.DryRun}
	var mu sync.Mutex
	scheduled := 0

	err := r.forEachBatch(ctx, func(batch []model.DocumentSummary) (bool, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		stop := false
		for _, d := range batch {
			if d.HasBlob {
				stats.AlreadyBlob++
				continue
			}
			if opts.Limit > 0 && scheduled >= opts.Limit {
				stop = true
				break
			}
			scheduled++
			d := d
			g.Go(func() error {
				return r.migrateOne(gctx, d, opts.DryRun, stats, &mu)
			})
		}
		if err := g.Wait(); err != nil {
			return false, err
		}
		return !stop, nil
	})
	if err != nil {
		return nil, err
	}

	stats.Examined = scheduled
	recordRun("migrate")
	r.log.Info().
		Int("examined", stats.Examined).
		Int("promoted", stats.Promoted).
		Int("unresolved", stats.Unresolved).
		Int("low_confidence", stats.LowConfidence).
		Int("archived", stats.Archived).
		Bool("dry_run", stats.DryRun).
		Msg("migration pass complete")
	return stats, nil
}

func (r *Runner) migrateOne(ctx context.Context, d model.DocumentSummary, dryRun bool, stats *MigrateStats, mu *sync.Mutex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bump := func(n *int) {
		mu.Lock()
		*n++
		mu.Unlock()
	}

	res, err := r.res.Resolve(ctx, d.FilePath, d.FileName)
	if err != nil {
		return err
	}
	if !res.Found {
		bump(&stats.Unresolved)
		return nil
	}
	if res.Confidence == resolver.ConfidenceLow {
		r.log.Info().
			Int64("document_id", d.ID).
			Str("candidate", res.Path).
			Msg("low-confidence candidate left for review")
		bump(&stats.LowConfidence)
		return nil
	}
	if dryRun {
		bump(&stats.Promoted)
		return nil
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		r.log.Warn().Err(err).Int64("document_id", d.ID).Str("path", res.Path).Msg("read resolved file")
		bump(&stats.Failed)
		return nil
	}
	// An empty blob would leave the record file-backed and re-eligible on the
	// next run.
	if len(data) == 0 {
		r.log.Warn().Int64("document_id", d.ID).Str("path", res.Path).Msg("resolved file is empty, not promoted")
		bump(&stats.Failed)
		return nil
	}

	if err := r.docs.UpdateBlob(ctx, d.ID, data, int64(len(data))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted mid-run.
			bump(&stats.Failed)
			return nil
		}
		return fmt.Errorf("promote document %d: %w", d.ID, err)
	}
	bump(&stats.Promoted)
	recordPromotion()
	r.log.Info().
		Int64("document_id", d.ID).
		Str("path", res.Path).
		Str("strategy", string(res.Strategy)).
		Int("bytes", len(data)).
		Msg("promoted to blob storage")

	if r.archive != nil && r.archiveLegacy(ctx, d, data) {
		bump(&stats.Archived)
	}
	return nil
}

// archiveLegacy copies a promoted record's legacy file into the archive
// bucket. Skipped when an object of the same size is already there. Archive
// failures never undo a promotion; they only log.
func (r *Runner) archiveLegacy(ctx context.Context, d model.DocumentSummary, data []byte) bool {
	key := storage.ArchiveKey(d.DealID, d.ID, d.FileName)

	info, err := r.archive.Stat(ctx, key)
	if err == nil && info.Size == int64(len(data)) {
		return false
	}
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		r.log.Warn().Err(err).Str("key", key).Msg("archive stat")
		return false
	}

	_, err = r.archive.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: d.FileType,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("archive copy")
		return false
	}
	r.log.Info().Str("key", key).Int("bytes", len(data)).Msg("legacy file archived")
	return true
}

// RepairPaths rewrites file_path on broken file-backed records when the
// resolver finds the content with high or medium confidence. Low-confidence
// hits are reported in Changes but never applied.
func (r *Runner) RepairPaths(ctx context.Context, opts RepairOptions) (*RepairStats, error) {
	stats := &RepairStats{DryRun: opts.DryRun}
	var mu sync.Mutex
	attempted := 0

	err := r.forEachBatch(ctx, func(batch []model.DocumentSummary) (bool, error) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		stop := false
		for _, d := range batch {
			if d.HasBlob || d.FilePath == "" {
				continue
			}
			stats.Examined++
			if isRegularFile(d.FilePath) {
				stats.Healthy++
				continue
			}
			if opts.Limit > 0 && attempted >= opts.Limit {
				stats.Examined--
				stop = true
				break
			}
			attempted++
			d := d
			g.Go(func() error {
				return r.repairOne(gctx, d, opts.DryRun, stats, &mu)
			})
		}
		if err := g.Wait(); err != nil {
			return false, err
		}
		return !stop, nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(stats.Changes, func(i, j int) bool { return stats.Changes[i].DocumentID < stats.Changes[j].DocumentID })
	recordRun("repair_paths")
	r.log.Info().
		Int("examined", stats.Examined).
		Int("healthy", stats.Healthy).
		Int("repaired", stats.Repaired).
		Int("low_confidence", stats.LowConfidence).
		Int("unresolved", stats.Unresolved).
		Bool("dry_run", stats.DryRun).
		Msg("path repair pass complete")
	return stats, nil
}

func (r *Runner) repairOne(ctx context.Context, d model.DocumentSummary, dryRun bool, stats *RepairStats, mu *sync.Mutex) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := r.res.Resolve(ctx, d.FilePath, d.FileName)
	if err != nil {
		return err
	}
	if !res.Found {
		mu.Lock()
		stats.Unresolved++
		mu.Unlock()
		return nil
	}

	change := PathChange{
		DocumentID: d.ID,
		FileName:   d.FileName,
		OldPath:    d.FilePath,
		NewPath:    res.Path,
		Strategy:   res.Strategy,
		Confidence: res.Confidence,
	}

	if res.Confidence == resolver.ConfidenceLow {
		mu.Lock()
		stats.LowConfidence++
		stats.Changes = append(stats.Changes, change)
		mu.Unlock()
		return nil
	}
	if dryRun {
		mu.Lock()
		stats.Repaired++
		stats.Changes = append(stats.Changes, change)
		mu.Unlock()
		return nil
	}

	if err := r.docs.UpdateFilePath(ctx, d.ID, res.Path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			mu.Lock()
			stats.Failed++
			mu.Unlock()
			return nil
		}
		return fmt.Errorf("repair document %d: %w", d.ID, err)
	}
	change.Applied = true
	mu.Lock()
	stats.Repaired++
	stats.Changes = append(stats.Changes, change)
	mu.Unlock()
	recordPathRepair()
	r.log.Info().
		Int64("document_id", d.ID).
		Str("old_path", d.FilePath).
		Str("new_path", res.Path).
		Str("strategy", string(res.Strategy)).
		Msg("file path repaired")
	return nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
