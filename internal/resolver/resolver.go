// Package resolver locates document files whose recorded paths have gone
// stale. It runs a fixed chain of strategies against an ordered list of
// search roots and reports each match with a confidence tier so callers can
// decide whether to trust it automatically or flag it for review.
package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Strategy identifies which step of the resolution chain produced a match.
type Strategy string

const (
	StrategyDirect     Strategy = "direct"
	StrategyIdentifier Strategy = "identifier"
	StrategySimilarity Strategy = "similarity"
	StrategyKeyword    Strategy = "keyword"
)

// Confidence is the trust tier of a match. Repair tooling auto-applies high
// and medium matches; low matches are evidence for a human, never applied.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the outcome of one resolution attempt. When Found is false the
// other fields are zero.
type Result struct {
	Found      bool       `json:"found"`
	Path       string     `json:"path,omitempty"`
	Strategy   Strategy   `json:"strategy,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithListingCache caches each root's directory listing for the life of this
// Resolver. Intended for audit runs that resolve many documents against the
// same roots; the cache must not outlive a run, so build a fresh Resolver
// per run.
func WithListingCache() Option {
	return func(r *Resolver) { r.cacheOn = true }
}

// Resolver resolves recorded paths against its search roots. Safe for
// concurrent use.
type Resolver struct {
	roots   []string
	cacheOn bool

	mu    sync.Mutex
	cache map[string][]string
}

// New builds a Resolver over the given search roots, in order. Empty root
// strings are dropped; missing or unreadable roots are skipped at scan time.
func New(roots []string, opts ...Option) *Resolver {
	r := &Resolver{}
	for _, root := range roots {
		if root != "" {
			r.roots = append(r.roots, root)
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cacheOn {
		r.cache = make(map[string][]string)
	}
	return r
}

// Resolve runs the strategy chain for one document: direct path probes, then
// identifier token match, then normalized-name similarity, then keyword
// overlap. The first hit wins. A miss is Result{Found: false} with a nil
// error; the error return is used only for context cancellation.
func (r *Resolver) Resolve(ctx context.Context, recordedPath, fileName string) (Result, error) {
	strategies := []func(context.Context, string, string) (Result, error){
		r.direct,
		r.identifier,
		r.similarity,
		r.keyword,
	}
	for _, try := range strategies {
		res, err := try(ctx, recordedPath, fileName)
		if err != nil {
			return Result{}, err
		}
		if res.Found {
			recordResolution(res.Strategy, res.Confidence)
			return res, nil
		}
	}
	recordMiss()
	return Result{}, nil
}

// direct probes the recorded path as-is, then re-rooted under each search
// root, then its basename under each root. A hit must be a regular file.
func (r *Resolver) direct(ctx context.Context, recordedPath, _ string) (Result, error) {
	if recordedPath == "" {
		return Result{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if isRegularFile(recordedPath) {
		return matchResult(StrategyDirect, recordedPath), nil
	}
	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if p := filepath.Join(root, recordedPath); isRegularFile(p) {
			return matchResult(StrategyDirect, p), nil
		}
	}
	base := filepath.Base(recordedPath)
	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if p := filepath.Join(root, base); isRegularFile(p) {
			return matchResult(StrategyDirect, p), nil
		}
	}
	return Result{}, nil
}

// identifier extracts a UUID-shaped token from the file name (falling back to
// the recorded path's basename) and matches any listing entry containing it.
func (r *Resolver) identifier(ctx context.Context, recordedPath, fileName string) (Result, error) {
	token := uuidToken(fileName)
	if token == "" {
		token = uuidToken(filepath.Base(recordedPath))
	}
	if token == "" {
		return Result{}, nil
	}
	token = strings.ToLower(token)
	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for _, name := range r.listRoot(root) {
			if strings.Contains(strings.ToLower(name), token) {
				return matchResult(StrategyIdentifier, filepath.Join(root, name)), nil
			}
		}
	}
	return Result{}, nil
}

// similarity accepts the first candidate whose normalized name scores above
// the edit-distance ratio threshold against the target name.
func (r *Resolver) similarity(ctx context.Context, recordedPath, fileName string) (Result, error) {
	target := fileName
	if target == "" {
		target = filepath.Base(recordedPath)
	}
	norm := normalizeName(target)
	if norm == "" {
		return Result{}, nil
	}
	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for _, name := range r.listRoot(root) {
			if similarityRatio(norm, normalizeName(name)) > similarityThreshold {
				return matchResult(StrategySimilarity, filepath.Join(root, name)), nil
			}
		}
	}
	return Result{}, nil
}

// keyword accepts the first candidate whose keyword Jaccard overlap with the
// target name exceeds the threshold. Weakest signal in the chain.
func (r *Resolver) keyword(ctx context.Context, recordedPath, fileName string) (Result, error) {
	target := fileName
	if target == "" {
		target = filepath.Base(recordedPath)
	}
	keys := keywordSet(target)
	if len(keys) == 0 {
		return Result{}, nil
	}
	for _, root := range r.roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		for _, name := range r.listRoot(root) {
			if jaccard(keys, keywordSet(name)) > keywordThreshold {
				return matchResult(StrategyKeyword, filepath.Join(root, name)), nil
			}
		}
	}
	return Result{}, nil
}

// listRoot returns the root's file names in lexical order, which makes tie
// resolution deterministic across hosts. A root that cannot be read yields
// an empty listing, never an error.
func (r *Resolver) listRoot(root string) []string {
	if r.cacheOn {
		r.mu.Lock()
		names, ok := r.cache[root]
		r.mu.Unlock()
		if ok {
			return names
		}
	}

	var names []string
	if entries, err := os.ReadDir(root); err == nil {
		names = make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
	}

	if r.cacheOn {
		r.mu.Lock()
		r.cache[root] = names
		r.mu.Unlock()
	}
	return names
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func matchResult(s Strategy, path string) Result {
	return Result{Found: true, Path: path, Strategy: s, Confidence: confidenceOf(s)}
}

func confidenceOf(s Strategy) Confidence {
	switch s {
	case StrategyDirect, StrategyIdentifier:
		return ConfidenceHigh
	case StrategySimilarity:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
