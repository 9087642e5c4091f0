package audit

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"dealdocs/internal/model"
)

// Words too generic to tie a filename to one deal. Covers both the corporate
// boilerplate in deal names and the document vocabulary in filenames.
var mismatchStopwords = map[string]bool{
	"fund": true, "funds": true, "capital": true, "partners": true,
	"holdings": true, "group": true, "global": true, "ventures": true,
	"equity": true, "corp": true, "company": true, "limited": true,
	"series": true, "round": true, "acquisition": true, "management": true,
	"international": true, "financial": true, "investment": true,
	"investments": true, "term": true, "terms": true, "sheet": true,
	"agreement": true, "report": true, "letter": true, "memo": true,
	"final": true, "draft": true, "signed": true, "copy": true, "scan": true,
	"version": true, "update": true, "summary": true, "docx": true,
	"xlsx": true, "pptx": true,
}

// nameTokens splits a deal name or filename into lowercased alphanumeric
// runs longer than three characters, minus stopwords.
func nameTokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 3 || mismatchStopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// dealKeywordIndex maps keywords that occur in exactly one deal's name to
// that deal. Tokens shared by two or more deals identify nothing and are
// dropped.
type dealKeywordIndex struct {
	owners map[string]int64
	names  map[int64]string
}

func (r *Runner) buildDealIndex(ctx context.Context) (*dealKeywordIndex, error) {
	deals, err := r.deals.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}

	idx := &dealKeywordIndex{
		owners: make(map[string]int64),
		names:  make(map[int64]string, len(deals)),
	}
	ambiguous := make(map[string]bool)
	for _, dl := range deals {
		idx.names[dl.ID] = dl.Name
		for _, tok := range nameTokens(dl.Name) {
			if owner, seen := idx.owners[tok]; seen && owner != dl.ID {
				ambiguous[tok] = true
				continue
			}
			idx.owners[tok] = dl.ID
		}
	}
	for tok := range ambiguous {
		delete(idx.owners, tok)
	}
	return idx, nil
}

// suspect reports the first filename keyword that belongs to a different
// deal than the record's owner, or nil when the filename raises no flag.
func (idx *dealKeywordIndex) suspect(d model.DocumentSummary) *DealMismatch {
	for _, tok := range nameTokens(d.FileName) {
		owner, ok := idx.owners[tok]
		if !ok || owner == d.DealID {
			continue
		}
		return &DealMismatch{
			DocumentID:      d.ID,
			DealID:          d.DealID,
			FileName:        d.FileName,
			Keyword:         tok,
			SuspectDealID:   owner,
			SuspectDealName: idx.names[owner],
		}
	}
	return nil
}
