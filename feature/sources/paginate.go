package sources

import (
	"context"

	"boardgame-sync/core/reconcile"
)

// PageFunc fetches one page, numbered from 1.
type PageFunc func(ctx context.Context, page int) ([]reconcile.RawRecord, error)

// Paginate requests pages in order until one holds fewer than pageSize
// records. A failing first page returns its error; a later failure returns the
// records gathered so far with a *reconcile.PartialError. maxPages of zero
// means no limit.
func Paginate(ctx context.Context, provider reconcile.Provider, pageSize, maxPages int, fetch PageFunc) ([]reconcile.RawRecord, error) {
	var records []reconcile.RawRecord
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		batch, err := fetch(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			return records, &reconcile.PartialError{
				Provider: provider,
				Pages:    page - 1,
				Records:  len(records),
				Err:      err,
			}
		}
		records = append(records, batch...)
		if pageSize <= 0 || len(batch) < pageSize {
			break
		}
	}
	return records, nil
}
