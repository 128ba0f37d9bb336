package utils

import (
	"context"
	"fmt"
)

// PageSize is the largest page the Spotify API returns for playlist listings
const PageSize = 50

// PageFunc fetches one page of at most limit items starting at offset
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Paginate calls fetch with increasing offsets and collects every item in
// the order the provider returns them. It stops at the first page holding
// fewer than limit items, so a listing whose size is an exact multiple of
// limit costs one extra empty request. A provider that always returns full
// pages is never exhausted.
func Paginate[T any](ctx context.Context, limit int, fetch PageFunc[T]) ([]T, error) {
	if limit <= 0 {
		limit = PageSize
	}

	var all []T
	offset := 0

	for {
		page, err := fetch(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("error fetching page at offset %d: %w", offset, err)
		}

		all = append(all, page...)

		if len(page) < limit {
			break
		}
		offset += limit
	}

	return all, nil
}
