package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source serves a fixed slice page by page and records each call
type source struct {
	items   []int
	offsets []int
}

func (s *source) fetch(_ context.Context, limit, offset int) ([]int, error) {
	s.offsets = append(s.offsets, offset)
	if offset >= len(s.items) {
		return nil, nil
	}
	end := min(offset+limit, len(s.items))
	return s.items[offset:end], nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantCalls int
	}{
		{name: "empty", total: 0, limit: 50, wantCalls: 1},
		{name: "single short page", total: 10, limit: 50, wantCalls: 1},
		{name: "exact multiple reads one empty page", total: 100, limit: 50, wantCalls: 3},
		{name: "partial last page", total: 120, limit: 50, wantCalls: 3},
		{name: "page size one", total: 3, limit: 1, wantCalls: 4},
		{name: "odd page size", total: 10, limit: 3, wantCalls: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &source{items: seq(tt.total)}

			got, err := Paginate(context.Background(), tt.limit, src.fetch)
			require.NoError(t, err)

			if tt.total == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, src.items, got)
			}
			assert.Len(t, src.offsets, tt.wantCalls)
			for i, off := range src.offsets {
				assert.Equal(t, i*tt.limit, off)
			}
		})
	}
}

func TestPaginateDefaultsLimit(t *testing.T) {
	var limits []int
	_, err := Paginate(context.Background(), 0, func(_ context.Context, limit, _ int) ([]string, error) {
		limits = append(limits, limit)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{PageSize}, limits)
}

func TestPaginateStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	_, err := Paginate(context.Background(), 2, func(_ context.Context, limit, offset int) ([]int, error) {
		calls++
		if offset > 0 {
			return nil, boom
		}
		return []int{1, 2}, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
