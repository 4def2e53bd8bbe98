package catalog_test

import (
	"testing"

	catalog "github.com/goliatone/go-catalog"
	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults when absent", "", "", 1, 10},
		{"explicit values", "3", "25", 3, 25},
		{"non numeric falls back", "abc", "xyz", 1, 10},
		{"zero falls back", "0", "0", 1, 10},
		{"negative falls back", "-2", "-5", 1, 10},
		{"mixed", "2", "bogus", 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := catalog.ParsePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantLimit, req.Limit)
		})
	}
}

func TestParsePageStrict(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		limit   string
		wantErr bool
	}{
		{"defaults when absent", "", "", false},
		{"explicit values", "2", "5", false},
		{"non numeric page", "abc", "5", true},
		{"non numeric limit", "2", "xyz", true},
		{"zero page", "0", "5", true},
		{"negative limit", "2", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := catalog.ParsePageStrict(tt.page, tt.limit)

			if tt.wantErr {
				assert.ErrorIs(t, err, catalog.ErrInvalidPagination)
				return
			}

			assert.NoError(t, err)
			assert.Positive(t, req.Page)
			assert.Positive(t, req.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, catalog.PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, catalog.PageRequest{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 28, catalog.PageRequest{Page: 5, Limit: 7}.Offset())
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int
		req        catalog.PageRequest
		wantPages  int
	}{
		{"empty store", 0, catalog.PageRequest{Page: 1, Limit: 10}, 0},
		{"exact fit", 20, catalog.PageRequest{Page: 1, Limit: 10}, 2},
		{"partial last page", 21, catalog.PageRequest{Page: 1, Limit: 10}, 3},
		{"single item", 1, catalog.PageRequest{Page: 1, Limit: 10}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := catalog.NewPageMeta(tt.totalItems, tt.req)
			assert.Equal(t, tt.totalItems, meta.TotalItems)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.req.Page, meta.CurrentPage)
		})
	}
}
