package catalog

import (
	"strconv"
)

const (
	// DefaultPage is the 1-based page used when no page param arrives.
	DefaultPage = 1
	// DefaultLimit is the page size used when no limit param arrives.
	DefaultLimit = 10
)

// PageRequest is the parsed page/limit pair of a listing call. Page is
// 1-based; both values are positive after parsing.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the element window start: (page-1)*limit.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta is the total-count derived metadata every list endpoint returns.
type PageMeta struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

// NewPageMeta computes totalPages = ceil(totalItems/limit). An empty result
// set yields totalPages 0, not an error.
func NewPageMeta(totalItems int, req PageRequest) PageMeta {
	totalPages := 0
	if totalItems > 0 && req.Limit > 0 {
		totalPages = (totalItems + req.Limit - 1) / req.Limit
	}
	return PageMeta{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
	}
}

// ParsePage is the lenient parser used by the author listing: absent or
// non-numeric params silently fall back to the defaults, as do non-positive
// values.
func ParsePage(page, limit string) PageRequest {
	req := PageRequest{Page: DefaultPage, Limit: DefaultLimit}

	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		req.Limit = n
	}

	return req
}

// ParsePageStrict is the book-listing variant: params that are present must
// be positive integers, otherwise the request is rejected instead of
// clamped.
func ParsePageStrict(page, limit string) (PageRequest, error) {
	req := PageRequest{Page: DefaultPage, Limit: DefaultLimit}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n <= 0 {
			return PageRequest{}, ErrInvalidPagination
		}
		req.Page = n
	}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return PageRequest{}, ErrInvalidPagination
		}
		req.Limit = n
	}

	return req, nil
}
