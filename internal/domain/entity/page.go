package entity

import "math"

// Page is a bounded slice of an ordered collection plus pagination metadata.
// Page numbers are 1-indexed.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

// NewPage builds a page; a nil items slice becomes empty so callers can range safely.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: page, PageSize: pageSize, Total: total}
}

// Pages is the number of pages needed to hold Total items.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.Pages() }

func (p Page[T]) PrevNum() int {
	if !p.HasPrev() {
		return 0
	}
	return p.Page - 1
}

func (p Page[T]) NextNum() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// Offset returns the number of items preceding this page. It saturates at
// math.MaxInt so a huge page number stays past the end instead of wrapping.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
