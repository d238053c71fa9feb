package utils

import (
	"fmt"
	"strings"
)

// PaginationInfo describes one page of a newest-first listing.
type PaginationInfo struct {
	Total      int
	PerPage    int
	Current    int
	Offset     int
	TotalPages int
}

// NewPagination clamps current into [1, TotalPages]. A non-positive
// perPage yields a single empty page.
func NewPagination(total, perPage, current int) *PaginationInfo {
	if perPage <= 0 {
		return &PaginationInfo{Total: total, Current: 1, TotalPages: 1}
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	current = max(1, min(current, totalPages))

	return &PaginationInfo{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: totalPages,
	}
}

// Bounds returns the half-open slice bounds of the current page.
func (p *PaginationInfo) Bounds() (start, end int) {
	start = min(p.Offset, p.Total)
	end = min(p.Offset+p.PerPage, p.Total)
	return start, end
}

// HasNext returns true if there's a next page
func (p *PaginationInfo) HasNext() bool {
	return p.Current < p.TotalPages
}

// HasPrev returns true if there's a previous page
func (p *PaginationInfo) HasPrev() bool {
	return p.Current > 1
}

// FormatSummary returns a human-readable summary
func (p *PaginationInfo) FormatSummary() string {
	start, end := p.Bounds()
	if start == end {
		return "No entries"
	}
	if p.TotalPages == 1 {
		return fmt.Sprintf("Showing %d-%d of %d entr%s", start+1, end, p.Total, plural(p.Total))
	}
	return fmt.Sprintf("Showing %d-%d of %d entr%s (page %d of %d)",
		start+1, end, p.Total, plural(p.Total), p.Current, p.TotalPages)
}

// FormatNavigation returns navigation hints for CLI
func (p *PaginationInfo) FormatNavigation() string {
	var hints []string
	if p.HasPrev() {
		hints = append(hints, fmt.Sprintf("use --page %d for newer", p.Current-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("use --page %d for older", p.Current+1))
	}
	return strings.Join(hints, ", ")
}

func plural(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
