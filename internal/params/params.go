// Package params parses the query strings of dashboard list endpoints.
package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// /dashboard/products?q=tea&page=2&limit=30
// → ParsePagination() → Pagination{Limit:30, Page:2, Offset:30}
// → list filtered by q, then Slice(list, &p) fills Total, TotalPages, HasNext.
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

const (
	DefaultLimit = 15
	MaxLimit     = 100
	maxSearchLen = 100
)

// ParsePagination parses ?limit=...&page=... and falls back to defaults on
// anything it cannot read.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{Limit: DefaultLimit, Page: 1}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = DefaultLimit
			case limit > MaxLimit:
				p.Limit = MaxLimit
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}
	// page*limit must stay representable
	if last := math.MaxInt / p.Limit; p.Page > last {
		p.Page = last
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after the total is known.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	p.TotalPages = 0
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// ParseSearch returns the trimmed search term under key, cut to a sane length.
func ParseSearch(q url.Values, key string) string {
	s := strings.TrimSpace(q.Get(key))
	if r := []rune(s); len(r) > maxSearchLen {
		s = string(r[:maxSearchLen])
	}
	return s
}

// Slice returns the page of list described by p and records the metadata.
func Slice[T any](list []T, p *Pagination) []T {
	p.ComputeMeta(len(list))
	if p.Offset < 0 || p.Offset >= len(list) {
		return []T{}
	}
	end := min(p.Offset+p.Limit, len(list))
	return list[p.Offset:end]
}
