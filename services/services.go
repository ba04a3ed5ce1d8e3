// Package services holds Hasker's domain rules: the vote ledger, the ranking
// engine and the correct-answer enforcer, plus the account and authoring
// flows built on the same repositories.
package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/cppla/hasker/errs"
)

const (
	DefaultPageSize      = 20
	MaxPageSize          = 100
	DefaultTrendingLimit = 20
	MaxTrendingLimit     = 100

	// TrendingCachePrefix namespaces cached trending lists; vote toggles drop them all.
	TrendingCachePrefix = "cache:trending:"
)

// Actor identifies who performs an operation. ID 0 is anonymous.
type Actor struct {
	ID       uint
	Username string
	Admin    bool
}

func (a Actor) require() error {
	if a.ID == 0 {
		return errors.Wrap(errs.ErrUnauthorized, "login required")
	}
	return nil
}

// Cache is the byte cache used for trending lists. A nil Cache disables caching.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration)
	InvalidateByPrefix(ctx context.Context, prefix string)
}

// Pagination describes one page of a ranked list.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// Paging clamps requested page numbers and sizes.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

func (p Paging) normalize(page, size int) (int, int) {
	def, max := p.DefaultSize, p.MaxSize
	if max <= 0 {
		max = MaxPageSize
	}
	if def <= 0 || def > max {
		def = DefaultPageSize
		if def > max {
			def = max
		}
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = def
	}
	if size > max {
		size = max
	}
	return page, size
}

func newPagination(page, size int, total int64) Pagination {
	pages := int((total + int64(size) - 1) / int64(size))
	return Pagination{
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

func invalidateTrending(ctx context.Context, cache Cache) {
	if cache != nil {
		cache.InvalidateByPrefix(ctx, TrendingCachePrefix)
	}
}
