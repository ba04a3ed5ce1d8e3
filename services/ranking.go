package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/repository"
)

// QuestionQuery selects one page of questions. Order wins over Previous; when
// neither is valid the list is ranked by popularity.
type QuestionQuery struct {
	Order    repository.Order
	Previous repository.Order
	Tag      string
	Text     string
	Page     int
	PageSize int
}

// QuestionPage carries the order actually applied so callers can remember it.
type QuestionPage struct {
	Items      []models.Question `json:"items"`
	Order      repository.Order  `json:"order"`
	Pagination Pagination        `json:"pagination"`
}

type AnswerPage struct {
	Items      []models.Answer `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// RankingOptions tunes page sizes and the trending cache.
type RankingOptions struct {
	PageSize      int
	MaxPageSize   int
	TrendingLimit int
	TrendingTTL   time.Duration
}

// Ranking reads questions and answers back as ordered, paginated lists.
type Ranking struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	cache     Cache
	paging    Paging
	trending  int
	ttl       time.Duration
}

func NewRanking(q repository.QuestionRepository, a repository.AnswerRepository, cache Cache, opts RankingOptions) *Ranking {
	trending := opts.TrendingLimit
	if trending <= 0 || trending > MaxTrendingLimit {
		trending = DefaultTrendingLimit
	}
	ttl := opts.TrendingTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Ranking{
		questions: q,
		answers:   a,
		cache:     cache,
		paging:    Paging{DefaultSize: opts.PageSize, MaxSize: opts.MaxPageSize},
		trending:  trending,
		ttl:       ttl,
	}
}

// ResolveOrder picks the order a list request runs with.
func ResolveOrder(explicit, previous repository.Order) repository.Order {
	switch {
	case explicit.Valid():
		return explicit
	case previous.Valid():
		return previous
	default:
		return repository.ByPopularity
	}
}

func (r *Ranking) ListQuestions(ctx context.Context, q QuestionQuery) (*QuestionPage, error) {
	order := ResolveOrder(q.Order, q.Previous)
	page, size := r.paging.normalize(q.Page, q.PageSize)

	filter := repository.QuestionFilter{TagContains: q.Tag, TitleContains: q.Text}
	items, total, err := r.questions.ListRanked(ctx, filter, order, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Question{}
	}
	return &QuestionPage{Items: items, Order: order, Pagination: newPagination(page, size, total)}, nil
}

// ParseSearch splits a search string into a tag filter ("tag:<name>") or a
// title filter. Whitespace around the whole string and after "tag:" is
// dropped, so "tag: go" filters on "go" rather than " go".
func ParseSearch(search string) (tag, text string) {
	search = strings.TrimSpace(search)
	if strings.HasPrefix(search, "tag:") {
		return strings.TrimSpace(search[len("tag:"):]), ""
	}
	return "", search
}

// Search ranks matching questions by popularity. An empty search, or a bare
// "tag:", returns an empty page instead of listing every question.
func (r *Ranking) Search(ctx context.Context, search string, page, pageSize int) (*QuestionPage, error) {
	tag, text := ParseSearch(search)
	if tag == "" && text == "" {
		page, size := r.paging.normalize(page, pageSize)
		return &QuestionPage{
			Items:      []models.Question{},
			Order:      repository.ByPopularity,
			Pagination: newPagination(page, size, 0),
		}, nil
	}
	return r.ListQuestions(ctx, QuestionQuery{
		Order:    repository.ByPopularity,
		Tag:      tag,
		Text:     text,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListAnswers ranks a question's answers by votes, newest first on ties.
func (r *Ranking) ListAnswers(ctx context.Context, questionID uint, page, pageSize int) (*AnswerPage, error) {
	if err := r.questions.CheckExists(ctx, questionID); err != nil {
		return nil, err
	}
	page, size := r.paging.normalize(page, pageSize)
	items, total, err := r.answers.ListRanked(ctx, questionID, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Answer{}
	}
	return &AnswerPage{Items: items, Pagination: newPagination(page, size, total)}, nil
}

// Trending returns up to limit voted questions, most votes first. limit <= 0
// uses the configured default; it never exceeds MaxTrendingLimit.
func (r *Ranking) Trending(ctx context.Context, limit int) ([]repository.TrendingEntry, error) {
	if limit <= 0 {
		limit = r.trending
	}
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}

	key := TrendingCachePrefix + strconv.Itoa(limit)
	if r.cache != nil {
		if b, ok := r.cache.GetBytes(ctx, key); ok {
			var cached []repository.TrendingEntry
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	out, err := r.questions.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []repository.TrendingEntry{}
	}
	if r.cache != nil {
		r.cache.SetJSON(ctx, key, out, r.ttl)
	}
	return out, nil
}
