// Package repository is the persistence boundary of Hasker. Services depend on
// the interfaces declared here; the gorm-backed implementations below are wired
// in by routes.SetupRouter.
package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
)

// Order selects how question lists are ranked.
type Order string

const (
	ByPopularity Order = "popular"
	ByRecency    Order = "recent"
)

// ParseOrder returns the order named by s and whether s named one.
func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case ByPopularity:
		return ByPopularity, true
	case ByRecency:
		return ByRecency, true
	default:
		return "", false
	}
}

// Valid reports whether o is one of the known orders.
func (o Order) Valid() bool {
	return o == ByPopularity || o == ByRecency
}

// QuestionFilter narrows a question list. Both matches are case-sensitive substrings.
type QuestionFilter struct {
	TagContains   string
	TitleContains string
}

// TrendingEntry is one row of the trending leaderboard.
type TrendingEntry struct {
	QuestionID uint   `json:"question_id"`
	Title      string `json:"title"`
	VoteCount  int64  `json:"vote_count"`
}

// Stats are site-wide row counts.
type Stats struct {
	Users     int64 `json:"user_count"`
	Questions int64 `json:"question_count"`
	Answers   int64 `json:"answer_count"`
	Votes     int64 `json:"vote_count"`
}

type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question, tagNames []string) error
	FindByID(ctx context.Context, id uint) (*models.Question, error)
	CheckExists(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	ListRanked(ctx context.Context, f QuestionFilter, order Order, offset, limit int) ([]models.Question, int64, error)
	Trending(ctx context.Context, limit int) ([]TrendingEntry, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, a *models.Answer) error
	FindInQuestion(ctx context.Context, questionID, answerID uint) (*models.Answer, error)
	ListRanked(ctx context.Context, questionID uint, offset, limit int) ([]models.Answer, int64, error)
	MarkCorrect(ctx context.Context, questionID, answerID uint) error
}

// VoteRepository adds and removes votes. Add/Remove report whether a row changed.
type VoteRepository interface {
	AddQuestionVote(ctx context.Context, userID, questionID uint) (bool, error)
	RemoveQuestionVote(ctx context.Context, userID, questionID uint) (bool, error)
	CountQuestionVotes(ctx context.Context, questionID uint) (int64, error)
	AddAnswerVote(ctx context.Context, userID, answerID uint) (bool, error)
	RemoveAnswerVote(ctx context.Context, userID, answerID uint) (bool, error)
	CountAnswerVotes(ctx context.Context, answerID uint) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, email, avatarURL *string) (*models.User, error)
}

// Store bundles the gorm repositories over one connection.
type Store struct {
	db        *gorm.DB
	questions *QuestionRepo
	answers   *AnswerRepo
	votes     *VoteRepo
	users     *UserRepo
}

// New initializes a Store with each repository sharing db.
func New(db *gorm.DB) Store {
	return Store{
		db:        db,
		questions: NewQuestionRepo(db),
		answers:   NewAnswerRepo(db),
		votes:     NewVoteRepo(db),
		users:     NewUserRepo(db),
	}
}

func (s Store) Questions() *QuestionRepo { return s.questions }
func (s Store) Answers() *AnswerRepo     { return s.answers }
func (s Store) Votes() *VoteRepo         { return s.votes }
func (s Store) Users() *UserRepo         { return s.users }

// Stats counts users, questions, answers and votes of both kinds concurrently.
func (s Store) Stats(ctx context.Context) (Stats, error) {
	var (
		st     Stats
		qv, av int64
	)
	counts := []struct {
		model interface{}
		dest  *int64
		what  string
	}{
		{&models.User{}, &st.Users, "users"},
		{&models.Question{}, &st.Questions, "questions"},
		{&models.Answer{}, &st.Answers, "answers"},
		{&models.QuestionVote{}, &qv, "question votes"},
		{&models.AnswerVote{}, &av, "answer votes"},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		c := c
		g.Go(func() error {
			err := s.db.WithContext(gctx).Model(c.model).Count(c.dest).Error
			return errors.Wrapf(err, "count %s", c.what)
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	st.Votes = qv + av
	return st, nil
}

// publicAuthor limits a preloaded author to the columns shown next to posts.
func publicAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "avatar_url", "created_at")
}

// containsExpr returns a case-sensitive substring predicate on column for the
// current dialect, together with the bind argument it expects.
func containsExpr(db *gorm.DB, column, needle string) (string, interface{}) {
	switch db.Dialector.Name() {
	case "sqlite":
		return "instr(" + column + ", ?) > 0", needle
	case "postgres":
		return "strpos(" + column + ", ?) > 0", needle
	case "mysql":
		return "LOCATE(?, " + column + " COLLATE utf8mb4_bin) > 0", needle
	default:
		return column + " LIKE ?", "%" + escapeLike(needle) + "%"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect has row locks.
// SQLite serialises writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(format, args...)
	}
	return errors.Wrapf(err, format, args...)
}
