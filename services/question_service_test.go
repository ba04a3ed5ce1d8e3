package services

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/testutil"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"trimmed", " go , sql ", []string{"go", "sql"}, false},
		{"empties dropped", "go,,  ,sql", []string{"go", "sql"}, false},
		{"duplicates collapse", "go,sql,go,db", []string{"go", "sql", "db"}, false},
		{"too many", "a,b,c,d", nil, true},
		{"too long", strings.Repeat("x", MaxTagLength+1), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTags(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestQuestionService_Create(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	svc := NewQuestionService(store.Questions(), nil)
	u := testutil.CreateTestUser(t, db)

	q, err := svc.Create(ctx, actorOf(u), CreateQuestionInput{
		Title: "  How do channels work?  ",
		Body:  "<p>Explain please</p><script>alert(1)</script>",
		Tags:  "go, concurrency, go",
	})
	require.NoError(t, err)
	assert.Equal(t, "How do channels work?", q.Title)
	assert.NotContains(t, q.Body, "<script>")
	assert.Equal(t, u.ID, q.User.ID)
	require.Len(t, q.Tags, 2)

	invalid := []CreateQuestionInput{
		{Title: "", Body: "b"},
		{Title: strings.Repeat("t", MaxTitleLength+1), Body: "b"},
		{Title: "t", Body: "   "},
		{Title: "t", Body: "b", Tags: "a,b,c,d"},
	}
	for _, in := range invalid {
		_, err := svc.Create(ctx, actorOf(u), in)
		assert.ErrorIs(t, err, errs.ErrValidation, "%+v", in)
	}

	_, err = svc.Create(ctx, Actor{}, CreateQuestionInput{Title: "t", Body: "b"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	title := strings.Repeat("é", MaxTitleLength)
	_, err = svc.Create(ctx, actorOf(u), CreateQuestionInput{Title: title, Body: "b"})
	assert.NoError(t, err, "length counts characters, not bytes")
}

func TestQuestionService_Delete(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	svc := NewQuestionService(store.Questions(), nil)

	author := testutil.CreateTestUser(t, db)
	stranger := testutil.CreateTestUser(t, db)
	q := testutil.CreateTestQuestion(t, db, author.ID, "q", time.Now())
	other := testutil.CreateTestQuestion(t, db, author.ID, "other", time.Now())

	assert.ErrorIs(t, svc.Delete(ctx, actorOf(stranger), q.ID), errs.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, actorOf(author), q.ID))
	_, err := svc.Get(ctx, q.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	admin := Actor{ID: stranger.ID, Username: stranger.Username, Admin: true}
	require.NoError(t, svc.Delete(ctx, admin, other.ID))

	var n int64
	require.NoError(t, db.Model(&models.Question{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAnswerService_Create(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	svc := NewAnswerService(store.Questions(), store.Answers())

	u := testutil.CreateTestUser(t, db)
	q := testutil.CreateTestQuestion(t, db, u.ID, "q", time.Now())

	a, err := svc.Create(ctx, actorOf(u), q.ID, "  use a buffered channel ")
	require.NoError(t, err)
	assert.Equal(t, "use a buffered channel", a.Body)
	assert.False(t, a.Correct)
	assert.Equal(t, u.Username, a.User.Username)

	_, err = svc.Create(ctx, actorOf(u), q.ID, strings.Repeat("x", MaxAnswerLength+1))
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.Create(ctx, actorOf(u), q.ID, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.Create(ctx, actorOf(u), 999, "body")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestQuestionService_CreateStoresPlainTitle(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	svc := NewQuestionService(store.Questions(), nil)
	ranking := NewRanking(store.Questions(), store.Answers(), nil, RankingOptions{})
	u := testutil.CreateTestUser(t, db)

	title := "What's Q&A? " + strings.Repeat("x", 38)
	require.Equal(t, MaxTitleLength, utf8.RuneCountInString(title))

	q, err := svc.Create(ctx, actorOf(u), CreateQuestionInput{Title: title, Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, title, q.Title)

	for _, needle := range []string{"What's", "Q&A"} {
		page, err := ranking.Search(ctx, needle, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{q.ID}, ids(page.Items), "search %q", needle)
	}

	q, err = svc.Create(ctx, actorOf(u), CreateQuestionInput{Title: "<b>bold</b> move", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, "bold move", q.Title)

	_, err = svc.Create(ctx, actorOf(u), CreateQuestionInput{Title: "<script></script>", Body: "b"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
