package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/testutil"
)

func TestParseOrder(t *testing.T) {
	o, ok := ParseOrder(" Recent ")
	assert.True(t, ok)
	assert.Equal(t, ByRecency, o)

	o, ok = ParseOrder("popular")
	assert.True(t, ok)
	assert.Equal(t, ByPopularity, o)

	_, ok = ParseOrder("oldest")
	assert.False(t, ok)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}

func TestVoteRepo_AddRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewVoteRepo(db)

	u := testutil.CreateTestUser(t, db)
	q := testutil.CreateTestQuestion(t, db, u.ID, "q", time.Now())

	added, err := repo.AddQuestionVote(ctx, u.ID, q.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddQuestionVote(ctx, u.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, added, "second vote by the same user is ignored")

	n, err := repo.CountQuestionVotes(ctx, q.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	removed, err := repo.RemoveQuestionVote(ctx, u.ID, q.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveQuestionVote(ctx, u.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	a := testutil.CreateTestAnswer(t, db, q.ID, u.ID, time.Now())
	added, err = repo.AddAnswerVote(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = repo.AddAnswerVote(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, added)
	n, err = repo.CountAnswerVotes(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestQuestionRepo_CreateReusesTags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db)
	u := testutil.CreateTestUser(t, db)

	q1 := &models.Question{UserID: u.ID, Title: "first", Body: "b"}
	require.NoError(t, repo.Create(ctx, q1, []string{"go", "sql"}))
	q2 := &models.Question{UserID: u.ID, Title: "second", Body: "b"}
	require.NoError(t, repo.Create(ctx, q2, []string{"go"}))

	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 2, tagCount)

	got, err := repo.FindByID(ctx, q2.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "go", got.Tags[0].Name)
	assert.Equal(t, u.Username, got.User.Username)
}

func TestQuestionRepo_FindByIDMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	_, err := NewQuestionRepo(db).FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestQuestionRepo_ListRankedOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db)
	u := testutil.CreateTestUser(t, db)
	voters := testutil.CreateVoters(t, db, 3)
	base := time.Now().Add(-time.Hour)

	old := testutil.CreateTestQuestion(t, db, u.ID, "old", base)
	mid := testutil.CreateTestQuestion(t, db, u.ID, "mid", base.Add(time.Minute))
	fresh := testutil.CreateTestQuestion(t, db, u.ID, "fresh", base.Add(2*time.Minute))
	testutil.VoteQuestion(t, db, old.ID, voters...)
	testutil.VoteQuestion(t, db, fresh.ID, voters[0])
	testutil.CreateTestAnswer(t, db, mid.ID, u.ID, base)

	items, total, err := repo.ListRanked(ctx, QuestionFilter{}, ByPopularity, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{old.ID, fresh.ID, mid.ID}, questionIDs(items))
	assert.EqualValues(t, 3, items[0].VoteCount)
	assert.EqualValues(t, 1, items[2].AnswerCount)

	items, _, err = repo.ListRanked(ctx, QuestionFilter{}, ByRecency, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{fresh.ID, mid.ID, old.ID}, questionIDs(items))

	items, total, err = repo.ListRanked(ctx, QuestionFilter{}, ByRecency, 2, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{old.ID}, questionIDs(items))
}

func TestRankedListsHideAuthorEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	u := testutil.CreateTestUser(t, db)
	q := testutil.CreateTestQuestion(t, db, u.ID, "q", time.Now())
	testutil.CreateTestAnswer(t, db, q.ID, u.ID, time.Now())

	questions, _, err := NewQuestionRepo(db).ListRanked(ctx, QuestionFilter{}, ByPopularity, 0, 10)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, u.Username, questions[0].User.Username)
	assert.Empty(t, questions[0].User.Email)

	answers, _, err := NewAnswerRepo(db).ListRanked(ctx, q.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Empty(t, answers[0].User.Email)

	raw, err := json.Marshal(questions[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "email")
	assert.NotContains(t, string(raw), u.Email)
}

func TestQuestionRepo_FiltersAreCaseSensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db)
	u := testutil.CreateTestUser(t, db)
	now := time.Now()

	py := testutil.CreateTestQuestion(t, db, u.ID, "How to install Django", now, "python")
	testutil.CreateTestQuestion(t, db, u.ID, "Goroutine leak", now.Add(time.Second), "go")

	items, _, err := repo.ListRanked(ctx, QuestionFilter{TagContains: "pyth"}, ByPopularity, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{py.ID}, questionIDs(items))

	items, _, err = repo.ListRanked(ctx, QuestionFilter{TagContains: "Python"}, ByPopularity, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, _, err = repo.ListRanked(ctx, QuestionFilter{TitleContains: "Django"}, ByPopularity, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{py.ID}, questionIDs(items))

	items, _, err = repo.ListRanked(ctx, QuestionFilter{TitleContains: "django"}, ByPopularity, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestQuestionRepo_Trending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db)
	u := testutil.CreateTestUser(t, db)
	voters := testutil.CreateVoters(t, db, 2)
	base := time.Now().Add(-time.Hour)

	a := testutil.CreateTestQuestion(t, db, u.ID, "a", base)
	b := testutil.CreateTestQuestion(t, db, u.ID, "b", base.Add(time.Minute))
	c := testutil.CreateTestQuestion(t, db, u.ID, "c", base.Add(2*time.Minute))
	testutil.CreateTestQuestion(t, db, u.ID, "unvoted", base.Add(3*time.Minute))
	testutil.VoteQuestion(t, db, a.ID, voters...)
	testutil.VoteQuestion(t, db, b.ID, voters[0])
	testutil.VoteQuestion(t, db, c.ID, voters[1])

	out, err := repo.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, a.ID, out[0].QuestionID)
	assert.EqualValues(t, 2, out[0].VoteCount)
	assert.Equal(t, c.ID, out[1].QuestionID, "newer question wins the tie")
	assert.Equal(t, b.ID, out[2].QuestionID)

	out, err = repo.Trending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestQuestionRepo_DeleteCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepo(db)
	u := testutil.CreateTestUser(t, db)

	q := testutil.CreateTestQuestion(t, db, u.ID, "doomed", time.Now(), "go")
	keep := testutil.CreateTestQuestion(t, db, u.ID, "kept", time.Now(), "go")
	a := testutil.CreateTestAnswer(t, db, q.ID, u.ID, time.Now())
	testutil.VoteQuestion(t, db, q.ID, u)
	testutil.VoteAnswer(t, db, a.ID, u)

	require.NoError(t, repo.Delete(ctx, q.ID))

	for _, m := range []interface{}{&models.Answer{}, &models.QuestionVote{}, &models.AnswerVote{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}
	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 1, tags)

	got, err := repo.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 1)

	assert.ErrorIs(t, repo.Delete(ctx, q.ID), errs.ErrNotFound)
}

func TestAnswerRepo_MarkCorrectMoves(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewAnswerRepo(db)
	u := testutil.CreateTestUser(t, db)
	now := time.Now()

	q := testutil.CreateTestQuestion(t, db, u.ID, "q", now)
	other := testutil.CreateTestQuestion(t, db, u.ID, "other", now)
	a1 := testutil.CreateTestAnswer(t, db, q.ID, u.ID, now)
	a2 := testutil.CreateTestAnswer(t, db, q.ID, u.ID, now)
	foreign := testutil.CreateTestAnswer(t, db, other.ID, u.ID, now)

	require.NoError(t, repo.MarkCorrect(ctx, other.ID, foreign.ID))
	require.NoError(t, repo.MarkCorrect(ctx, q.ID, a1.ID))
	require.NoError(t, repo.MarkCorrect(ctx, q.ID, a2.ID))
	require.NoError(t, repo.MarkCorrect(ctx, q.ID, a2.ID))

	var correct []uint
	require.NoError(t, db.Model(&models.Answer{}).Where("correct = ?", true).Order("id").Pluck("id", &correct).Error)
	assert.Equal(t, []uint{a2.ID, foreign.ID}, correct)

	assert.ErrorIs(t, repo.MarkCorrect(ctx, q.ID, foreign.ID), errs.ErrNotFound)
	assert.ErrorIs(t, repo.MarkCorrect(ctx, 999, a1.ID), errs.ErrNotFound)
}

func TestAnswerRepo_ListRanked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewAnswerRepo(db)
	u := testutil.CreateTestUser(t, db)
	voters := testutil.CreateVoters(t, db, 5)
	base := time.Now().Add(-time.Hour)

	q := testutil.CreateTestQuestion(t, db, u.ID, "q", base)
	older := testutil.CreateTestAnswer(t, db, q.ID, u.ID, base.Add(time.Minute))
	newer := testutil.CreateTestAnswer(t, db, q.ID, u.ID, base.Add(2*time.Minute))
	top := testutil.CreateTestAnswer(t, db, q.ID, u.ID, base)
	testutil.VoteAnswer(t, db, top.ID, voters...)

	items, total, err := repo.ListRanked(ctx, q.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, top.ID, items[0].ID)
	assert.EqualValues(t, 5, items[0].VoteCount)
	assert.Equal(t, newer.ID, items[1].ID)
	assert.Equal(t, older.ID, items[2].ID)
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)
	u := testutil.CreateTestUser(t, db, testutil.WithUsername("alice"))

	email := "alice@example.org"
	got, err := repo.UpdateProfile(ctx, u.ID, &email, nil)
	require.NoError(t, err)
	assert.Equal(t, email, got.Email)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	u := testutil.CreateTestUser(t, db)
	q := testutil.CreateTestQuestion(t, db, u.ID, "q", time.Now())
	a := testutil.CreateTestAnswer(t, db, q.ID, u.ID, time.Now())
	testutil.VoteQuestion(t, db, q.ID, u)
	testutil.VoteAnswer(t, db, a.ID, u)

	st, err := New(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 1, Questions: 1, Answers: 1, Votes: 2}, st)
}

func questionIDs(items []models.Question) []uint {
	ids := make([]uint, 0, len(items))
	for _, q := range items {
		ids = append(ids, q.ID)
	}
	return ids
}

func TestUserRepo_CreateDuplicateConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "dup", PasswordHash: "x"}))
	err := repo.Create(ctx, &models.User{Username: "dup", PasswordHash: "y"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}
