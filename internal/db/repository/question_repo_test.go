package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/hotseat-trivia/internal/db/sqlc"
)

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) ListQuestions(ctx context.Context) ([]sqlcgen.Question, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) UpsertQuestion(ctx context.Context, arg sqlcgen.UpsertQuestionParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuestionStore) CountQuestions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestQuestionRepository_FetchAll(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	expect := []sqlcgen.Question{questionRow(1, "easy"), questionRow(2, "hard")}
	store.On("ListQuestions", mock.Anything).Return(expect, nil)

	got, err := repo.FetchAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestQuestionRepository_Count(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)
	store.On("CountQuestions", mock.Anything).Return(int64(42), nil)

	n, err := repo.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestQuestionRepository_UpsertBatchWithoutTx(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	first := sqlcgen.UpsertQuestionParams{QuestionID: 1, Kind: "true_false", Prompt: "p", Answers: []string{"Vrai", "Faux"}, Tier: "easy"}
	second := sqlcgen.UpsertQuestionParams{QuestionID: 2, Kind: "true_false", Prompt: "q", Answers: []string{"Vrai", "Faux"}, Tier: "easy"}
	store.On("UpsertQuestion", mock.Anything, first).Return(nil).Once()
	store.On("UpsertQuestion", mock.Anything, second).Return(errors.New("constraint")).Once()

	err := repo.UpsertBatch(context.Background(), []sqlcgen.UpsertQuestionParams{first, second})
	assert.EqualError(t, err, "constraint")
	store.AssertExpectations(t)
}
