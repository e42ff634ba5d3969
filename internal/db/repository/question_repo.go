package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/hotseat-trivia/internal/db/sqlc"
)

type questionStore interface {
	ListQuestions(ctx context.Context) ([]sqlcgen.Question, error)
	UpsertQuestion(ctx context.Context, arg sqlcgen.UpsertQuestionParams) error
	CountQuestions(ctx context.Context) (int64, error)
}

// TxBeginner opens transactions for bulk imports (implemented by *pgxpool.Pool).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// QuestionRepository wraps sqlc queries for question bank access.
type QuestionRepository struct {
	store questionStore
	db    TxBeginner
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// WithTxBeginner enables transactional imports.
func (r *QuestionRepository) WithTxBeginner(db TxBeginner) *QuestionRepository {
	r.db = db
	return r
}

// FetchAll returns every stored question ordered by id.
func (r *QuestionRepository) FetchAll(ctx context.Context) ([]sqlcgen.Question, error) {
	return r.store.ListQuestions(ctx)
}

func (r *QuestionRepository) Upsert(ctx context.Context, params sqlcgen.UpsertQuestionParams) error {
	return r.store.UpsertQuestion(ctx, params)
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	return r.store.CountQuestions(ctx)
}

// UpsertBatch writes all params in one transaction when a TxBeginner is
// configured, otherwise one statement at a time.
func (r *QuestionRepository) UpsertBatch(ctx context.Context, params []sqlcgen.UpsertQuestionParams) error {
	if r.db == nil {
		for _, p := range params {
			if err := r.store.UpsertQuestion(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := sqlcgen.New(tx)
	for _, p := range params {
		if err := q.UpsertQuestion(ctx, p); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
