package question

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gokatarajesh/hotseat-trivia/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/hotseat-trivia/internal/db/sqlc"
	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

// Source yields raw bank records.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// FileSource reads the JSON bank from disk.
type FileSource struct {
	path string
}

var _ Source = (*FileSource)(nil)

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return DecodeRecords(data)
}

// DecodeRecords parses a JSON array of bank records.
func DecodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	return records, nil
}

// StoreSource reads the bank from Postgres.
type StoreSource struct {
	repo *repository.QuestionRepository
}

var _ Source = (*StoreSource)(nil)

func NewStoreSource(repo *repository.QuestionRepository) *StoreSource {
	return &StoreSource{repo: repo}
}

func (s *StoreSource) Name() string { return "postgres" }

func (s *StoreSource) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

func recordFromRow(row sqlcgen.Question) Record {
	typ := TypeMCQ
	if row.Kind == string(game.KindTrueFalse) {
		typ = TypeTrueFalse
	}
	return Record{
		ID:            int(row.QuestionID),
		Question:      row.Prompt,
		Type:          typ,
		Answers:       row.Answers,
		CorrectAnswer: int(row.CorrectAnswer),
		Difficulty:    row.Tier,
	}
}

// UpsertParams maps a validated question to its row.
func UpsertParams(q game.Question) sqlcgen.UpsertQuestionParams {
	return sqlcgen.UpsertQuestionParams{
		QuestionID:    int32(q.ID),
		Kind:          string(q.Kind),
		Prompt:        q.Prompt,
		Answers:       q.Answers,
		CorrectAnswer: int32(q.CorrectAnswer),
		Tier:          string(q.Tier),
	}
}
