package repository

import (
	sqlcgen "github.com/gokatarajesh/hotseat-trivia/internal/db/sqlc"
)

func questionRow(id int32, tier string) sqlcgen.Question {
	return sqlcgen.Question{
		QuestionID:    id,
		Kind:          "multiple_choice",
		Prompt:        "Prompt",
		Answers:       []string{"A", "B", "C", "D"},
		CorrectAnswer: 0,
		Tier:          tier,
	}
}
