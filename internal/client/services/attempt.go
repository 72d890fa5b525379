package services

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

var (
	ErrEmptyQuiz     = errors.New("quiz has no questions")
	ErrUnknownChoice = errors.New("choice does not belong to the current question")
)

// QuizAttempt tracks navigation and answers while a quiz is being taken.
// It is not safe for concurrent use.
type QuizAttempt struct {
	quiz    models.Quiz
	index   int
	answers map[int64]int64
}

// NewQuizAttempt orders the questions and positions on the first one.
func NewQuizAttempt(q models.Quiz) (*QuizAttempt, error) {
	if len(q.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	q.Questions = slices.Clone(q.Questions)
	slices.SortStableFunc(q.Questions, func(a, b models.QuizQuestion) int { return a.Order - b.Order })

	return &QuizAttempt{quiz: q, answers: make(map[int64]int64, len(q.Questions))}, nil
}

func (a *QuizAttempt) Quiz() models.Quiz {
	return a.quiz
}

func (a *QuizAttempt) Index() int {
	return a.index
}

func (a *QuizAttempt) Len() int {
	return len(a.quiz.Questions)
}

func (a *QuizAttempt) Current() models.QuizQuestion {
	return a.quiz.Questions[a.index]
}

// Next moves forward and reports whether it moved.
func (a *QuizAttempt) Next() bool {
	if a.index >= len(a.quiz.Questions)-1 {
		return false
	}
	a.index++
	return true
}

// Previous moves back and reports whether it moved.
func (a *QuizAttempt) Previous() bool {
	if a.index == 0 {
		return false
	}
	a.index--
	return true
}

// Select records choiceID for the current question, replacing any earlier
// answer.
func (a *QuizAttempt) Select(choiceID int64) error {
	q := a.Current()
	for _, c := range q.Choices {
		if c.ID == choiceID {
			a.answers[q.ID] = choiceID
			return nil
		}
	}
	return fmt.Errorf("%w: question %d, choice %d", ErrUnknownChoice, q.ID, choiceID)
}

// Selected returns the current question's answer, if any.
func (a *QuizAttempt) Selected() (int64, bool) {
	id, ok := a.answers[a.Current().ID]
	return id, ok
}

func (a *QuizAttempt) Answered() int {
	return len(a.answers)
}

func (a *QuizAttempt) Unanswered() int {
	return len(a.quiz.Questions) - len(a.answers)
}

// Progress is the position of the current question as a percentage.
func (a *QuizAttempt) Progress() float64 {
	return float64(a.index+1) / float64(len(a.quiz.Questions)) * 100
}

// Answers returns a copy suitable for QuizService.Submit.
func (a *QuizAttempt) Answers() map[int64]int64 {
	return maps.Clone(a.answers)
}
