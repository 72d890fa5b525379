package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

const (
	quizPathFmt     = "/api/chapters/%d/quiz/"
	submitPathFmt   = "/api/chapters/%d/quiz/submit/"
	bypassPathFmt   = "/api/chapters/%d/referral-bypass/"
	passBandScore   = 14
	referralBandMin = 10
)

var ErrNoAnswers = errors.New("no answers to submit")

type QuizService interface {
	Quiz(ctx context.Context, chapterID int64) (models.Quiz, error)
	Submit(ctx context.Context, chapterID int64, answers map[int64]int64) (models.QuizResult, error)
	ReferralBypass(ctx context.Context, chapterID int64) (models.BypassResult, error)
}

type quizService struct {
	doer Doer
}

func NewQuizService(doer Doer) QuizService {
	return &quizService{doer: doer}
}

func (s *quizService) Quiz(ctx context.Context, chapterID int64) (models.Quiz, error) {
	path, err := idPath(quizPathFmt, chapterID)
	if err != nil {
		return models.Quiz{}, err
	}
	var q models.Quiz
	if err := get(ctx, s.doer, path, &q); err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

// Submit sends question id -> choice id pairs. The server grades; partial
// submissions are allowed.
func (s *quizService) Submit(ctx context.Context, chapterID int64, answers map[int64]int64) (models.QuizResult, error) {
	path, err := idPath(submitPathFmt, chapterID)
	if err != nil {
		return models.QuizResult{}, err
	}
	if len(answers) == 0 {
		return models.QuizResult{}, ErrNoAnswers
	}

	var res models.QuizResult
	if err := post(ctx, s.doer, path, models.QuizSubmission{Answers: answers}, &res); err != nil {
		return models.QuizResult{}, err
	}
	return res, nil
}

func (s *quizService) ReferralBypass(ctx context.Context, chapterID int64) (models.BypassResult, error) {
	path, err := idPath(bypassPathFmt, chapterID)
	if err != nil {
		return models.BypassResult{}, err
	}
	var res models.BypassResult
	if err := post(ctx, s.doer, path, nil, &res); err != nil {
		return models.BypassResult{}, err
	}
	return res, nil
}

// Band is how a quiz score is presented. It does not decide anything; the
// server's Passed flag does.
type Band int

const (
	BandRetry Band = iota
	BandReferral
	BandPassed
)

func (b Band) String() string {
	switch b {
	case BandPassed:
		return "passed"
	case BandReferral:
		return "referral option"
	default:
		return "retry"
	}
}

// BandFor maps a 0..20 score to its display band.
func BandFor(score float64) Band {
	switch {
	case score >= passBandScore:
		return BandPassed
	case score >= referralBandMin:
		return BandReferral
	default:
		return BandRetry
	}
}
