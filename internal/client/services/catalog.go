package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

const (
	faqsPath           = "/api/faqs/"
	askFAQPath         = "/api/faq/ask/"
	centersPath        = "/api/centers/"
	matchingQuestions  = "/api/matching/questions/"
	matchingSubmitPath = "/api/matching/submit/"
	selectProfilePath  = "/api/matching/select-profile/"
	profilesPath       = "/api/profiles/"
	pathGetPath        = "/api/path/get/"
	pathValidatePath   = "/api/path/validate/"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrNoResponses   = errors.New("no matching responses")
)

// CatalogService covers the reference data and the orientation flow:
// FAQ, physical centers, the matching form, profiles and adaptive paths.
type CatalogService interface {
	FAQs(ctx context.Context) ([]models.FAQ, error)
	AskFAQ(ctx context.Context, question string) (models.FAQAnswer, error)
	Centers(ctx context.Context) ([]models.PhysicalCenter, error)

	MatchingQuestions(ctx context.Context) ([]models.MatchingQuestion, error)
	SubmitMatching(ctx context.Context, responses []models.MatchingResponse) (models.MatchingResult, error)
	SelectProfile(ctx context.Context, profileID int64) (models.ProfileSelection, error)
	Profiles(ctx context.Context) ([]models.Profile, error)

	AdaptivePath(ctx context.Context) (models.AdaptivePath, error)
	ValidatePath(ctx context.Context, pathID int64) (string, error)
}

type catalogService struct {
	doer Doer
}

func NewCatalogService(doer Doer) CatalogService {
	return &catalogService{doer: doer}
}

func (s *catalogService) FAQs(ctx context.Context) ([]models.FAQ, error) {
	var faqs []models.FAQ
	if err := get(ctx, s.doer, faqsPath, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

func (s *catalogService) AskFAQ(ctx context.Context, question string) (models.FAQAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.FAQAnswer{}, ErrEmptyQuestion
	}
	var a models.FAQAnswer
	if err := post(ctx, s.doer, askFAQPath, map[string]string{"question": question}, &a); err != nil {
		return models.FAQAnswer{}, err
	}
	return a, nil
}

func (s *catalogService) Centers(ctx context.Context) ([]models.PhysicalCenter, error) {
	var cs []models.PhysicalCenter
	if err := get(ctx, s.doer, centersPath, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *catalogService) MatchingQuestions(ctx context.Context) ([]models.MatchingQuestion, error) {
	var qs []models.MatchingQuestion
	if err := get(ctx, s.doer, matchingQuestions, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *catalogService) SubmitMatching(ctx context.Context, responses []models.MatchingResponse) (models.MatchingResult, error) {
	if len(responses) == 0 {
		return models.MatchingResult{}, ErrNoResponses
	}
	body := struct {
		Responses []models.MatchingResponse `json:"responses"`
	}{responses}

	var res models.MatchingResult
	if err := post(ctx, s.doer, matchingSubmitPath, body, &res); err != nil {
		return models.MatchingResult{}, err
	}
	return res, nil
}

func (s *catalogService) SelectProfile(ctx context.Context, profileID int64) (models.ProfileSelection, error) {
	if profileID <= 0 {
		return models.ProfileSelection{}, fmt.Errorf("%w: %d", ErrInvalidID, profileID)
	}
	var sel models.ProfileSelection
	if err := post(ctx, s.doer, selectProfilePath, map[string]int64{"profile_id": profileID}, &sel); err != nil {
		return models.ProfileSelection{}, err
	}
	return sel, nil
}

func (s *catalogService) Profiles(ctx context.Context) ([]models.Profile, error) {
	var ps []models.Profile
	if err := get(ctx, s.doer, profilesPath, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *catalogService) AdaptivePath(ctx context.Context) (models.AdaptivePath, error) {
	var p models.AdaptivePath
	if err := get(ctx, s.doer, pathGetPath, &p); err != nil {
		return models.AdaptivePath{}, err
	}
	return p, nil
}

// ValidatePath starts the given path and returns the server's message.
func (s *catalogService) ValidatePath(ctx context.Context, pathID int64) (string, error) {
	if pathID <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidID, pathID)
	}
	var res struct {
		Message string `json:"message"`
	}
	if err := post(ctx, s.doer, pathValidatePath, map[string]int64{"path_id": pathID}, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
