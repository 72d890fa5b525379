package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

func TestCatalogService_FAQ(t *testing.T) {
	d := newFakeDoer().
		on(http.MethodGet, "/api/faqs/", `[{"id":1,"category_name":"General","question":"q","answer":"a"}]`).
		on(http.MethodPost, "/api/faq/ask/", `{"question":"why?","answer":"because"}`)
	svc := NewCatalogService(d)

	faqs, err := svc.FAQs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "General", faqs[0].CategoryName)

	a, err := svc.AskFAQ(context.Background(), " why? ")
	require.NoError(t, err)
	assert.Equal(t, "because", a.Answer)
	assert.JSONEq(t, `{"question":"why?"}`, d.lastBody())

	_, err = svc.AskFAQ(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestCatalogService_Matching(t *testing.T) {
	d := newFakeDoer().
		on(http.MethodGet, "/api/matching/questions/", `[{"id":1,"text":"q","order":1,"answers":[{"id":2,"text":"a"}]}]`).
		on(http.MethodPost, "/api/matching/submit/", `{"recommended_profiles":[{"id":5,"name":"Engineer"}],"message":"done"}`).
		on(http.MethodPost, "/api/matching/select-profile/", `{"message":"ok","profile":{"id":5,"name":"Engineer"}}`)
	svc := NewCatalogService(d)
	ctx := context.Background()

	qs, err := svc.MatchingQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, qs[0].Answers, 1)

	_, err = svc.SubmitMatching(ctx, nil)
	require.ErrorIs(t, err, ErrNoResponses)

	res, err := svc.SubmitMatching(ctx, []models.MatchingResponse{{QuestionID: 1, AnswerID: 2}})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", res.RecommendedProfiles[0].Name)
	assert.JSONEq(t, `{"responses":[{"question_id":1,"answer_id":2}]}`, d.lastBody())

	sel, err := svc.SelectProfile(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sel.Profile.ID)
	assert.JSONEq(t, `{"profile_id":5}`, d.lastBody())
}

func TestCatalogService_Path(t *testing.T) {
	d := newFakeDoer().
		on(http.MethodGet, "/api/path/get/", `{"id":3,"profile":{"id":5},"academic_level":"BAC","steps":[{"title":"x"}],"duration_months":6}`).
		on(http.MethodPost, "/api/path/validate/", `{"message":"started"}`).
		on(http.MethodGet, "/api/centers/", `[{"id":1,"city":"Dakar"}]`).
		on(http.MethodGet, "/api/profiles/", `[{"id":5,"name":"Engineer"}]`)
	svc := NewCatalogService(d)
	ctx := context.Background()

	p, err := svc.AdaptivePath(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, p.DurationMonths)
	assert.Len(t, p.Steps, 1)

	msg, err := svc.ValidatePath(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "started", msg)
	assert.JSONEq(t, `{"path_id":3}`, d.lastBody())

	_, err = svc.ValidatePath(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidID)

	centers, err := svc.Centers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dakar", centers[0].City)

	profiles, err := svc.Profiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}
