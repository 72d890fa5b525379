package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/elite/internal/client/api"
	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/logging"
)

const (
	coursesPath        = "/api/courses/"
	myCoursesPath      = "/api/courses/my-courses/"
	coursePathFmt      = "/api/courses/%d/"
	purchasePathFmt    = "/api/courses/%d/purchase/"
	chapterProgressFmt = "/api/chapters/%d/progress/"
	outlineConcurrency = 4

	PaymentMobileMoney = "Mobile Money"
	PaymentCard        = "Stripe"
)

// CourseService lists course packs and tracks chapter progress.
//
// Contract:
//   - ChapterProgress: a 403 is not an error; it yields a LOCKED progress
//     value with Accessible set to false.
//   - Outline: fetches the pack and each chapter's status. Session and
//     network failures abort the outline; any other per-chapter failure is
//     logged and reported as NOT_STARTED.
type CourseService interface {
	List(ctx context.Context) ([]models.CoursePack, error)
	MyCourses(ctx context.Context) ([]models.CoursePack, error)
	Pack(ctx context.Context, id int64) (models.CoursePack, error)
	Purchase(ctx context.Context, id int64, paymentMethod string) (models.PurchaseResult, error)
	ChapterProgress(ctx context.Context, chapterID int64) (models.ChapterProgress, error)
	Outline(ctx context.Context, packID int64) (models.CourseOutline, error)
}

type courseService struct {
	doer   Doer
	logger logging.Logger
}

func NewCourseService(doer Doer, logger logging.Logger) CourseService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &courseService{doer: doer, logger: logger}
}

func (s *courseService) List(ctx context.Context) ([]models.CoursePack, error) {
	var packs []models.CoursePack
	if err := get(ctx, s.doer, coursesPath, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

func (s *courseService) MyCourses(ctx context.Context) ([]models.CoursePack, error) {
	var packs []models.CoursePack
	if err := get(ctx, s.doer, myCoursesPath, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

func (s *courseService) Pack(ctx context.Context, id int64) (models.CoursePack, error) {
	path, err := idPath(coursePathFmt, id)
	if err != nil {
		return models.CoursePack{}, err
	}
	var pack models.CoursePack
	if err := get(ctx, s.doer, path, &pack); err != nil {
		return models.CoursePack{}, err
	}
	return pack, nil
}

// Purchase buys a pack. An empty payment method means mobile money.
func (s *courseService) Purchase(ctx context.Context, id int64, paymentMethod string) (models.PurchaseResult, error) {
	path, err := idPath(purchasePathFmt, id)
	if err != nil {
		return models.PurchaseResult{}, err
	}
	if paymentMethod == "" {
		paymentMethod = PaymentMobileMoney
	}

	var res models.PurchaseResult
	body := map[string]string{"payment_method": paymentMethod}
	if err := post(ctx, s.doer, path, body, &res); err != nil {
		return models.PurchaseResult{}, err
	}
	return res, nil
}

func (s *courseService) ChapterProgress(ctx context.Context, chapterID int64) (models.ChapterProgress, error) {
	path, err := idPath(chapterProgressFmt, chapterID)
	if err != nil {
		return models.ChapterProgress{}, err
	}

	var p models.ChapterProgress
	err = get(ctx, s.doer, path, &p)
	switch {
	case errors.Is(err, api.ErrForbidden):
		return models.ChapterProgress{Chapter: chapterID, Status: models.StatusLocked}, nil
	case err != nil:
		return models.ChapterProgress{}, err
	}

	p.Accessible = true
	if p.Chapter == 0 {
		p.Chapter = chapterID
	}
	return p, nil
}

func (s *courseService) Outline(ctx context.Context, packID int64) (models.CourseOutline, error) {
	pack, err := s.Pack(ctx, packID)
	if err != nil {
		return models.CourseOutline{}, err
	}

	chapters := slices.Clone(pack.Chapters)
	slices.SortStableFunc(chapters, func(a, b models.Chapter) int { return a.Order - b.Order })

	out := make([]models.ChapterOutline, len(chapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(outlineConcurrency)
	for i, ch := range chapters {
		g.Go(func() error {
			st, err := s.chapterStatus(gctx, ch.ID)
			if err != nil {
				return fmt.Errorf("chapter %d: %w", ch.ID, err)
			}
			out[i] = models.ChapterOutline{Chapter: ch, Status: st}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.CourseOutline{}, err
	}

	return models.CourseOutline{Pack: pack, Chapters: out}, nil
}

func (s *courseService) chapterStatus(ctx context.Context, chapterID int64) (models.ChapterStatus, error) {
	p, err := s.ChapterProgress(ctx, chapterID)
	if err == nil {
		return p.Status, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNetworkUnreachable) {
		return "", err
	}
	s.logger.Warn(ctx, "chapter progress unavailable", "chapter", chapterID, "error", err)
	return models.StatusNotStarted, nil
}
