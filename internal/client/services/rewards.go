package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

const (
	rewardsPath       = "/api/rewards/"
	redeemPathFmt     = "/api/rewards/%d/redeem/"
	referralStatsPath = "/api/referrals/stats/"
)

var ErrInsufficientPoints = errors.New("not enough referral points")

// RewardService exchanges referral points for rewards.
//
// Redeem checks the caller's known balance before calling the server, which
// checks again.
type RewardService interface {
	List(ctx context.Context) ([]models.Reward, error)
	Redeem(ctx context.Context, reward models.Reward, points int) (models.RedeemResult, error)
	ReferralStats(ctx context.Context) (models.ReferralStats, error)
}

type rewardService struct {
	doer Doer
}

func NewRewardService(doer Doer) RewardService {
	return &rewardService{doer: doer}
}

func (s *rewardService) List(ctx context.Context) ([]models.Reward, error) {
	var rewards []models.Reward
	if err := get(ctx, s.doer, rewardsPath, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (s *rewardService) Redeem(ctx context.Context, reward models.Reward, points int) (models.RedeemResult, error) {
	path, err := idPath(redeemPathFmt, reward.ID)
	if err != nil {
		return models.RedeemResult{}, err
	}
	if points < reward.PointsRequired {
		return models.RedeemResult{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientPoints, reward.PointsRequired, points)
	}

	var res models.RedeemResult
	if err := post(ctx, s.doer, path, nil, &res); err != nil {
		return models.RedeemResult{}, err
	}
	return res, nil
}

func (s *rewardService) ReferralStats(ctx context.Context) (models.ReferralStats, error) {
	var st models.ReferralStats
	if err := get(ctx, s.doer, referralStatsPath, &st); err != nil {
		return models.ReferralStats{}, err
	}
	return st, nil
}
