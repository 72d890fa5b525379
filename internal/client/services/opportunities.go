package services

import (
	"context"

	"github.com/dmitrijs2005/elite/internal/client/models"
)

const (
	jobsPath         = "/api/jobs/"
	competitionsPath = "/api/competitions/"
)

type OpportunityService interface {
	Jobs(ctx context.Context) ([]models.JobOffer, error)
	Competitions(ctx context.Context) ([]models.Competition, error)
}

type opportunityService struct {
	doer Doer
}

func NewOpportunityService(doer Doer) OpportunityService {
	return &opportunityService{doer: doer}
}

func (s *opportunityService) Jobs(ctx context.Context) ([]models.JobOffer, error) {
	var jobs []models.JobOffer
	if err := get(ctx, s.doer, jobsPath, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *opportunityService) Competitions(ctx context.Context) ([]models.Competition, error) {
	var cs []models.Competition
	if err := get(ctx, s.doer, competitionsPath, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}
