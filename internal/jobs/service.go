// Package jobs proxies job search and skill-based recommendations to the backend.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"careerprep-backend/internal/backend"
	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/skillcache"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSkills means recommendations were requested before any skills were known.
	ErrNoSkills = errors.New("no skills on file")
)

const defaultLimit = 10

// Backend is the subset of the backend client used here.
type Backend interface {
	SearchJobs(ctx context.Context, req backend.JobSearchRequest) (backend.JobList, error)
	RecommendJobs(ctx context.Context, req backend.JobRecommendationRequest) (backend.JobList, error)
}

type Service struct {
	Backend Backend
	Skills  *skillcache.Service
}

// Search runs a keyword search. An empty query with no location is rejected.
func (s *Service) Search(ctx context.Context, query, location string, page int) (backend.JobList, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" && location == "" {
		return backend.JobList{}, fmt.Errorf("%w: q or location is required", ErrInvalidInput)
	}
	if page < 0 {
		page = 0
	}
	list, err := s.Backend.SearchJobs(ctx, backend.JobSearchRequest{Query: query, Location: location, Page: page})
	if err != nil {
		return backend.JobList{}, err
	}
	return normalize(list), nil
}

// Recommend returns jobs for the owner's cached skills, or for the explicit
// skills when given.
func (s *Service) Recommend(ctx context.Context, ownerID string, skills []string, limit int) (backend.JobList, error) {
	if len(skills) == 0 && s.Skills != nil {
		cached, err := s.Skills.Skills(ctx, ownerID)
		if err != nil {
			return backend.JobList{}, err
		}
		skills = cached
	}
	if len(skills) == 0 {
		return backend.JobList{}, ErrNoSkills
	}
	if limit <= 0 || limit > 50 {
		limit = defaultLimit
	}
	list, err := s.Backend.RecommendJobs(ctx, backend.JobRecommendationRequest{Skills: skills, Limit: limit})
	if err != nil {
		return backend.JobList{}, err
	}
	telemetry.Info("jobs.recommended", map[string]any{
		"user_id":     ownerID,
		"skill_count": len(skills),
		"results":     len(list.Jobs),
	})
	return normalize(list), nil
}

func normalize(list backend.JobList) backend.JobList {
	if list.Jobs == nil {
		list.Jobs = []backend.Job{}
	}
	if list.Total < len(list.Jobs) {
		list.Total = len(list.Jobs)
	}
	return list
}
