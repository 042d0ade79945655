// Package skillcache keeps the per-owner skill list and latest upload
// metadata that resume, assessment and report flows share.
package skillcache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"careerprep-backend/internal/shared/telemetry"
	"careerprep-backend/internal/shared/util"
)

// Service reads and writes cached values.
type Service struct {
	Repo Repo

	// ownerLocks serialises skill list rewrites per owner.
	ownerLocks util.KeyedMutex
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Skills returns the cached skills, or an empty list.
func (s *Service) Skills(ctx context.Context, ownerID string) ([]string, error) {
	var skills []string
	if err := s.load(ctx, ownerID, KeySkills, &skills); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}

// SetSkills overwrites the cached skills after trimming blanks and duplicates.
func (s *Service) SetSkills(ctx context.Context, ownerID string, skills []string) ([]string, error) {
	cleaned := clean(nil, skills)
	unlock := s.ownerLocks.Lock(ownerID)
	defer unlock()
	if err := s.store(ctx, ownerID, KeySkills, cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// AddSkills appends skills not already cached, keeping existing order.
func (s *Service) AddSkills(ctx context.Context, ownerID string, skills []string) ([]string, error) {
	unlock := s.ownerLocks.Lock(ownerID)
	defer unlock()

	current, err := s.Skills(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	merged := clean(current, skills)
	if err := s.store(ctx, ownerID, KeySkills, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// LatestUpload returns the latest upload metadata, or nil when none is cached.
func (s *Service) LatestUpload(ctx context.Context, ownerID string) (*UploadInfo, error) {
	var info UploadInfo
	if err := s.load(ctx, ownerID, KeyLatestUpload, &info); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// SetLatestUpload records upload metadata.
func (s *Service) SetLatestUpload(ctx context.Context, ownerID string, info UploadInfo) error {
	return s.store(ctx, ownerID, KeyLatestUpload, info)
}

// Snapshot returns everything cached for the owner.
func (s *Service) Snapshot(ctx context.Context, ownerID string) (Snapshot, error) {
	skills, err := s.Skills(ctx, ownerID)
	if err != nil {
		return Snapshot{}, err
	}
	upload, err := s.LatestUpload(ctx, ownerID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Skills: skills, LatestUpload: upload}, nil
}

// Clear drops every cached value for the owner.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	return s.Repo.DeleteOwner(ctx, ownerID)
}

func (s *Service) load(ctx context.Context, ownerID, key string, out any) error {
	raw, err := s.Repo.Get(ctx, ownerID, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// A corrupt entry behaves like an empty one.
		telemetry.Warn("skillcache.decode_failed", map[string]any{
			"owner_id": ownerID,
			"key":      key,
			"err":      err,
		})
		return ErrNotFound
	}
	return nil
}

func (s *Service) store(ctx context.Context, ownerID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Repo.Put(ctx, ownerID, key, raw)
}

func clean(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
