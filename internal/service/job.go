package service

import (
	"context"
	"strings"

	"github.com/roeeblo/smart-job-tracker/internal/dto"
	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/internal/repository"
)

type JobService struct {
	jobs  repository.JobRepository
	cache *JobCache
	// defaultSource fills in the source column when a record omits it.
	defaultSource string
}

func NewJobService(jobs repository.JobRepository, cache *JobCache, defaultSource string) *JobService {
	return &JobService{jobs: jobs, cache: cache, defaultSource: defaultSource}
}

// List returns the user's applications, newest first.
func (s *JobService) List(ctx context.Context, userID uint) ([]dto.JobResponse, error) {
	if cached, ok := s.cache.GetList(ctx, userID); ok {
		return cached, nil
	}

	jobs, err := s.jobs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := dto.ToJobResponses(jobs)
	s.cache.SetList(ctx, userID, out)
	return out, nil
}

func (s *JobService) Create(ctx context.Context, userID uint, req dto.CreateJobRequest) (*dto.JobResponse, error) {
	company := strings.TrimSpace(req.Company)
	role := strings.TrimSpace(req.Role)
	if company == "" || role == "" {
		return nil, apperrors.ErrValidation
	}

	job := &model.JobApplication{
		UserID:   userID,
		Company:  company,
		Role:     role,
		Status:   normalizeStatus(req.Status),
		Source:   defaultIfEmpty(strings.TrimSpace(req.Source), s.defaultSource),
		Location: strings.TrimSpace(req.Location),
		Notes:    strings.TrimSpace(req.Notes),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	resp := dto.ToJobResponse(job)
	return &resp, nil
}

// Update applies only the fields the client sent. A request with no
// recognized fields is rejected rather than silently succeeding.
func (s *JobService) Update(ctx context.Context, userID, jobID uint, req dto.UpdateJobRequest) (*dto.JobResponse, error) {
	if req.IsEmpty() {
		return nil, apperrors.ErrNoFieldsProvided
	}

	fields := map[string]interface{}{}
	if req.Company != nil {
		fields["company"] = strings.TrimSpace(*req.Company)
	}
	if req.Role != nil {
		fields["role"] = strings.TrimSpace(*req.Role)
	}
	if req.Status != nil {
		fields["status"] = normalizeStatus(*req.Status)
	}
	if req.Source != nil {
		fields["source"] = strings.TrimSpace(*req.Source)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Notes != nil {
		fields["notes"] = strings.TrimSpace(*req.Notes)
	}

	job, err := s.jobs.UpdateFields(ctx, jobID, userID, fields)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, userID)
	resp := dto.ToJobResponse(job)
	return &resp, nil
}

// Delete removes a job the user owns. Someone else's job id comes back
// as not found, never as forbidden.
func (s *JobService) Delete(ctx context.Context, userID, jobID uint) error {
	if err := s.jobs.Delete(ctx, jobID, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// normalizeStatus lowercases and falls back to "applied" for anything
// outside the known set.
func normalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if !model.ValidStatus(status) {
		return model.StatusApplied
	}
	return status
}

func defaultIfEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
