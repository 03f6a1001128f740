package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roeeblo/smart-job-tracker/internal/dto"
	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
)

func newTestJobService() (*JobService, *fakeJobRepo) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo, newTestCache(), "LinkedIn")
	return svc, repo
}

func strPtr(s string) *string { return &s }

func TestJobService_CreateDefaults(t *testing.T) {
	svc, _ := newTestJobService()

	job, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "  Acme  ",
		Role:    "Engineer",
		Status:  "Interview",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "interview", job.Status)
	assert.Equal(t, "LinkedIn", job.Source)
	assert.Equal(t, uint(1), job.UserID)
}

func TestJobService_CreateUnknownStatusFallsBack(t *testing.T) {
	svc, _ := newTestJobService()

	job, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "Acme",
		Role:    "Engineer",
		Status:  "ghosted",
	})
	require.NoError(t, err)
	assert.Equal(t, "applied", job.Status)
}

func TestJobService_CreateRequiresCompanyAndRole(t *testing.T) {
	svc, _ := newTestJobService()

	_, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "   ",
		Role:    "Engineer",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestJobService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestJobService()

	for _, company := range []string{"First", "Second", "Third"} {
		_, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
			Company: company,
			Role:    "Engineer",
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), 2, dto.CreateJobRequest{
		Company: "Other User",
		Role:    "Engineer",
	})
	require.NoError(t, err)

	jobs, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "Third", jobs[0].Company)
	assert.Equal(t, "First", jobs[2].Company)
}

func TestJobService_UpdateSparse(t *testing.T) {
	svc, _ := newTestJobService()

	created, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "Acme",
		Role:    "Engineer",
		Notes:   "keep me",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), 1, created.ID, dto.UpdateJobRequest{
		Status: strPtr("offer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "offer", updated.Status)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "keep me", updated.Notes)

	// Explicit empty string clears the field.
	updated, err = svc.Update(context.Background(), 1, created.ID, dto.UpdateJobRequest{
		Notes: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Notes)
}

func TestJobService_UpdateNoFields(t *testing.T) {
	svc, _ := newTestJobService()

	created, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "Acme",
		Role:    "Engineer",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 1, created.ID, dto.UpdateJobRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsProvided)
}

func TestJobService_CrossUserLooksLikeMissing(t *testing.T) {
	svc, _ := newTestJobService()

	created, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "Acme",
		Role:    "Engineer",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 2, created.ID, dto.UpdateJobRequest{
		Status: strPtr("offer"),
	})
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	err = svc.Delete(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

	// The owner still sees it untouched.
	jobs, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "applied", jobs[0].Status)
}

func TestJobService_Delete(t *testing.T) {
	svc, _ := newTestJobService()

	created, err := svc.Create(context.Background(), 1, dto.CreateJobRequest{
		Company: "Acme",
		Role:    "Engineer",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, created.ID), apperrors.ErrJobNotFound)
}
