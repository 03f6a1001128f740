package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/roeeblo/smart-job-tracker/internal/errors"
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
)

// JobRepository persists job applications. Every query is scoped by the
// owning user id; a row belonging to someone else looks identical to a
// missing row.
type JobRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.JobApplication, error)
	FindByID(ctx context.Context, id, userID uint) (*model.JobApplication, error)
	FindForDedup(ctx context.Context, userID uint, company, role, notes string) (bool, error)
	Create(ctx context.Context, job *model.JobApplication) error
	UpdateFields(ctx context.Context, id, userID uint, fields map[string]interface{}) (*model.JobApplication, error)
	Delete(ctx context.Context, id, userID uint) error
	Transaction(ctx context.Context, fn func(tx JobRepository) error) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) ListByUser(ctx context.Context, userID uint) ([]model.JobApplication, error) {
	var jobs []model.JobApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		logger.GetLogger().Error("failed to list jobs",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return jobs, nil
}

func (r *jobRepository) FindByID(ctx context.Context, id, userID uint) (*model.JobApplication, error) {
	var job model.JobApplication
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return &job, nil
}

// FindForDedup reports whether the user already has a row with the same
// company and role (case-insensitive) or, when notes is non-empty, the
// same exact notes.
func (r *jobRepository) FindForDedup(ctx context.Context, userID uint, company, role, notes string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.JobApplication{}).
		Where("user_id = ?", userID)

	if notes != "" {
		q = q.Where("(LOWER(company) = LOWER(?) AND LOWER(role) = LOWER(?)) OR notes = ?",
			company, role, notes)
	} else {
		q = q.Where("LOWER(company) = LOWER(?) AND LOWER(role) = LOWER(?)", company, role)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return count > 0, nil
}

func (r *jobRepository) Create(ctx context.Context, job *model.JobApplication) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		logger.GetLogger().Error("failed to create job",
			zap.Uint("user_id", job.UserID),
			zap.Error(err),
		)
		return apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return nil
}

func (r *jobRepository) UpdateFields(ctx context.Context, id, userID uint, fields map[string]interface{}) (*model.JobApplication, error) {
	res := r.db.WithContext(ctx).
		Model(&model.JobApplication{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrJobNotFound
	}
	return r.FindByID(ctx, id, userID)
}

func (r *jobRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.JobApplication{})
	if res.Error != nil {
		return apperrors.WrapError(apperrors.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

func (r *jobRepository) Transaction(ctx context.Context, fn func(tx JobRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&jobRepository{db: tx})
	})
}
