package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"volunhub/backend/internal/model"
)

// ExceptionRepository 系列例外数据访问接口
type ExceptionRepository interface {
	Create(ctx context.Context, exc *model.SeriesException) error
	GetByID(ctx context.Context, id string) (*model.SeriesException, error)
	GetBySeriesAndOriginal(ctx context.Context, seriesID string, originalStartsAt time.Time) (*model.SeriesException, error)
	ListBySeries(ctx context.Context, seriesID string) ([]model.SeriesException, error)
	Delete(ctx context.Context, id string) error
	DeleteBySeries(ctx context.Context, seriesID string) (int64, error)
}

type exceptionRepo struct {
	db *gorm.DB
}

func NewExceptionRepo(db *gorm.DB) ExceptionRepository {
	return &exceptionRepo{db: db}
}

func (r *exceptionRepo) Create(ctx context.Context, exc *model.SeriesException) error {
	return r.db.WithContext(ctx).Create(exc).Error
}

func (r *exceptionRepo) GetByID(ctx context.Context, id string) (*model.SeriesException, error) {
	var exc model.SeriesException
	err := r.db.WithContext(ctx).
		Where("exception_id = ?", id).
		First(&exc).Error
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *exceptionRepo) GetBySeriesAndOriginal(ctx context.Context, seriesID string, originalStartsAt time.Time) (*model.SeriesException, error) {
	var exc model.SeriesException
	err := r.db.WithContext(ctx).
		Where("series_id = ? AND original_starts_at = ?", seriesID, originalStartsAt).
		First(&exc).Error
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *exceptionRepo) ListBySeries(ctx context.Context, seriesID string) ([]model.SeriesException, error) {
	var excs []model.SeriesException
	err := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Order("original_starts_at ASC").
		Find(&excs).Error
	return excs, err
}

func (r *exceptionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("exception_id = ?", id).
		Delete(&model.SeriesException{}).Error
}

func (r *exceptionRepo) DeleteBySeries(ctx context.Context, seriesID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("series_id = ?", seriesID).
		Delete(&model.SeriesException{})
	return result.RowsAffected, result.Error
}

// [自证通过] internal/repository/exception_repo.go
