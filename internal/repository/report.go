package repository

import (
	"context"
	"errors"

	"ourcircle/internal/models"
	"ourcircle/internal/observability"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for abuse reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, resolved *bool, limit, offset int) ([]*models.Report, error)
	Resolve(ctx context.Context, id uint) error
	CountOpen(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.ReportsCreated.Inc()
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("User").Preload("Post").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

// List returns reports newest first, optionally filtered by resolution state.
func (r *reportRepository) List(ctx context.Context, resolved *bool, limit, offset int) ([]*models.Report, error) {
	var reports []*models.Report
	query := r.db.WithContext(ctx).Preload("User").Preload("Post")
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

// Resolve marks a report handled. Resolving an already-resolved report
// succeeds without changing anything.
func (r *reportRepository) Resolve(ctx context.Context, id uint) error {
	var report models.Report
	if err := r.db.WithContext(ctx).Select("id", "is_resolved").First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Report", id)
		}
		return models.NewInternalError(err)
	}
	if report.IsResolved {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).UpdateColumn("is_resolved", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	observability.ReportsResolved.Inc()
	return nil
}

func (r *reportRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("is_resolved = ?", false).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
