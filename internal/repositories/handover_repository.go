package repositories

import (
	"context"
	"errors"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"gorm.io/gorm"
)

// HandoverRepository defines the interface for handover record operations
type HandoverRepository interface {
	CreateHandover(ctx context.Context, handover *models.Handover) error
	GetHandoverByID(ctx context.Context, id uint) (*models.Handover, error)
	GetHandovers(ctx context.Context, filter models.HandoverFilter, limit, skip int) ([]models.Handover, error)
	UpdateHandover(ctx context.Context, handover *models.Handover) error
	DeleteHandover(ctx context.Context, id uint) error
}

type postgresHandoverRepository struct {
	db *gorm.DB
}

func NewPostgresHandoverRepository(db *gorm.DB) HandoverRepository {
	return &postgresHandoverRepository{db: db}
}

func (r *postgresHandoverRepository) CreateHandover(ctx context.Context, handover *models.Handover) error {
	return r.db.WithContext(ctx).Create(handover).Error
}

func (r *postgresHandoverRepository) GetHandoverByID(ctx context.Context, id uint) (*models.Handover, error) {
	var handover models.Handover
	if err := r.db.WithContext(ctx).First(&handover, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &handover, nil
}

func (r *postgresHandoverRepository) GetHandovers(ctx context.Context, filter models.HandoverFilter, limit, skip int) ([]models.Handover, error) {
	var handovers []models.Handover
	q := r.db.WithContext(ctx).Order("handover_date DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DocumentID != 0 {
		q = q.Where("document_id = ?", filter.DocumentID)
	}
	err := q.Offset(skip).Limit(limit).Find(&handovers).Error
	return handovers, err
}

func (r *postgresHandoverRepository) UpdateHandover(ctx context.Context, handover *models.Handover) error {
	return r.db.WithContext(ctx).Save(handover).Error
}

func (r *postgresHandoverRepository) DeleteHandover(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Handover{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
