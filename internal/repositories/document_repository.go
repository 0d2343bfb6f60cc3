package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"gorm.io/gorm"
)

// DocumentRepository defines the interface for document report operations
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.DocumentReport) error
	GetDocumentByID(ctx context.Context, id uint) (*models.DocumentReport, error)
	GetDocuments(ctx context.Context, filter models.DocumentFilter, page, limit int) ([]models.DocumentReport, int64, error)
	UpdateDocument(ctx context.Context, doc *models.DocumentReport) error
	DeleteDocument(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, id uint, status string) error
}

// PostgresDocumentRepository implements DocumentRepository for PostgreSQL
type PostgresDocumentRepository struct {
	db *gorm.DB
}

// NewPostgresDocumentRepository creates a new PostgresDocumentRepository
func NewPostgresDocumentRepository(db *gorm.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// CreateDocument creates a new document report
func (r *PostgresDocumentRepository) CreateDocument(ctx context.Context, doc *models.DocumentReport) error {
	if doc.ReportDate.IsZero() {
		doc.ReportDate = time.Now()
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetDocumentByID retrieves a document report by ID
func (r *PostgresDocumentRepository) GetDocumentByID(ctx context.Context, id uint) (*models.DocumentReport, error) {
	var doc models.DocumentReport
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// GetDocuments retrieves document reports with filters and pagination,
// newest report first
func (r *PostgresDocumentRepository) GetDocuments(ctx context.Context, filter models.DocumentFilter, page, limit int) ([]models.DocumentReport, int64, error) {
	var docs []models.DocumentReport
	var total int64

	q := r.db.WithContext(ctx).Model(&models.DocumentReport{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DocumentType != "" {
		q = q.Where("document_type = ?", filter.DocumentType)
	}
	if filter.StartDate != nil {
		q = q.Where("date_lost >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date_lost <= ?", *filter.EndDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("report_date DESC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, total, err
}

// UpdateDocument updates an existing document report
func (r *PostgresDocumentRepository) UpdateDocument(ctx context.Context, doc *models.DocumentReport) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// DeleteDocument hard-deletes a document report. Admin-only escape hatch
// that bypasses the claim lifecycle.
func (r *PostgresDocumentRepository) DeleteDocument(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.DocumentReport{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetStatus switches a document between lost and found. The update is
// conditional on the row not being claimed, so a write racing a concurrent
// approval can never revert a claimed document. Reverting to lost also
// re-checks for active claims inside the same transaction.
func (r *PostgresDocumentRepository) SetStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if status == models.DocumentStatusLost {
			var active int64
			err := tx.Model(&models.ClaimRequest{}).
				Where("document_id = ? AND status <> ?", id, models.ClaimStatusRejected).
				Count(&active).Error
			if err != nil {
				return err
			}
			if active > 0 {
				return storage.ErrInvalidState
			}
		}

		res := tx.Model(&models.DocumentReport{}).
			Where("id = ? AND status <> ?", id, models.DocumentStatusClaimed).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var doc models.DocumentReport
			if err := tx.First(&doc, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			return storage.ErrInvalidState
		}
		return nil
	})
}
