package repository

import (
	"gorm.io/gorm"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(event *model.AuditEvent) error {
	return r.db.Create(event).Error
}

func (r *auditRepository) List(limit int) ([]model.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []model.AuditEvent
	err := r.db.Order("id DESC").Limit(limit).Find(&events).Error
	return events, err
}
