package postgres

import (
	"context"

	"github.com/frahmantamala/asset-custody/internal/audit"
	auditDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/audit"
	"github.com/frahmantamala/asset-custody/internal/store"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *auditDatamodel.Log) error {
	return store.Conn(ctx, r.db).Create(log).Error
}

func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*auditDatamodel.Log, error) {
	q := store.Conn(ctx, r.db).Model(&auditDatamodel.Log{})
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.EntityID > 0 {
		q = q.Where("entity_id = ?", filter.EntityID)
	}

	var logs []*auditDatamodel.Log
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&logs).Error
	return logs, err
}
