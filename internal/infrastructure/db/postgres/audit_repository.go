package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// AuditRepository appends identity-mutation records to the audit_log table.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	change, err := json.Marshal(entry.Change)
	if err != nil {
		return fmt.Errorf("marshal audit change: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`insert into audit_log (id, record_id, actor_id, table_name, change, action) values ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), entry.RecordID, entry.ActorID, entry.Table, change, entry.Action,
	); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
