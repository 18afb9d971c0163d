package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oyilmaz/carmarket-backend/internal/models"
)

type auditLogsRepo struct{ pool *pgxpool.Pool }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	var details []byte
	if l.Details != nil {
		b, err := json.Marshal(l.Details)
		if err != nil {
			return err
		}
		details = b
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (id, entity_type, entity_id, action, details)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.EntityType, l.EntityID, l.Action, details,
	)
	return err
}
