package postgres

import (
	"context"
	"fmt"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"

	"github.com/google/uuid"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, before_state, after_state, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		log.ID, log.ActorID, string(log.Action), log.EntityType,
		log.EntityID, log.Before, log.After, log.IPAddress, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *auditRepo) List(ctx context.Context, actorID *uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error) {
	where := ""
	var args []any
	argIdx := 1
	if actorID != nil {
		where = fmt.Sprintf("WHERE actor_id = $%d", argIdx)
		args = append(args, *actorID)
		argIdx++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	offset := (page - 1) * pageSize
	dataQuery := fmt.Sprintf(`SELECT id, actor_id, action, entity_type, entity_id, before_state, after_state, ip_address, created_at
		FROM audit_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		l := domain.AuditLog{}
		err := rows.Scan(
			&l.ID, &l.ActorID, &l.Action, &l.EntityType,
			&l.EntityID, &l.Before, &l.After, &l.IPAddress, &l.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit log rows: %w", err)
	}
	return logs, total, nil
}
