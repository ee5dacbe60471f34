package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditInsert = `
	INSERT INTO audit_logs (id, org_id, transaction_id, action, from_status, to_status, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create appends an audit log entry.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx, auditInsert, auditArgs(log)...)
	return err
}

// CreateTx appends an audit log entry inside a database transaction, so the
// trail commits or rolls back with the state change it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, auditInsert, auditArgs(log)...)
	return err
}

func auditArgs(log *domain.AuditLog) []any {
	return []any{
		log.ID,
		log.OrgID,
		log.TransactionID,
		string(log.Action),
		string(log.FromStatus),
		string(log.ToStatus),
		log.Note,
		timeToPgTimestamptz(log.CreatedAt),
	}
}

// List retrieves audit log entries matching a filter, oldest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, org_id, transaction_id, action, from_status, to_status, note, created_at
		FROM audit_logs
		WHERE org_id = $1`
	args := []any{filter.OrgID}

	if filter.TransactionID != "" {
		args = append(args, filter.TransactionID)
		query += ` AND transaction_id = $` + strconv.Itoa(len(args))
	}
	if filter.Action != "" {
		args = append(args, string(filter.Action))
		query += ` AND action = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at`

	if filter.Limit > 0 {
		args = append(args, int32(filter.Limit))
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, int32(filter.Offset))
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var (
		log        domain.AuditLog
		action     string
		fromStatus string
		toStatus   string
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&log.ID,
		&log.OrgID,
		&log.TransactionID,
		&action,
		&fromStatus,
		&toStatus,
		&log.Note,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	log.Action = domain.AuditAction(action)
	log.FromStatus = domain.TransactionStatus(fromStatus)
	log.ToStatus = domain.TransactionStatus(toStatus)
	log.CreatedAt = createdAt.Time

	return &log, nil
}
