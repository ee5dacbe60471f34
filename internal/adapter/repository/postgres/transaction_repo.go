package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the repositories query
// through.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, org_id, reference, type, date, description, status, currency,
	exchange_rate, converted_total, reversal_of, created_at, updated_at`

// Create inserts a transaction with its entries.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateTx inserts a transaction with its entries inside an existing
// database transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return insertTransaction(ctx, tx.(*Tx).PgxTx(), txn)
}

func insertTransaction(ctx context.Context, q dbtx, txn *domain.Transaction) error {
	var reversalOf *string
	if txn.ReversalOf != "" {
		reversalOf = &txn.ReversalOf
	}

	_, err := q.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		txn.ID,
		txn.OrgID,
		txn.Reference,
		string(txn.Type),
		timeToPgDate(txn.Date),
		txn.Description,
		string(txn.Status),
		txn.Currency,
		decimalToNumeric(txn.ExchangeRate),
		decimalToNumeric(txn.ConvertedTotal),
		reversalOf,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return insertEntries(ctx, q, txn.ID, txn.Entries)
}

func insertEntries(ctx context.Context, q dbtx, txnID string, entries []domain.Entry) error {
	for _, e := range entries {
		_, err := q.Exec(ctx, `
			INSERT INTO entries (transaction_id, line_number, account_id, debit, credit, dimension_value_ids, memo)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			txnID,
			e.LineNumber,
			e.AccountID,
			decimalToNumeric(e.Debit),
			decimalToNumeric(e.Credit),
			e.DimensionValueIDs,
			e.Memo,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a transaction with its entries.
func (r *TransactionRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	return getTransaction(ctx, r.pool, orgID, id, false)
}

// GetByIDForUpdate retrieves a transaction with a FOR UPDATE lock on the
// transaction row.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, orgID, id string) (*domain.Transaction, error) {
	return getTransaction(ctx, tx.(*Tx).PgxTx(), orgID, id, true)
}

func getTransaction(ctx context.Context, q dbtx, orgID, id string, forUpdate bool) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE org_id = $1 AND id = $2`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	txn, err := scanTransaction(q.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, err
	}

	txn.Entries, err = loadEntries(ctx, q, txn.ID)
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func loadEntries(ctx context.Context, q dbtx, txnID string) ([]domain.Entry, error) {
	rows, err := q.Query(ctx, `
		SELECT transaction_id, line_number, account_id, debit, credit, dimension_value_ids, memo
		FROM entries
		WHERE transaction_id = $1
		ORDER BY line_number`,
		txnID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var (
			e      domain.Entry
			debit  pgtype.Numeric
			credit pgtype.Numeric
		)
		if err := rows.Scan(&e.TransactionID, &e.LineNumber, &e.AccountID, &debit, &credit, &e.DimensionValueIDs, &e.Memo); err != nil {
			return nil, err
		}
		e.Debit = numericToDecimal(debit)
		e.Credit = numericToDecimal(credit)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// UpdateStatus changes the status of a transaction inside a database
// transaction.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, updatedAt time.Time) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `
		UPDATE transactions
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ReplaceEntries swaps the entry set of a draft atomically.
func (r *TransactionRepository) ReplaceEntries(ctx context.Context, id string, entries []domain.Entry, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE transaction_id = $1`, id); err != nil {
		return err
	}

	if err := insertEntries(ctx, tx, id, entries); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE transactions SET updated_at = $2 WHERE id = $1`,
		id, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return tx.Commit(ctx)
}

// Delete removes a transaction and its entries.
func (r *TransactionRepository) Delete(ctx context.Context, orgID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// GetReversal returns the reversal transaction of a voided original.
func (r *TransactionRepository) GetReversal(ctx context.Context, orgID, originalID string) (*domain.Transaction, error) {
	txn, err := scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE org_id = $1 AND reversal_of = $2`,
		orgID, originalID,
	))
	if err != nil {
		return nil, err
	}

	txn.Entries, err = loadEntries(ctx, r.pool, txn.ID)
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// ListByStatus lists transactions in a status, newest first. Entries are not
// loaded for list views.
func (r *TransactionRepository) ListByStatus(ctx context.Context, orgID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE org_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		orgID, string(status), int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn            domain.Transaction
		txnType        string
		date           pgtype.Date
		status         string
		exchangeRate   pgtype.Numeric
		convertedTotal pgtype.Numeric
		reversalOf     *string
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.OrgID,
		&txn.Reference,
		&txnType,
		&date,
		&txn.Description,
		&status,
		&txn.Currency,
		&exchangeRate,
		&convertedTotal,
		&reversalOf,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	txn.Date = date.Time
	txn.Status = domain.TransactionStatus(status)
	txn.ExchangeRate = numericToDecimal(exchangeRate)
	txn.ConvertedTotal = numericToDecimal(convertedTotal)
	if reversalOf != nil {
		txn.ReversalOf = *reversalOf
	}
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}
