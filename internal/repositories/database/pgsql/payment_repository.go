package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crestlinehq/ledgerengine/internal/apperrors"
	"github.com/crestlinehq/ledgerengine/internal/core/domain"
	portsrepo "github.com/crestlinehq/ledgerengine/internal/core/ports/repositories"
	"github.com/crestlinehq/ledgerengine/internal/models"
	"github.com/crestlinehq/ledgerengine/internal/utils/mapping"
	"github.com/crestlinehq/ledgerengine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const paymentColumns = `payment_id, payment_number, payment_type, method, payment_date, party_name, amount, reference, status, bank_account_id, entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	pool *pgxpool.Pool
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{pool: pool}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgxRow) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.PaymentNumber,
		&m.PaymentType,
		&m.Method,
		&m.PaymentDate,
		&m.PartyName,
		&m.Amount,
		&m.Reference,
		&m.Status,
		&m.BankAccountID,
		&m.EntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`

	m, err := scanPayment(r.pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	d := mapping.ToDomainPayment(m)
	return &d, nil
}

// ListPayments retrieves payments, optionally filtered by bank account,
// newest first with token pagination keyed on (payment_date, created_at).
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, bankAccountID string, limit int, nextToken string) ([]domain.Payment, string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1 = 1`
	args := []any{}
	if bankAccountID != "" {
		args = append(args, bankAccountID)
		query += fmt.Sprintf(` AND bank_account_id = $%d`, len(args))
	}
	if nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, lastDate, lastCreatedAt)
		query += fmt.Sprintf(` AND (payment_date, created_at) < ($%d, $%d)`, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY payment_date DESC, created_at DESC LIMIT $%d;`, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating payment rows: %w", rows.Err())
	}

	var token string
	if len(payments) > limit {
		payments = payments[:limit]
		last := payments[len(payments)-1]
		token = pagination.EncodeToken(last.PaymentDate, last.CreatedAt)
	}
	return payments, token, nil
}

// FindMatchablePayment returns the single confirmed, unlinked payment on the
// bank account with the given direction and amount dated within [from, to].
// LIMIT 2 distinguishes "exactly one" from "more than one".
func (r *PgxPaymentRepository) FindMatchablePayment(ctx context.Context, bankAccountID string, paymentType domain.PaymentType, amount decimal.Decimal, from, to time.Time) (*domain.Payment, error) {
	query := `
		SELECT ` + prefixColumns("p", paymentColumns) + `
		FROM payments p
		WHERE p.bank_account_id = $1
		  AND p.payment_type = $2
		  AND p.amount = $3
		  AND p.status = 'CONFIRMED'
		  AND p.payment_date >= $4 AND p.payment_date <= $5
		  AND NOT EXISTS (
		      SELECT 1 FROM bank_statement_lines b WHERE b.matched_payment_id = p.payment_id
		  )
		ORDER BY p.payment_date, p.payment_id
		LIMIT 2;
	`

	rows, err := r.pool.Query(ctx, query, bankAccountID, string(paymentType), amount, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchable payments: %w", err)
	}
	defer rows.Close()

	candidates := []models.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matchable payment row: %w", err)
		}
		candidates = append(candidates, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating matchable payment rows: %w", rows.Err())
	}

	switch len(candidates) {
	case 0:
		return nil, apperrors.ErrNotFound
	case 1:
		p := mapping.ToDomainPayment(candidates[0])
		return &p, nil
	default:
		return nil, fmt.Errorf("%w: multiple payments match amount %s", apperrors.ErrConflict, amount.String())
	}
}

// NextPaymentNumber reserves the next sequential payment number.
func (r *PgxPaymentRepository) NextPaymentNumber(ctx context.Context) (string, error) {
	number, err := nextNumber(ctx, r.pool, "payment_number_seq", "PAY")
	if err != nil {
		return "", fmt.Errorf("failed to reserve payment number: %w", err)
	}
	return number, nil
}

// SavePayment inserts a new payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, p domain.Payment) error {
	m := mapping.ToModelPayment(p)

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PaymentID,
		m.PaymentNumber,
		m.PaymentType,
		m.Method,
		m.PaymentDate,
		m.PartyName,
		m.Amount,
		m.Reference,
		m.Status,
		m.BankAccountID,
		m.EntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, m.PaymentNumber)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// UpdatePaymentStatus moves a payment between workflow states.
func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, userID string, now time.Time) error {
	query := `
		UPDATE payments
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, paymentID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of payment %s: %w", paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
