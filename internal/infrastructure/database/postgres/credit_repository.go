package postgres

import (
	"context"
	"credit-application-system/internal/domain/credit"
	"credit-application-system/internal/infrastructure/monitoring"
	"credit-application-system/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const creditColumns = `id, credit_code, credit_value, day_first_installment, number_of_installments, status, customer_id, created_at`

type CreditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ credit.Repository = (*CreditRepository)(nil)

func NewCreditRepository(db DBPool, logger *slog.Logger) *CreditRepository {
	return &CreditRepository{db: db, logger: logger.With("component", "CreditRepository")}
}

func (r *CreditRepository) Save(ctx context.Context, c *credit.Credit) (err error) {
	if c == nil {
		return fmt.Errorf("%w: credit cannot be nil", apperrors.ErrInvalidArgument)
	}

	start := time.Now()
	defer func() { monitoring.RecordDBQuery("CreateCredit", err, time.Since(start)) }()

	log := r.logger.With(slog.Int64("customerID", c.CustomerID), slog.String("creditCode", c.CreditCode.String()))
	log.InfoContext(ctx, "Attempting to insert new credit")

	query := `
        INSERT INTO credits (credit_code, credit_value, day_first_installment, number_of_installments, status, customer_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at`

	err = r.db.QueryRow(ctx, query,
		c.CreditCode,
		c.CreditValue,
		c.DayFirstInstallment,
		c.NumberOfInstallments,
		string(c.Status),
		c.CustomerID,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		translatedErr := translateDBError(err, log)
		if errors.Is(translatedErr, apperrors.ErrNotFound) || errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			return translatedErr
		}
		log.ErrorContext(ctx, "Failed to insert credit", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert credit: %w", apperrors.ErrDatabase, err)
	}

	log.InfoContext(ctx, "Credit inserted successfully", slog.Int64("creditID", c.ID))
	return nil
}

func (r *CreditRepository) FindByCreditCode(ctx context.Context, code uuid.UUID) (_ *credit.Credit, err error) {
	start := time.Now()
	defer func() { monitoring.RecordDBQuery("FindCreditByCode", err, time.Since(start)) }()

	query := `SELECT ` + creditColumns + ` FROM credits WHERE credit_code = $1`

	c, err := scanCredit(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Credit not found", slog.String("creditCode", code.String()))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan credit by code", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get credit by code: %w", apperrors.ErrDatabase, err)
	}
	return c, nil
}

func (r *CreditRepository) FindAllByCustomerID(ctx context.Context, customerID int64) (_ []*credit.Credit, err error) {
	start := time.Now()
	defer func() { monitoring.RecordDBQuery("FindCreditsByCustomer", err, time.Since(start)) }()

	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Attempting to list credits for customer")

	query := `SELECT ` + creditColumns + ` FROM credits WHERE customer_id = $1 ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query credits", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query credits: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	credits := make([]*credit.Credit, 0)
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan credit row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan credit row: %w", apperrors.ErrDatabase, err)
		}
		credits = append(credits, c)
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating credit rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating credit rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished listing credits", slog.Int("count", len(credits)))
	return credits, nil
}

func (r *CreditRepository) DeleteAll(ctx context.Context) error {
	r.logger.WarnContext(ctx, "Deleting all credits")

	if _, err := r.db.Exec(ctx, `DELETE FROM credits`); err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete all credits", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete all credits: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func scanCredit(row pgx.Row) (*credit.Credit, error) {
	var c credit.Credit
	var status string
	err := row.Scan(
		&c.ID,
		&c.CreditCode,
		&c.CreditValue,
		&c.DayFirstInstallment,
		&c.NumberOfInstallments,
		&status,
		&c.CustomerID,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = credit.Status(status)
	return &c, nil
}
