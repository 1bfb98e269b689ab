package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"listingrelay/internal/types"
)

// EmailLogRepository provides data access for the email_logs table. The
// table is append-only: records are inserted once per dispatch attempt and
// never updated afterwards.
type EmailLogRepository struct {
	db DBTX
}

// NewEmailLogRepository creates a new EmailLogRepository backed by the
// given database connection (pool or transaction).
func NewEmailLogRepository(db DBTX) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

const emailLogColumns = `id, order_id, customer_email, customer_name, property_title,
	email_subject, email_content, email_type, status, resend_message_id,
	sent_at, created_at, updated_at`

// Insert writes one log record. If the ID is empty a UUID is generated.
// CreatedAt and UpdatedAt are set by the database.
func (r *EmailLogRepository) Insert(ctx context.Context, log *types.EmailLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO email_logs
		 (id, order_id, customer_email, customer_name, property_title,
		  email_subject, email_content, email_type, status, resend_message_id,
		  sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		log.ID,
		log.OrderID,
		log.CustomerEmail,
		log.CustomerName,
		log.PropertyTitle,
		log.EmailSubject,
		log.EmailContent,
		string(log.EmailType),
		string(log.Status),
		nilIfEmpty(log.ResendMessageID),
		log.SentAt,
	)
	if err := row.Scan(&log.CreatedAt, &log.UpdatedAt); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to insert email log", err)
	}
	return nil
}

// List retrieves log records matching the filter, newest first. The limit
// defaults to 50 and is capped at 200.
func (r *EmailLogRepository) List(ctx context.Context, filter types.EmailLogFilter) ([]*types.EmailLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var conditions []string
	var args []any
	argIdx := 1

	if filter.OrderID != "" {
		conditions = append(conditions, fmt.Sprintf("order_id = $%d", argIdx))
		args = append(args, filter.OrderID)
		argIdx++
	}
	if filter.CustomerEmail != "" {
		conditions = append(conditions, fmt.Sprintf("customer_email = $%d", argIdx))
		args = append(args, filter.CustomerEmail)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(filter.Status))
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM email_logs %s ORDER BY created_at DESC LIMIT $%d`,
		emailLogColumns, whereClause, argIdx,
	)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list email logs", err)
	}
	defer rows.Close()

	var results []*types.EmailLog
	for rows.Next() {
		log, scanErr := scanEmailLog(rows)
		if scanErr != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan email log row", scanErr)
		}
		results = append(results, log)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating email log rows", err)
	}

	return results, nil
}

// GetByID retrieves a single log record. Returns a not-found AppError when
// no row matches.
func (r *EmailLogRepository) GetByID(ctx context.Context, id string) (*types.EmailLog, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM email_logs WHERE id = $1`, emailLogColumns),
		id,
	)

	log, err := scanEmailLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundEmailLog, "email log not found", err)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to get email log", err)
	}
	return log, nil
}

// scanEmailLog reads one email_logs row from either a pgx.Row or pgx.Rows.
func scanEmailLog(row pgx.Row) (*types.EmailLog, error) {
	var log types.EmailLog
	var emailType, status string
	var messageID *string
	var sentAt *time.Time

	err := row.Scan(
		&log.ID,
		&log.OrderID,
		&log.CustomerEmail,
		&log.CustomerName,
		&log.PropertyTitle,
		&log.EmailSubject,
		&log.EmailContent,
		&emailType,
		&status,
		&messageID,
		&sentAt,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.EmailType = types.EmailType(emailType)
	log.Status = types.EmailStatus(status)
	if messageID != nil {
		log.ResendMessageID = *messageID
	}
	log.SentAt = sentAt

	return &log, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
