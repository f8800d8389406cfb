package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// feeRepository handles the fees_unpaid, fees_paid and fees_overdue tables.
// The tables share student_id, name and amount; fees_paid is keyed by
// payment_id, and fees_overdue has no date column.
type feeRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

func keyColumn(status models.FeeStatus) string {
	if status == models.FeeStatusPaid {
		return "payment_id"
	}
	return "id"
}

func dateColumn(status models.FeeStatus) string {
	if status == models.FeeStatusOverdue {
		return "NULL::text"
	}
	return "date"
}

func feeSelectColumns(status models.FeeStatus) []string {
	return []string{
		keyColumn(status),
		"COALESCE(student_id, '')",
		"COALESCE(name, '')",
		"COALESCE(amount, 0)::float8",
		dateColumn(status),
		"created_at",
	}
}

func scanFee(row rowScanner, status models.FeeStatus) (*models.FeeRecord, error) {
	rec := &models.FeeRecord{Status: status}
	var key int64
	if err := row.Scan(&key, &rec.StudentID, &rec.Name, &rec.Amount, &rec.Date, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if status == models.FeeStatusPaid {
		rec.PaymentID = key
	} else {
		rec.ID = key
	}
	return rec, nil
}

func (r *feeRepository) query(ctx context.Context, status models.FeeStatus, builder squirrel.SelectBuilder) ([]*models.FeeRecord, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", status.Table(), err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", status.Table()).Msg("Error executing fee query")
		return nil, fmt.Errorf("error querying %s: %w", status.Table(), err)
	}
	defer rows.Close()

	records := []*models.FeeRecord{}
	for rows.Next() {
		rec, err := scanFee(rows, status)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", status.Table(), err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", status.Table(), err)
	}

	return records, nil
}

// GetAll returns every row of the bucket.
func (r *feeRepository) GetAll(ctx context.Context, status models.FeeStatus) ([]*models.FeeRecord, error) {
	return r.query(ctx, status, r.sb.Select(feeSelectColumns(status)...).
		From(status.Table()).
		OrderBy(keyColumn(status)+" ASC"))
}

// GetByStudent returns the bucket rows of one student. Paid rows come newest first.
func (r *feeRepository) GetByStudent(ctx context.Context, status models.FeeStatus, studentID string) ([]*models.FeeRecord, error) {
	builder := r.sb.Select(feeSelectColumns(status)...).
		From(status.Table()).
		Where(squirrel.Eq{"student_id": studentID})
	if status == models.FeeStatusPaid {
		builder = builder.OrderBy("date DESC", "payment_id DESC")
	} else {
		builder = builder.OrderBy("id ASC")
	}
	return r.query(ctx, status, builder)
}

// Insert adds a row to the bucket and fills in its key and creation time.
func (r *feeRepository) Insert(ctx context.Context, status models.FeeStatus, record *models.FeeRecord) error {
	columns := []string{"student_id", "name", "amount"}
	values := []interface{}{record.StudentID, record.Name, record.Amount}
	if record.Date != nil && status != models.FeeStatusOverdue {
		columns = append(columns, "date")
		values = append(values, *record.Date)
	}

	sql, args, err := r.sb.Insert(status.Table()).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + keyColumn(status) + ", created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert %s query: %w", status.Table(), err)
	}

	var key int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&key, &record.CreatedAt); err != nil {
		logger.Error().Err(err).Str("table", status.Table()).Str("studentID", record.StudentID).Msg("Error inserting fee row")
		return fmt.Errorf("error inserting into %s: %w", status.Table(), err)
	}

	record.Status = status
	if status == models.FeeStatusPaid {
		record.PaymentID = key
	} else {
		record.ID = key
	}
	if status == models.FeeStatusOverdue {
		record.Date = nil
	}
	return nil
}

// DeleteByStudent removes every row of the student from the bucket.
func (r *feeRepository) DeleteByStudent(ctx context.Context, status models.FeeStatus, studentID string) (int64, error) {
	sql, args, err := r.sb.Delete(status.Table()).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete %s query: %w", status.Table(), err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", status.Table()).Str("studentID", studentID).Msg("Error deleting fee rows")
		return 0, fmt.Errorf("error deleting from %s: %w", status.Table(), err)
	}

	return cmdTag.RowsAffected(), nil
}

// UpdateName rewrites the denormalized student name in the bucket.
func (r *feeRepository) UpdateName(ctx context.Context, status models.FeeStatus, studentID, name string) error {
	sql, args, err := r.sb.Update(status.Table()).
		Set("name", name).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update %s name query: %w", status.Table(), err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating name in %s: %w", status.Table(), err)
	}
	return nil
}

// UpdateStudentID moves the bucket rows of oldID to newID.
func (r *feeRepository) UpdateStudentID(ctx context.Context, status models.FeeStatus, oldID, newID string) error {
	sql, args, err := r.sb.Update(status.Table()).
		Set("student_id", newID).
		Where(squirrel.Eq{"student_id": oldID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update %s student_id query: %w", status.Table(), err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("table", status.Table()).Str("studentID", oldID).Msg("Error re-keying fee rows")
		return fmt.Errorf("error updating student_id in %s: %w", status.Table(), err)
	}
	return nil
}

// GetPayment returns one paid row.
func (r *feeRepository) GetPayment(ctx context.Context, paymentID int64) (*models.FeeRecord, error) {
	status := models.FeeStatusPaid
	sql, args, err := r.sb.Select(feeSelectColumns(status)...).
		From(status.Table()).
		Where(squirrel.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	rec, err := scanFee(r.db.QueryRow(ctx, sql, args...), status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error getting payment: %w", err)
	}
	return rec, nil
}

// UpdatePayment changes the amount and date of one paid row.
func (r *feeRepository) UpdatePayment(ctx context.Context, paymentID int64, amount float64, date string) (*models.FeeRecord, error) {
	status := models.FeeStatusPaid
	sql, args, err := r.sb.Update(status.Table()).
		SetMap(map[string]interface{}{
			"amount": amount,
			"date":   date,
		}).
		Where(squirrel.Eq{"payment_id": paymentID}).
		Suffix("RETURNING " + joinColumns(feeSelectColumns(status))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update payment query: %w", err)
	}

	rec, err := scanFee(r.db.QueryRow(ctx, sql, args...), status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		logger.Error().Err(err).Int64("paymentID", paymentID).Msg("Error updating payment")
		return nil, fmt.Errorf("error updating payment: %w", err)
	}
	return rec, nil
}

// DeletePayment removes one paid row.
func (r *feeRepository) DeletePayment(ctx context.Context, paymentID int64) error {
	sql, args, err := r.sb.Delete(models.FeeStatusPaid.Table()).
		Where(squirrel.Eq{"payment_id": paymentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete payment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("paymentID", paymentID).Msg("Error deleting payment")
		return fmt.Errorf("error deleting payment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}
	return nil
}
