package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schooladmin/internal/app/models"
)

// feeEventRepository writes and reads the fee_events audit table.
type feeEventRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// Append stores a transition and fills in its ID and timestamp.
func (r *feeEventRepository) Append(ctx context.Context, event *models.FeeEvent) error {
	var from interface{}
	if event.FromStatus != nil {
		from = string(*event.FromStatus)
	}

	sql, args, err := r.sb.Insert("fee_events").
		Columns("student_id", "from_status", "to_status", "amount", "reason").
		Values(event.StudentID, from, string(event.ToStatus), event.Amount, string(event.Reason)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build append fee event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt); err != nil {
		return fmt.Errorf("error appending fee event: %w", err)
	}
	return nil
}

// GetByStudent returns the student's transitions, oldest first.
func (r *feeEventRepository) GetByStudent(ctx context.Context, studentID string) ([]*models.FeeEvent, error) {
	sql, args, err := r.sb.Select("id", "student_id", "from_status", "to_status", "amount::float8", "reason", "created_at").
		From("fee_events").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get fee events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying fee events: %w", err)
	}
	defer rows.Close()

	events := []*models.FeeEvent{}
	for rows.Next() {
		ev := &models.FeeEvent{}
		var from *string
		var to, reason string
		if err := rows.Scan(&ev.ID, &ev.StudentID, &from, &to, &ev.Amount, &reason, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning fee event row: %w", err)
		}
		if from != nil {
			st := models.FeeStatus(*from)
			ev.FromStatus = &st
		}
		ev.ToStatus = models.FeeStatus(to)
		ev.Reason = models.FeeEventReason(reason)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee event rows: %w", err)
	}
	return events, nil
}
