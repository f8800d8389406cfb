package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
)

// UnknownStudentName is written to overdue rows whose unpaid row had no name.
const UnknownStudentName = "Unknown"

// FeeService defines the fee bucket operations
type FeeService interface {
	ListBucket(ctx context.Context, status models.FeeStatus) ([]*models.FeeRecord, error)
	GetAllStatuses(ctx context.Context) ([]*models.FeeStatusView, error)
	MarkPaid(ctx context.Context, studentID string, amount float64) (*models.FeeRecord, error)
	MoveToOverdue(ctx context.Context, studentID string, amount float64) (*models.FeeRecord, error)
	SetStatus(ctx context.Context, studentID, status string, amount float64, date string) (*models.FeeRecord, error)
	SweepOverdue(ctx context.Context) (int, error)
	GetPaymentHistory(ctx context.Context, studentID string) ([]*models.FeeRecord, error)
	UpdatePayment(ctx context.Context, paymentID int64, amount float64, date string) (*models.FeeRecord, error)
	DeletePayment(ctx context.Context, paymentID int64) error
	GetEvents(ctx context.Context, studentID string) ([]*models.FeeEvent, error)
}

// feeServiceImpl implements FeeService
type feeServiceImpl struct {
	store            repositories.Store
	publisher        FeeEventPublisher
	overdueAfterDays int
	logger           zerolog.Logger
}

// NewFeeService creates a new FeeService. Unpaid rows older than overdueAfterDays
// whole days are moved by SweepOverdue.
func NewFeeService(
	store repositories.Store,
	publisher FeeEventPublisher,
	overdueAfterDays int,
	logger zerolog.Logger,
) FeeService {
	if publisher == nil {
		publisher = NoopPublisher
	}
	return &feeServiceImpl{
		store:            store,
		publisher:        publisher,
		overdueAfterDays: overdueAfterDays,
		logger:           logger,
	}
}

// ListBucket returns every row of one bucket.
func (s *feeServiceImpl) ListBucket(ctx context.Context, status models.FeeStatus) ([]*models.FeeRecord, error) {
	records, err := s.store.Fees().GetAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("error listing %s fees: %w", status, err)
	}
	return records, nil
}

// GetAllStatuses derives one status per student. The first row found for the
// student in the overdue, paid and unpaid buckets, in that order, wins.
func (s *feeServiceImpl) GetAllStatuses(ctx context.Context) ([]*models.FeeStatusView, error) {
	students, err := s.store.Students().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	buckets := make(map[models.FeeStatus][]*models.FeeRecord, len(models.FeeStatusPriority))
	for _, status := range models.FeeStatusPriority {
		records, err := s.store.Fees().GetAll(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("error listing %s fees: %w", status, err)
		}
		buckets[status] = records
	}

	views := make([]*models.FeeStatusView, 0, len(students))
	for _, student := range students {
		view := &models.FeeStatusView{
			ID:        student.ID,
			StudentID: student.StudentID,
			Name:      student.Name,
			Course:    student.Course,
			Status:    models.FeeStatusUnpaid,
		}
		for _, status := range models.FeeStatusPriority {
			entry := firstFor(buckets[status], student.StudentID)
			if entry == nil {
				continue
			}
			amount := entry.Amount
			view.Status = status
			view.Amount = &amount
			if status == models.FeeStatusPaid && entry.Date != nil {
				date := *entry.Date
				view.LastDate = &date
			}
			break
		}
		views = append(views, view)
	}
	return views, nil
}

func firstFor(records []*models.FeeRecord, studentID string) *models.FeeRecord {
	for _, rec := range records {
		if rec.StudentID == studentID {
			return rec
		}
	}
	return nil
}

// currentStatus returns the highest priority bucket holding the student, or nil.
func currentStatus(ctx context.Context, fees repositories.FeeRepository, studentID string) (*models.FeeStatus, error) {
	for _, status := range models.FeeStatusPriority {
		records, err := fees.GetByStudent(ctx, status, studentID)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return statusPtr(status), nil
		}
	}
	return nil, nil
}

// transition clears the given buckets and inserts one row into target, all in
// one transaction together with the audit event.
func (s *feeServiceImpl) transition(
	ctx context.Context,
	studentID string,
	clearBuckets []models.FeeStatus,
	target models.FeeStatus,
	amount float64,
	date *string,
	reason models.FeeEventReason,
) (*models.FeeRecord, error) {
	var record *models.FeeRecord
	var event *models.FeeEvent

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		student, err := tx.Students().GetByStudentID(ctx, studentID)
		if err != nil {
			return err
		}

		from, err := currentStatus(ctx, tx.Fees(), studentID)
		if err != nil {
			return fmt.Errorf("error reading current fee status: %w", err)
		}

		for _, status := range clearBuckets {
			if _, err := tx.Fees().DeleteByStudent(ctx, status, studentID); err != nil {
				return err
			}
		}

		record = &models.FeeRecord{
			StudentID: studentID,
			Name:      student.Name,
			Amount:    amount,
			Date:      date,
		}
		if err := tx.Fees().Insert(ctx, target, record); err != nil {
			return err
		}

		event = &models.FeeEvent{
			StudentID:  studentID,
			FromStatus: from,
			ToStatus:   target,
			Amount:     amount,
			Reason:     reason,
		}
		return tx.Events().Append(ctx, event)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			s.logger.Error().Err(err).
				Str("studentID", studentID).
				Str("target", string(target)).
				Msg("Fee transition failed")
		}
		return nil, err
	}

	s.logger.Info().
		Str("studentID", studentID).
		Str("to", string(target)).
		Str("reason", string(reason)).
		Float64("amount", amount).
		Msg("Fee transition committed")
	s.publisher.PublishFeeEvent(event)
	return record, nil
}

// MarkPaid moves the student from unpaid or overdue to paid with today's date.
// Each call records a new payment.
func (s *feeServiceImpl) MarkPaid(ctx context.Context, studentID string, amount float64) (*models.FeeRecord, error) {
	date := today()
	return s.transition(ctx, studentID,
		[]models.FeeStatus{models.FeeStatusUnpaid, models.FeeStatusOverdue},
		models.FeeStatusPaid, amount, &date, models.FeeEventPayment)
}

// MoveToOverdue moves the student from unpaid to overdue.
func (s *feeServiceImpl) MoveToOverdue(ctx context.Context, studentID string, amount float64) (*models.FeeRecord, error) {
	return s.transition(ctx, studentID,
		[]models.FeeStatus{models.FeeStatusUnpaid},
		models.FeeStatusOverdue, amount, nil, models.FeeEventMoveOverdue)
}

// SetStatus places the student in the given bucket and clears the other two.
// An empty status means unpaid. Paid and unpaid rows get today's date when
// date is empty.
func (s *feeServiceImpl) SetStatus(ctx context.Context, studentID, status string, amount float64, date string) (*models.FeeRecord, error) {
	target := models.FeeStatusUnpaid
	if strings.TrimSpace(status) != "" {
		parsed, err := models.ParseFeeStatus(status)
		if err != nil {
			return nil, apperrors.ErrInvalidFeeStatus
		}
		target = parsed
	}

	var datePtr *string
	if target != models.FeeStatusOverdue {
		if date == "" {
			date = today()
		} else if _, err := helpers.ParseDate(date); err != nil {
			return nil, apperrors.ErrInvalidFeeDate
		}
		datePtr = &date
	}

	clearBuckets := make([]models.FeeStatus, 0, 2)
	for _, st := range models.FeeStatusPriority {
		if st != target {
			clearBuckets = append(clearBuckets, st)
		}
	}

	return s.transition(ctx, studentID, clearBuckets, target, amount, datePtr, models.FeeEventManual)
}

// SweepOverdue moves unpaid rows whose date is more than overdueAfterDays whole
// days old into overdue. Rows without a parseable date are left alone. Each row
// moves in its own transaction and a failed move is logged and skipped.
func (s *feeServiceImpl) SweepOverdue(ctx context.Context) (int, error) {
	unpaid, err := s.store.Fees().GetAll(ctx, models.FeeStatusUnpaid)
	if err != nil {
		return 0, fmt.Errorf("error listing unpaid fees: %w", err)
	}

	now := timeNow()
	moved := 0
	done := make(map[string]bool)

	for _, fee := range unpaid {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		if fee.Date == nil || *fee.Date == "" || done[fee.StudentID] {
			continue
		}

		feeDate, err := helpers.ParseDate(*fee.Date)
		if err != nil {
			s.logger.Debug().Str("studentID", fee.StudentID).Str("date", *fee.Date).Msg("Skipping unpaid fee with unparseable date")
			continue
		}
		if helpers.WholeDaysBetween(feeDate, now) <= s.overdueAfterDays {
			continue
		}

		name := fee.Name
		if strings.TrimSpace(name) == "" {
			name = UnknownStudentName
		}

		var event *models.FeeEvent
		err = s.store.WithTx(ctx, func(tx repositories.Store) error {
			rec := &models.FeeRecord{StudentID: fee.StudentID, Name: name, Amount: fee.Amount}
			if err := tx.Fees().Insert(ctx, models.FeeStatusOverdue, rec); err != nil {
				return err
			}
			if _, err := tx.Fees().DeleteByStudent(ctx, models.FeeStatusUnpaid, fee.StudentID); err != nil {
				return err
			}
			event = &models.FeeEvent{
				StudentID:  fee.StudentID,
				FromStatus: statusPtr(models.FeeStatusUnpaid),
				ToStatus:   models.FeeStatusOverdue,
				Amount:     fee.Amount,
				Reason:     models.FeeEventSweep,
			}
			return tx.Events().Append(ctx, event)
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("studentID", fee.StudentID).Msg("Failed to move unpaid fee to overdue")
			continue
		}

		done[fee.StudentID] = true
		moved++
		s.publisher.PublishFeeEvent(event)
	}

	s.logger.Info().Int("moved", moved).Int("scanned", len(unpaid)).Msg("Overdue sweep finished")
	return moved, nil
}

// GetPaymentHistory returns the paid rows of a student, newest first.
func (s *feeServiceImpl) GetPaymentHistory(ctx context.Context, studentID string) ([]*models.FeeRecord, error) {
	records, err := s.store.Fees().GetByStudent(ctx, models.FeeStatusPaid, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting payment history: %w", err)
	}
	return records, nil
}

// UpdatePayment changes amount and date of one payment.
func (s *feeServiceImpl) UpdatePayment(ctx context.Context, paymentID int64, amount float64, date string) (*models.FeeRecord, error) {
	if _, err := helpers.ParseDate(date); err != nil {
		return nil, apperrors.ErrInvalidFeeDate
	}

	record, err := s.store.Fees().UpdatePayment(ctx, paymentID, amount, date)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("paymentID", paymentID).Float64("amount", amount).Str("date", date).Msg("Payment updated")
	return record, nil
}

// DeletePayment removes one payment.
func (s *feeServiceImpl) DeletePayment(ctx context.Context, paymentID int64) error {
	if err := s.store.Fees().DeletePayment(ctx, paymentID); err != nil {
		return err
	}
	s.logger.Info().Int64("paymentID", paymentID).Msg("Payment deleted")
	return nil
}

// GetEvents returns the transition log of a student.
func (s *feeServiceImpl) GetEvents(ctx context.Context, studentID string) ([]*models.FeeEvent, error) {
	events, err := s.store.Events().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting fee events: %w", err)
	}
	return events, nil
}
