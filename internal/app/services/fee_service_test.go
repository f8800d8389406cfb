package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
)

func daysAgo(n int) *string {
	return strPtr(helpers.FormatDate(fixedNow.AddDate(0, 0, -n)))
}

func TestFeeService_MarkPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-1", "Amina")

	rec, err := f.fees.MarkPaid(ctx, "STU-1", 150)
	require.NoError(t, err)
	assert.NotZero(t, rec.PaymentID)

	assert.Empty(t, f.bucket(t, models.FeeStatusUnpaid, "STU-1"))
	paid := f.bucket(t, models.FeeStatusPaid, "STU-1")
	require.Len(t, paid, 1)
	assert.Equal(t, 150.0, paid[0].Amount)
	assert.Equal(t, "Amina", paid[0].Name)
	require.NotNil(t, paid[0].Date)
	assert.Equal(t, "2026-10-19", *paid[0].Date)

	// a second payment is recorded as another row
	_, err = f.fees.MarkPaid(ctx, "STU-1", 150)
	require.NoError(t, err)
	assert.Len(t, f.bucket(t, models.FeeStatusPaid, "STU-1"), 2)
	assert.Empty(t, f.bucket(t, models.FeeStatusUnpaid, "STU-1"))
	assert.Empty(t, f.bucket(t, models.FeeStatusOverdue, "STU-1"))

	events, err := f.fees.GetEvents(ctx, "STU-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.NotNil(t, events[1].FromStatus)
	assert.Equal(t, models.FeeStatusUnpaid, *events[1].FromStatus)
	assert.Equal(t, models.FeeStatusPaid, events[1].ToStatus)
	assert.Equal(t, models.FeeEventPayment, events[1].Reason)
	require.NotNil(t, events[2].FromStatus)
	assert.Equal(t, models.FeeStatusPaid, *events[2].FromStatus)
}

func TestFeeService_MarkPaidFromOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-2", "Bo")

	_, err := f.fees.MoveToOverdue(ctx, "STU-2", 80)
	require.NoError(t, err)
	_, err = f.fees.MarkPaid(ctx, "STU-2", 80)
	require.NoError(t, err)

	assert.Empty(t, f.bucket(t, models.FeeStatusOverdue, "STU-2"))
	assert.Len(t, f.bucket(t, models.FeeStatusPaid, "STU-2"), 1)
}

func TestFeeService_UnknownStudentMutatesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-3", "Cy")
	f.publisher.events = nil

	_, err := f.fees.MoveToOverdue(ctx, "NOPE", 10)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	_, err = f.fees.MarkPaid(ctx, "NOPE", 10)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	_, err = f.fees.SetStatus(ctx, "NOPE", "paid", 10, "")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	for _, status := range models.FeeStatusPriority {
		records, err := f.fees.ListBucket(ctx, status)
		require.NoError(t, err)
		for _, rec := range records {
			assert.Equal(t, "STU-3", rec.StudentID)
		}
	}
	assert.Len(t, f.bucket(t, models.FeeStatusUnpaid, "STU-3"), 1)
	assert.Empty(t, f.publisher.events)
}

func TestFeeService_SetStatusOverdueFromPaid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-4", "Di")
	_, err := f.fees.MarkPaid(ctx, "STU-4", 100)
	require.NoError(t, err)

	_, err = f.fees.SetStatus(ctx, "STU-4", "overdue", 50, "")
	require.NoError(t, err)

	assert.Empty(t, f.bucket(t, models.FeeStatusPaid, "STU-4"))
	assert.Empty(t, f.bucket(t, models.FeeStatusUnpaid, "STU-4"))
	overdue := f.bucket(t, models.FeeStatusOverdue, "STU-4")
	require.Len(t, overdue, 1)
	assert.Equal(t, 50.0, overdue[0].Amount)
	assert.Nil(t, overdue[0].Date)
}

func TestFeeService_SetStatusPaidDate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-5", "Ed")

	rec, err := f.fees.SetStatus(ctx, "STU-5", "paid", 75, "2026-09-01")
	require.NoError(t, err)
	require.NotNil(t, rec.Date)
	assert.Equal(t, "2026-09-01", *rec.Date)

	rec, err = f.fees.SetStatus(ctx, "STU-5", "", 20, "")
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusUnpaid, rec.Status)
	assert.Empty(t, f.bucket(t, models.FeeStatusPaid, "STU-5"))
}

func TestFeeService_SetStatusRejectsBadInput(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-6", "Fay")

	_, err := f.fees.SetStatus(ctx, "STU-6", "refunded", 10, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFeeStatus)

	_, err = f.fees.SetStatus(ctx, "STU-6", "paid", 10, "19/10/2026")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFeeDate)

	assert.Len(t, f.bucket(t, models.FeeStatusUnpaid, "STU-6"), 1)
	assert.Empty(t, f.bucket(t, models.FeeStatusPaid, "STU-6"))
}

func TestFeeService_TransitionRollsBack(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-7", "Gus")

	fees := NewFeeService(failingStore{Store: f.store, fail: models.FeeStatusPaid}, f.publisher, 30, zerolog.Nop())
	_, err := fees.MarkPaid(ctx, "STU-7", 10)
	require.Error(t, err)

	assert.Len(t, f.bucket(t, models.FeeStatusUnpaid, "STU-7"), 1)
	assert.Empty(t, f.bucket(t, models.FeeStatusPaid, "STU-7"))
}

func TestFeeService_SweepOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "OLD", Name: "Old", Amount: 40, Date: daysAgo(40)})
	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "NEW", Name: "New", Amount: 10, Date: daysAgo(10)})
	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "EDGE", Name: "Edge", Amount: 30, Date: daysAgo(30)})
	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "BAD", Name: "Bad", Amount: 5, Date: strPtr("last week")})
	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "NODATE", Name: "None", Amount: 5})

	moved, err := f.fees.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	assert.Empty(t, f.bucket(t, models.FeeStatusUnpaid, "OLD"))
	overdue := f.bucket(t, models.FeeStatusOverdue, "OLD")
	require.Len(t, overdue, 1)
	assert.Equal(t, 40.0, overdue[0].Amount)
	assert.Equal(t, "Old", overdue[0].Name)

	for _, id := range []string{"NEW", "EDGE", "BAD", "NODATE"} {
		assert.Len(t, f.bucket(t, models.FeeStatusUnpaid, id), 1, id)
		assert.Empty(t, f.bucket(t, models.FeeStatusOverdue, id), id)
	}
}

func TestFeeService_SweepNameFallback(t *testing.T) {
	f := setup(t)
	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "ANON", Amount: 12, Date: daysAgo(60)})

	moved, err := f.fees.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	overdue := f.bucket(t, models.FeeStatusOverdue, "ANON")
	require.Len(t, overdue, 1)
	assert.Equal(t, UnknownStudentName, overdue[0].Name)
}

func TestFeeService_SweepCountsOnlySuccessfulMoves(t *testing.T) {
	f := setup(t)
	f.insertFee(t, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "OLD", Name: "Old", Amount: 40, Date: daysAgo(40)})

	fees := NewFeeService(failingStore{Store: f.store, fail: models.FeeStatusOverdue}, f.publisher, 30, zerolog.Nop())
	moved, err := fees.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	assert.Len(t, f.bucket(t, models.FeeStatusUnpaid, "OLD"), 1)
}

func TestFeeService_GetAllStatuses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.addStudent(t, "BOTH", "Both")
	f.insertFee(t, models.FeeStatusOverdue, &models.FeeRecord{StudentID: "BOTH", Name: "Both", Amount: 99})

	f.addStudent(t, "PAID", "Paid")
	_, err := f.fees.MarkPaid(ctx, "PAID", 25)
	require.NoError(t, err)

	f.addStudent(t, "UNPAID", "Unpaid")

	_, err = f.students.Submit(ctx, &models.Student{StudentID: "NONE"}, nil)
	require.NoError(t, err)

	views, err := f.fees.GetAllStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, views, 4)

	byID := map[string]*models.FeeStatusView{}
	for _, v := range views {
		byID[v.StudentID] = v
	}

	assert.Equal(t, models.FeeStatusOverdue, byID["BOTH"].Status)
	require.NotNil(t, byID["BOTH"].Amount)
	assert.Equal(t, 99.0, *byID["BOTH"].Amount)
	assert.Nil(t, byID["BOTH"].LastDate)

	assert.Equal(t, models.FeeStatusPaid, byID["PAID"].Status)
	require.NotNil(t, byID["PAID"].LastDate)
	assert.Equal(t, "2026-10-19", *byID["PAID"].LastDate)
	assert.Equal(t, "Mathematics", byID["PAID"].Course)

	assert.Equal(t, models.FeeStatusUnpaid, byID["UNPAID"].Status)
	require.NotNil(t, byID["UNPAID"].Amount)
	assert.Equal(t, 0.0, *byID["UNPAID"].Amount)

	assert.Equal(t, models.FeeStatusUnpaid, byID["NONE"].Status)
	assert.Nil(t, byID["NONE"].Amount)
}

func TestFeeService_PaymentHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addStudent(t, "STU-8", "Hal")

	f.insertFee(t, models.FeeStatusPaid, &models.FeeRecord{StudentID: "STU-8", Name: "Hal", Amount: 10, Date: strPtr("2026-08-01")})
	f.insertFee(t, models.FeeStatusPaid, &models.FeeRecord{StudentID: "STU-8", Name: "Hal", Amount: 20, Date: strPtr("2026-10-01")})

	history, err := f.fees.GetPaymentHistory(ctx, "STU-8")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-10-01", *history[0].Date)

	updated, err := f.fees.UpdatePayment(ctx, history[1].PaymentID, 15, "2026-08-02")
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.Amount)
	assert.Equal(t, "2026-08-02", *updated.Date)

	_, err = f.fees.UpdatePayment(ctx, history[1].PaymentID, 15, "bad")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFeeDate)

	require.NoError(t, f.fees.DeletePayment(ctx, history[0].PaymentID))
	assert.ErrorIs(t, f.fees.DeletePayment(ctx, history[0].PaymentID), apperrors.ErrPaymentNotFound)

	_, err = f.fees.UpdatePayment(ctx, 9999, 1, "2026-01-01")
	assert.ErrorIs(t, err, apperrors.ErrPaymentNotFound)

	history, err = f.fees.GetPaymentHistory(ctx, "STU-8")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
