package models

import (
	"fmt"
	"strings"
	"time"
)

// FeeStatus names one of the three fee buckets.
type FeeStatus string

const (
	FeeStatusUnpaid  FeeStatus = "unpaid"
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusOverdue FeeStatus = "overdue"
)

// FeeStatusPriority is the order in which buckets decide a student's derived status.
var FeeStatusPriority = []FeeStatus{FeeStatusOverdue, FeeStatusPaid, FeeStatusUnpaid}

// ParseFeeStatus validates a status string coming from a client.
func ParseFeeStatus(s string) (FeeStatus, error) {
	switch st := FeeStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case FeeStatusUnpaid, FeeStatusPaid, FeeStatusOverdue:
		return st, nil
	default:
		return "", fmt.Errorf("unknown fee status %q", s)
	}
}

// Table returns the physical table backing the bucket.
func (s FeeStatus) Table() string {
	return "fees_" + string(s)
}

// FeeRecord is a row of one of the fee tables. Only paid rows carry a PaymentID
// and a Date that is always set; unpaid rows may carry the date the fee was raised.
type FeeRecord struct {
	ID        int64     `json:"id,omitempty" example:"7"`
	PaymentID int64     `json:"payment_id,omitempty" example:"12"`
	StudentID string    `json:"student_id" example:"STU-1001"`
	Name      string    `json:"name" example:"Amina Yusuf"`
	Amount    float64   `json:"amount" example:"150"`
	Date      *string   `json:"date,omitempty" example:"2026-09-01"`
	Status    FeeStatus `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// FeeStatusView is the derived per-student status returned by /fees/all.
type FeeStatusView struct {
	ID        int64     `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Course    string    `json:"course"`
	Status    FeeStatus `json:"status"`
	Amount    *float64  `json:"amount"`
	LastDate  *string   `json:"last_date"`
}

// FeeEventReason explains why a transition happened.
type FeeEventReason string

const (
	FeeEventEnrolment   FeeEventReason = "enrolment"
	FeeEventPayment     FeeEventReason = "payment"
	FeeEventMoveOverdue FeeEventReason = "move_overdue"
	FeeEventManual      FeeEventReason = "manual"
	FeeEventSweep       FeeEventReason = "sweep"
)

// FeeEvent is one entry of the transition audit log. FromStatus is nil when the
// student had no fee row before the transition.
type FeeEvent struct {
	ID         int64          `json:"id"`
	StudentID  string         `json:"student_id"`
	FromStatus *FeeStatus     `json:"from_status"`
	ToStatus   FeeStatus      `json:"to_status"`
	Amount     float64        `json:"amount"`
	Reason     FeeEventReason `json:"reason"`
	CreatedAt  time.Time      `json:"created_at"`
}
