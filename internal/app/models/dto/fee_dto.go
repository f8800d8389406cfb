package dto

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Amount accepts a JSON number or a numeric string.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("amount must be a number")
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount, zero for nil.
func (a *Amount) Float() float64 {
	if a == nil {
		return 0
	}
	return float64(*a)
}

// FeeTransitionRequest is the body of /fees/pay and /fees/move_overdue.
type FeeTransitionRequest struct {
	StudentID string  `json:"student_id" validate:"required" example:"STU-1001"`
	Amount    *Amount `json:"amount" validate:"required" swaggertype:"number" example:"150"`
}

// AddFeeRequest is the body of /fees/add. Status defaults to unpaid; the
// service rejects anything outside unpaid, paid and overdue.
type AddFeeRequest struct {
	StudentID string  `json:"student_id" validate:"required" example:"STU-1001"`
	Amount    *Amount `json:"amount" validate:"required" swaggertype:"number" example:"150"`
	Status    string  `json:"status" example:"paid" enums:"unpaid,paid,overdue"`
	Date      string  `json:"date,omitempty" example:"2026-10-19"`
}

// UpdatePaymentRequest is the body of PUT /fees/update/{payment_id}.
type UpdatePaymentRequest struct {
	Amount *Amount `json:"amount" validate:"required" swaggertype:"number" example:"150"`
	Date   string  `json:"date" validate:"required,datetime=2006-01-02" example:"2026-10-19"`
}
