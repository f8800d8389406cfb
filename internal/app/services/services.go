package services

import (
	"time"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
)

// Services defined in this package:
// - StudentService: student records, profile photo upload and enrolment fee
// - FeeService: fee buckets, state transitions, payment history and the overdue sweep

// timeNow is replaced in tests.
var timeNow = time.Now

func today() string {
	return helpers.FormatDate(timeNow())
}

// FeeEventPublisher receives every committed fee transition.
type FeeEventPublisher interface {
	PublishFeeEvent(event *models.FeeEvent)
}

type noopPublisher struct{}

func (noopPublisher) PublishFeeEvent(*models.FeeEvent) {}

// NoopPublisher drops every event.
var NoopPublisher FeeEventPublisher = noopPublisher{}

func statusPtr(s models.FeeStatus) *models.FeeStatus {
	return &s
}
