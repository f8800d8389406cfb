package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"

	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/repositories"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/filestorage"
)

// StudentService defines the student record operations
type StudentService interface {
	Submit(ctx context.Context, student *models.Student, photo *multipart.FileHeader) (*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	store     repositories.Store
	storage   filestorage.ObjectStorage
	scratch   *filestorage.Scratch
	publisher FeeEventPublisher
	logger    zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	store repositories.Store,
	storage filestorage.ObjectStorage,
	scratch *filestorage.Scratch,
	publisher FeeEventPublisher,
	logger zerolog.Logger,
) StudentService {
	if publisher == nil {
		publisher = NoopPublisher
	}
	return &studentServiceImpl{
		store:     store,
		storage:   storage,
		scratch:   scratch,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit stores a new student. An attached photo is uploaded first; when the
// upload fails the student is stored without a photo URL. A student with both
// student_id and name also gets an unpaid fee row of amount 0.
func (s *studentServiceImpl) Submit(ctx context.Context, student *models.Student, photo *multipart.FileHeader) (*models.Student, error) {
	if photo != nil && photo.Filename != "" {
		if url := s.uploadPhoto(ctx, photo); url != "" {
			student.ProfilePicURL = &url
		}
	}

	if err := s.store.Students().Create(ctx, student); err != nil {
		s.logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Failed to create student")
		return nil, err
	}
	s.logger.Info().Int64("id", student.ID).Str("studentID", student.StudentID).Msg("Student created")

	if student.StudentID != "" && student.Name != "" {
		s.createEnrolmentFee(ctx, student)
	}

	return student, nil
}

// uploadPhoto stages the file in the scratch directory and uploads it. It
// returns an empty URL on any failure.
func (s *studentServiceImpl) uploadPhoto(ctx context.Context, photo *multipart.FileHeader) string {
	if s.storage == nil || s.scratch == nil {
		s.logger.Warn().Msg("No object storage configured, skipping photo upload")
		return ""
	}

	name := filestorage.UniqueFilename(photo.Filename)
	path, err := s.scratch.Save(photo, name)
	if err != nil {
		s.logger.Warn().Err(err).Str("filename", photo.Filename).Msg("Failed to stage profile photo")
		return ""
	}
	defer s.scratch.Remove(path)

	url, err := s.storage.Upload(ctx, filestorage.ObjectPath(name), path, photo.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Warn().Err(err).Str("filename", photo.Filename).Msg("Profile photo upload failed, continuing without photo")
		return ""
	}
	return url
}

func (s *studentServiceImpl) createEnrolmentFee(ctx context.Context, student *models.Student) {
	date := today()
	var event *models.FeeEvent

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		rec := &models.FeeRecord{StudentID: student.StudentID, Name: student.Name, Amount: 0, Date: &date}
		if err := tx.Fees().Insert(ctx, models.FeeStatusUnpaid, rec); err != nil {
			return err
		}
		event = &models.FeeEvent{
			StudentID: student.StudentID,
			ToStatus:  models.FeeStatusUnpaid,
			Reason:    models.FeeEventEnrolment,
		}
		return tx.Events().Append(ctx, event)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Failed to add student to unpaid fees")
		return
	}
	s.publisher.PublishFeeEvent(event)
}

// GetAll returns every student.
func (s *studentServiceImpl) GetAll(ctx context.Context) ([]*models.Student, error) {
	students, err := s.store.Students().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

// NormalizeStudentFields checks an update payload against the student columns.
// Read-only columns are dropped, unknown columns are rejected and scalar values
// are converted to strings.
func NormalizeStudentFields(fields map[string]interface{}) (map[string]interface{}, error) {
	normalized := make(map[string]interface{}, len(fields))
	var unknown []string

	for key, value := range fields {
		if models.StudentReadOnlyColumns[key] {
			continue
		}
		if !models.StudentUpdatableColumns[key] {
			unknown = append(unknown, key)
			continue
		}
		switch v := value.(type) {
		case nil, string:
			normalized[key] = v
		case map[string]interface{}, []interface{}:
			return nil, apperrors.NewValidationError("Invalid field value", map[string]interface{}{
				key: "must be a string, number, boolean or null",
			})
		default:
			normalized[key] = fmt.Sprint(v)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		details := make(map[string]interface{}, len(unknown))
		for _, key := range unknown {
			details[key] = "unknown field"
		}
		return nil, apperrors.NewValidationError("Unknown student fields", details)
	}
	return normalized, nil
}

// Update applies a partial update to the student with the given primary key.
// A student_id change re-keys the student's fee rows in the same transaction,
// and clearing a set student_id is rejected. A name change is copied to the fee
// rows afterwards; failures there are logged only.
func (s *studentServiceImpl) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error) {
	normalized, err := NormalizeStudentFields(fields)
	if err != nil {
		return nil, err
	}

	var existing, updated *models.Student
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		if existing, err = tx.Students().GetByID(ctx, id); err != nil {
			return err
		}
		if v, ok := normalized["student_id"]; ok && existing.StudentID != "" && (v == nil || v == "") {
			return apperrors.NewValidationError("student_id cannot be cleared", map[string]interface{}{
				"student_id": "fee rows are keyed on it",
			})
		}
		if updated, err = tx.Students().Update(ctx, id, normalized); err != nil {
			return err
		}
		if existing.StudentID == "" || updated.StudentID == existing.StudentID {
			return nil
		}
		for _, status := range models.FeeStatusPriority {
			if err := tx.Fees().UpdateStudentID(ctx, status, existing.StudentID, updated.StudentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrStudentNotFound) &&
			!errors.Is(err, apperrors.ErrValidationFailed) &&
			!errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			s.logger.Error().Err(err).Int64("id", id).Msg("Failed to update student")
		}
		return nil, err
	}

	if updated.StudentID != existing.StudentID {
		s.logger.Info().
			Str("from", existing.StudentID).
			Str("to", updated.StudentID).
			Msg("Student fee rows re-keyed")
	}

	if name, ok := normalized["name"]; ok && updated.StudentID != "" {
		newName, _ := name.(string)
		for _, status := range models.FeeStatusPriority {
			if err := s.store.Fees().UpdateName(ctx, status, updated.StudentID, newName); err != nil {
				s.logger.Warn().Err(err).
					Str("studentID", updated.StudentID).
					Str("table", status.Table()).
					Msg("Failed to propagate student name to fee table")
			}
		}
	}

	return updated, nil
}

// Delete removes the student and every fee row with the student's student_id.
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		student, err := tx.Students().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Students().Delete(ctx, id); err != nil {
			return err
		}
		if student.StudentID == "" {
			return nil
		}
		for _, status := range models.FeeStatusPriority {
			if _, err := tx.Fees().DeleteByStudent(ctx, status, student.StudentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info().Int64("id", id).Msg("Student deleted")
	return nil
}

// Count returns the number of students. It backs the health check.
func (s *studentServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.store.Students().Count(ctx)
}
