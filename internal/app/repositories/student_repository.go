package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/dberrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

const studentIDUniqueConstraint = "students_student_id_key"

// studentSelectColumns reads text columns through COALESCE so rows written by
// other clients with NULLs still scan into plain strings.
var studentSelectColumns = []string{
	"id",
	"COALESCE(student_id, '')",
	"COALESCE(name, '')",
	"COALESCE(father_name, '')",
	"COALESCE(gender, '')",
	"COALESCE(email, '')",
	"COALESCE(phone, '')",
	"COALESCE(phone2, '')",
	"COALESCE(emergency_contact, '')",
	"COALESCE(dob, '')",
	"COALESCE(address, '')",
	"COALESCE(course, '')",
	"profile_pic_url",
	"created_at",
}

// studentRepository handles student database operations
type studentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.Name,
		&s.FatherName,
		&s.Gender,
		&s.Email,
		&s.Phone,
		&s.Phone2,
		&s.EmergencyContact,
		&s.DOB,
		&s.Address,
		&s.Course,
		&s.ProfilePicURL,
		&s.CreatedAt,
	)
	return s, err
}

// nullIfEmpty stores absent form fields as NULL.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a student and fills in the generated ID and creation time.
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "name", "father_name", "gender", "email", "phone", "phone2",
			"emergency_contact", "dob", "address", "course", "profile_pic_url").
		Values(
			nullIfEmpty(student.StudentID),
			nullIfEmpty(student.Name),
			nullIfEmpty(student.FatherName),
			nullIfEmpty(student.Gender),
			nullIfEmpty(student.Email),
			nullIfEmpty(student.Phone),
			nullIfEmpty(student.Phone2),
			nullIfEmpty(student.EmergencyContact),
			nullIfEmpty(student.DOB),
			nullIfEmpty(student.Address),
			nullIfEmpty(student.Course),
			student.ProfilePicURL,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentIDUniqueConstraint) {
			return apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetAll returns every student row.
func (r *studentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentSelectColumns...).
		From("students").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// GetByID retrieves a student by the store's primary key.
func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByStudentID retrieves the first student with the given external identifier.
func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"student_id": studentID})
}

func (r *studentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentSelectColumns...).
		From("students").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	return student, nil
}

// Update applies the column map to the row and returns the result.
func (r *studentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("students").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(studentSelectColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, studentIDUniqueConstraint) {
			return nil, apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}

// Delete removes the student row.
func (r *studentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Count returns the number of student rows.
func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return count, nil
}
