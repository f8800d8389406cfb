package inmemdb

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

type studentRepository struct {
	db   *DB
	undo *undoLog
}

func (repo *studentRepository) Create(ctx context.Context, student *models.Student) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if student.StudentID != "" {
		for _, s := range repo.db.data.students {
			if s.StudentID == student.StudentID {
				return apperrors.ErrStudentIDAlreadyExists
			}
		}
	}

	repo.db.data.studentSeq++
	student.ID = repo.db.data.studentSeq
	student.CreatedAt = time.Now().UTC()
	repo.db.data.students = append(repo.db.data.students, *student)
	id := student.ID
	repo.undo.record(func(t *tables) { removeStudent(t, id) })
	return nil
}

func (repo *studentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]*models.Student, 0, len(repo.db.data.students))
	for i := range repo.db.data.students {
		s := repo.db.data.students[i]
		students = append(students, &s)
	}
	return students, nil
}

func (repo *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, s := range repo.db.data.students {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (repo *studentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, s := range repo.db.data.students {
		if s.StudentID == studentID {
			return &s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (repo *studentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*models.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for i := range repo.db.data.students {
		s := &repo.db.data.students[i]
		if s.ID != id {
			continue
		}
		updated := *s
		for column, value := range fields {
			if err := setStudentColumn(&updated, column, value); err != nil {
				return nil, err
			}
		}
		if updated.StudentID != s.StudentID && updated.StudentID != "" {
			for _, other := range repo.db.data.students {
				if other.ID != id && other.StudentID == updated.StudentID {
					return nil, apperrors.ErrStudentIDAlreadyExists
				}
			}
		}
		previous := *s
		*s = updated
		repo.undo.record(func(t *tables) { replaceStudent(t, previous) })
		out := updated
		return &out, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (repo *studentRepository) Delete(ctx context.Context, id int64) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for i, s := range repo.db.data.students {
		if s.ID == id {
			repo.db.data.students = append(repo.db.data.students[:i:i], repo.db.data.students[i+1:]...)
			repo.undo.record(func(t *tables) { restoreStudent(t, s) })
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (repo *studentRepository) Count(ctx context.Context) (int64, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return int64(len(repo.db.data.students)), nil
}

func setStudentColumn(s *models.Student, column string, value interface{}) error {
	var str string
	var isNull bool
	switch v := value.(type) {
	case nil:
		isNull = true
	case string:
		str = v
	default:
		str = fmt.Sprint(v)
	}

	switch column {
	case "student_id":
		s.StudentID = str
	case "name":
		s.Name = str
	case "father_name":
		s.FatherName = str
	case "gender":
		s.Gender = str
	case "email":
		s.Email = str
	case "phone":
		s.Phone = str
	case "phone2":
		s.Phone2 = str
	case "emergency_contact":
		s.EmergencyContact = str
	case "dob":
		s.DOB = str
	case "address":
		s.Address = str
	case "course":
		s.Course = str
	case "profile_pic_url":
		if isNull {
			s.ProfilePicURL = nil
		} else {
			s.ProfilePicURL = &str
		}
	default:
		return fmt.Errorf("column %q does not exist on students", column)
	}
	return nil
}
