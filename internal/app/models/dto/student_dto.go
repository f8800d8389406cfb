package dto

import "github.com/yigit/schooladmin/internal/app/models"

// SubmitStudentForm is the multipart form accepted by POST /submit. The
// profile_pic file part is read separately. Fields are stored as sent.
type SubmitStudentForm struct {
	StudentID        string `form:"student_id"`
	Name             string `form:"name"`
	FatherName       string `form:"father_name"`
	Gender           string `form:"gender"`
	Email            string `form:"email"`
	Phone            string `form:"phone"`
	Phone2           string `form:"phone2"`
	EmergencyContact string `form:"emergency_contact"`
	DOB              string `form:"dob"`
	Address          string `form:"address"`
	Course           string `form:"course"`
}

// ToModel converts the form into a student row.
func (f *SubmitStudentForm) ToModel() *models.Student {
	return &models.Student{
		StudentID:        f.StudentID,
		Name:             f.Name,
		FatherName:       f.FatherName,
		Gender:           f.Gender,
		Email:            f.Email,
		Phone:            f.Phone,
		Phone2:           f.Phone2,
		EmergencyContact: f.EmergencyContact,
		DOB:              f.DOB,
		Address:          f.Address,
		Course:           f.Course,
	}
}
