package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID               int64     `json:"id" db:"id" example:"1"`                        // Store-assigned primary key
	StudentID        string    `json:"student_id" db:"student_id" example:"STU-1001"` // Caller-supplied identifier, referenced by fee rows
	Name             string    `json:"name" db:"name" example:"Amina Yusuf"`
	FatherName       string    `json:"father_name" db:"father_name"`
	Gender           string    `json:"gender" db:"gender"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	Phone2           string    `json:"phone2" db:"phone2"`
	EmergencyContact string    `json:"emergency_contact" db:"emergency_contact"`
	DOB              string    `json:"dob" db:"dob" example:"2008-04-17"`
	Address          string    `json:"address" db:"address"`
	Course           string    `json:"course" db:"course"`
	ProfilePicURL    *string   `json:"profile_pic_url" db:"profile_pic_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// StudentUpdatableColumns lists the columns a partial update may touch.
// Keys are the JSON field names, which equal the column names.
var StudentUpdatableColumns = map[string]bool{
	"student_id":        true,
	"name":              true,
	"father_name":       true,
	"gender":            true,
	"email":             true,
	"phone":             true,
	"phone2":            true,
	"emergency_contact": true,
	"dob":               true,
	"address":           true,
	"course":            true,
	"profile_pic_url":   true,
}

// StudentReadOnlyColumns are accepted in update payloads but never written.
var StudentReadOnlyColumns = map[string]bool{
	"id":         true,
	"created_at": true,
}
