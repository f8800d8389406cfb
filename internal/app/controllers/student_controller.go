package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/middleware"
)

// StudentController handles student record operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// Submit handles student registration
// @Summary Register a student
// @Description Stores a student from a multipart form. An optional profile_pic file is uploaded to object storage; when the upload fails the student is stored without a photo. A student with student_id and name also gets an unpaid fee of amount 0.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param student_id formData string false "Student ID"
// @Param name formData string false "Full name"
// @Param father_name formData string false "Father's name"
// @Param gender formData string false "Gender"
// @Param email formData string false "Email"
// @Param phone formData string false "Phone"
// @Param phone2 formData string false "Second phone"
// @Param emergency_contact formData string false "Emergency contact"
// @Param dob formData string false "Date of birth"
// @Param address formData string false "Address"
// @Param course formData string false "Course"
// @Param profile_pic formData file false "Profile picture"
// @Success 201 {object} dto.SuccessResponse{data=[]models.Student} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Malformed form"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submit [post]
func (c *StudentController) Submit(ctx *gin.Context) {
	var form dto.SubmitStudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.RespondBadRequest(ctx, dto.ErrorCodeValidationFailed, "Invalid form data", err.Error())
		return
	}

	photo, err := ctx.FormFile("profile_pic")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		middleware.RespondBadRequest(ctx, dto.ErrorCodeValidationFailed, "Invalid profile picture", err.Error())
		return
	}

	student, err := c.studentService.Submit(ctx, form.ToModel(), photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse([]*models.Student{student}))
}

// GetStudents lists every student
// @Summary List students
// @Description Returns every student row
// @Tags students
// @Produce json
// @Success 200 {array} models.Student "Students"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, students)
}

// UpdateStudent applies a partial update
// @Summary Update a student
// @Description Applies the given fields to the student. id and created_at are ignored, unknown fields are rejected. A name change is copied to the student's fee rows.
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student primary key"
// @Param request body object true "Fields to update"
// @Success 200 {object} dto.SuccessResponse{data=[]models.Student} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid id or body"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseStudentPK(ctx)
	if !ok {
		return
	}

	fields, err := decodeFieldMap(ctx.Request.Body)
	if err != nil {
		middleware.RespondBadRequest(ctx, dto.ErrorCodeValidationFailed, "Invalid request format", err.Error())
		return
	}

	student, err := c.studentService.Update(ctx, id, fields)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse([]*models.Student{student}))
}

// DeleteStudent removes a student and the student's fee rows
// @Summary Delete a student
// @Description Deletes the student and every fee row carrying the student's student_id
// @Tags students
// @Produce json
// @Param id path int true "Student primary key"
// @Success 200 {object} dto.SuccessResponse "Student deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseStudentPK(ctx)
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func parseStudentPK(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondBadRequest(ctx, dto.ErrorCodeInvalidStudentID, "Invalid student id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeFieldMap reads a JSON object keeping numbers in their literal form.
func decodeFieldMap(body io.Reader) (map[string]interface{}, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("request body must be a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return fields, nil
}
