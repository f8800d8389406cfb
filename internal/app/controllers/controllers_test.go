package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	inmemdb "github.com/yigit/schooladmin/internal/app/repositories/inmem"
	"github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/pkg/filestorage"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
)

type apiFixture struct {
	store  *inmemdb.Store
	router *gin.Engine
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := inmemdb.NewStore()
	local, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:5000/uploads")
	require.NoError(t, err)
	scratch, err := filestorage.NewScratch(t.TempDir())
	require.NoError(t, err)

	studentService := services.NewStudentService(store, local, scratch, nil, zerolog.Nop())
	feeService := services.NewFeeService(store, nil, 30, zerolog.Nop())

	students := NewStudentController(studentService)
	fees := NewFeeController(feeService)
	health := NewHealthController(studentService)

	router := gin.New()
	router.POST("/submit", students.Submit)
	router.GET("/students", students.GetStudents)
	router.PUT("/students/:id", students.UpdateStudent)
	router.DELETE("/students/:id", students.DeleteStudent)
	router.GET("/health", health.Check)
	router.GET("/fees/unpaid", fees.GetUnpaid)
	router.GET("/fees/paid", fees.GetPaid)
	router.GET("/fees/overdue", fees.GetOverdue)
	router.GET("/fees/all", fees.GetAllStatuses)
	router.POST("/fees/pay", fees.MarkPaid)
	router.POST("/fees/move_overdue", fees.MoveToOverdue)
	router.POST("/fees/add", fees.AddFee)
	router.POST("/fees/check_overdue", fees.CheckOverdue)
	router.GET("/fees/history/:student_id", fees.GetPaymentHistory)
	router.PUT("/fees/update/:payment_id", fees.UpdatePayment)
	router.DELETE("/fees/delete/:payment_id", fees.DeletePayment)
	router.GET("/fees/events/:student_id", fees.GetEvents)

	return &apiFixture{store: store, router: router}
}

func (f *apiFixture) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) submit(t *testing.T, fields map[string]string, photo []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		part, err := mw.CreateFormFile("profile_pic", "me.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) addStudent(t *testing.T, studentID, name string) *models.Student {
	t.Helper()
	student := &models.Student{StudentID: studentID, Name: name, Course: "Grade 7"}
	require.NoError(t, f.store.Students().Create(context.Background(), student))
	return student
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type studentsEnvelope struct {
	Success bool              `json:"success"`
	Data    []*models.Student `json:"data"`
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code dto.ErrorCode) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	resp := decode[dto.ErrorResponse](t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, code, resp.Error.Code)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestSubmit_CreatesStudentAndEnrolmentFee(t *testing.T) {
	f := setupAPI(t)

	w := f.submit(t, map[string]string{
		"student_id": "STU-1",
		"name":       "Amina Yusuf",
		"course":     "Grade 7",
		"phone":      "5551234",
	}, []byte("\x89PNG\r\n\x1a\nfake"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[studentsEnvelope](t, w)
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "STU-1", resp.Data[0].StudentID)
	require.NotNil(t, resp.Data[0].ProfilePicURL)
	assert.True(t, strings.HasPrefix(*resp.Data[0].ProfilePicURL, "http://localhost:5000/uploads/students/"))
	assert.True(t, strings.HasSuffix(*resp.Data[0].ProfilePicURL, ".png"))

	unpaid := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/unpaid", ""))
	require.Len(t, unpaid, 1)
	assert.Equal(t, "STU-1", unpaid[0].StudentID)
	assert.Equal(t, 0.0, unpaid[0].Amount)
	require.NotNil(t, unpaid[0].Date)
	assert.Equal(t, helpers.FormatDate(time.Now()), *unpaid[0].Date)
}

func TestSubmit_DuplicateStudentID(t *testing.T) {
	f := setupAPI(t)
	f.addStudent(t, "STU-1", "Amina Yusuf")

	w := f.submit(t, map[string]string{"student_id": "STU-1", "name": "Other"}, nil)
	assertErrorCode(t, w, http.StatusConflict, dto.ErrorCodeStudentIDExists)
}

func TestGetStudents_ReturnsRawArray(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, http.MethodGet, "/students", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	f.addStudent(t, "STU-1", "Amina Yusuf")
	students := decode[[]*models.Student](t, f.do(t, http.MethodGet, "/students", ""))
	require.Len(t, students, 1)
	assert.Equal(t, "Amina Yusuf", students[0].Name)
}

func TestUpdateStudent(t *testing.T) {
	f := setupAPI(t)
	student := f.addStudent(t, "STU-1", "Amina Yusuf")
	require.NoError(t, f.store.Fees().Insert(context.Background(), models.FeeStatusUnpaid,
		&models.FeeRecord{StudentID: "STU-1", Name: "Amina Yusuf"}))

	path := fmt.Sprintf("/students/%d", student.ID)
	w := f.do(t, http.MethodPut, path, `{"id": 99, "name": "Amina Y.", "phone": 5551234}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[studentsEnvelope](t, w)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, student.ID, resp.Data[0].ID)
	assert.Equal(t, "Amina Y.", resp.Data[0].Name)
	assert.Equal(t, "5551234", resp.Data[0].Phone)

	unpaid := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/unpaid", ""))
	require.Len(t, unpaid, 1)
	assert.Equal(t, "Amina Y.", unpaid[0].Name)
}

func TestUpdateStudent_Errors(t *testing.T) {
	f := setupAPI(t)
	student := f.addStudent(t, "STU-1", "Amina Yusuf")
	path := fmt.Sprintf("/students/%d", student.ID)

	assertErrorCode(t, f.do(t, http.MethodPut, "/students/abc", `{"name": "x"}`), http.StatusBadRequest, dto.ErrorCodeInvalidStudentID)
	assertErrorCode(t, f.do(t, http.MethodPut, path, `not json`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPut, path, `null`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPut, path, `{"grade": "A"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPut, "/students/404", `{"name": "x"}`), http.StatusNotFound, dto.ErrorCodeStudentNotFound)
}

func TestDeleteStudent_CascadesFees(t *testing.T) {
	f := setupAPI(t)
	student := f.addStudent(t, "STU-1", "Amina Yusuf")
	ctx := context.Background()
	require.NoError(t, f.store.Fees().Insert(ctx, models.FeeStatusOverdue, &models.FeeRecord{StudentID: "STU-1", Amount: 10}))

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/students/%d", student.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success": true}`, w.Body.String())

	overdue := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/overdue", ""))
	assert.Empty(t, overdue)

	assertErrorCode(t, f.do(t, http.MethodDelete, fmt.Sprintf("/students/%d", student.ID), ""), http.StatusNotFound, dto.ErrorCodeStudentNotFound)
}

func TestHealth(t *testing.T) {
	f := setupAPI(t)
	f.addStudent(t, "STU-1", "Amina Yusuf")

	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy", "supabase_connected": true, "students_count": 1}`, w.Body.String())
}

func TestMarkPaid(t *testing.T) {
	f := setupAPI(t)
	f.addStudent(t, "STU-1", "Amina Yusuf")
	require.NoError(t, f.store.Fees().Insert(context.Background(), models.FeeStatusUnpaid,
		&models.FeeRecord{StudentID: "STU-1", Name: "Amina Yusuf", Amount: 150}))

	w := f.do(t, http.MethodPost, "/fees/pay", `{"student_id": "STU-1", "amount": "150"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success": true}`, w.Body.String())

	assert.Empty(t, decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/unpaid", "")))
	paid := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/paid", ""))
	require.Len(t, paid, 1)
	assert.Equal(t, 150.0, paid[0].Amount)

	history := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/history/STU-1", ""))
	require.Len(t, history, 1)
	assert.Equal(t, paid[0].PaymentID, history[0].PaymentID)

	events := decode[[]*models.FeeEvent](t, f.do(t, http.MethodGet, "/fees/events/STU-1", ""))
	require.Len(t, events, 1)
	assert.Equal(t, models.FeeEventPayment, events[0].Reason)
}

func TestFeeTransitions_RequestErrors(t *testing.T) {
	f := setupAPI(t)

	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/pay", `{"amount": 10}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/pay", `{"student_id": "STU-1"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/pay", `{"student_id": "STU-1", "amount": "ten"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/pay", `{"student_id": "STU-9", "amount": 10}`), http.StatusNotFound, dto.ErrorCodeStudentNotFound)
	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/move_overdue", `{"student_id": "STU-9", "amount": 10}`), http.StatusNotFound, dto.ErrorCodeStudentNotFound)
}

func TestMoveToOverdue(t *testing.T) {
	f := setupAPI(t)
	f.addStudent(t, "STU-1", "Amina Yusuf")
	require.NoError(t, f.store.Fees().Insert(context.Background(), models.FeeStatusUnpaid,
		&models.FeeRecord{StudentID: "STU-1", Name: "Amina Yusuf", Amount: 150}))

	w := f.do(t, http.MethodPost, "/fees/move_overdue", `{"student_id": "STU-1", "amount": 150}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	overdue := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/overdue", ""))
	require.Len(t, overdue, 1)
	assert.Nil(t, overdue[0].Date)
}

func TestAddFee(t *testing.T) {
	f := setupAPI(t)
	f.addStudent(t, "STU-1", "Amina Yusuf")

	w := f.do(t, http.MethodPost, "/fees/add", `{"student_id": "STU-1", "amount": 80, "status": "paid", "date": "2026-09-01"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	all := decode[[]*models.FeeStatusView](t, f.do(t, http.MethodGet, "/fees/all", ""))
	require.Len(t, all, 1)
	assert.Equal(t, models.FeeStatusPaid, all[0].Status)
	require.NotNil(t, all[0].Amount)
	assert.Equal(t, 80.0, *all[0].Amount)
	require.NotNil(t, all[0].LastDate)
	assert.Equal(t, "2026-09-01", *all[0].LastDate)

	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/add", `{"student_id": "STU-1", "amount": 1, "status": "late"}`),
		http.StatusBadRequest, dto.ErrorCodeInvalidFeeStatus)
	assertErrorCode(t, f.do(t, http.MethodPost, "/fees/add", `{"student_id": "STU-1", "amount": 1, "date": "01/09/2026"}`),
		http.StatusBadRequest, dto.ErrorCodeInvalidFeeDate)

	// rejected requests leave the paid row untouched
	paid := decode[[]*models.FeeRecord](t, f.do(t, http.MethodGet, "/fees/paid", ""))
	assert.Len(t, paid, 1)
}

func TestGetAllStatuses_DefaultsToUnpaid(t *testing.T) {
	f := setupAPI(t)
	f.addStudent(t, "STU-1", "Amina Yusuf")

	w := f.do(t, http.MethodGet, "/fees/all", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id": 1, "student_id": "STU-1", "name": "Amina Yusuf", "course": "Grade 7",
		"status": "unpaid", "amount": null, "last_date": null}]`, w.Body.String())
}

func TestCheckOverdue(t *testing.T) {
	f := setupAPI(t)
	ctx := context.Background()
	f.addStudent(t, "STU-1", "Amina Yusuf")
	old := helpers.FormatDate(time.Now().AddDate(0, 0, -40))
	recent := helpers.FormatDate(time.Now().AddDate(0, 0, -3))
	require.NoError(t, f.store.Fees().Insert(ctx, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "STU-1", Name: "Amina Yusuf", Amount: 150, Date: &old}))
	require.NoError(t, f.store.Fees().Insert(ctx, models.FeeStatusUnpaid, &models.FeeRecord{StudentID: "STU-2", Name: "Omar", Amount: 90, Date: &recent}))

	w := f.do(t, http.MethodPost, "/fees/check_overdue", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success": true, "message": "Moved 1 fees to overdue"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/fees/check_overdue", "")
	assert.JSONEq(t, `{"success": true, "message": "Moved 0 fees to overdue"}`, w.Body.String())
}

func TestPaymentEndpoints(t *testing.T) {
	f := setupAPI(t)
	date := "2026-09-01"
	record := &models.FeeRecord{StudentID: "STU-1", Name: "Amina Yusuf", Amount: 150, Date: &date}
	require.NoError(t, f.store.Fees().Insert(context.Background(), models.FeeStatusPaid, record))
	path := fmt.Sprintf("/fees/update/%d", record.PaymentID)

	w := f.do(t, http.MethodPut, path, `{"amount": 175.5, "date": "2026-09-02"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Success bool              `json:"success"`
		Data    *models.FeeRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.Data)
	assert.Equal(t, 175.5, updated.Data.Amount)
	assert.Equal(t, "2026-09-02", *updated.Data.Date)

	assertErrorCode(t, f.do(t, http.MethodPut, path, `{"amount": 1, "date": "tomorrow"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPut, "/fees/update/x", `{"amount": 1, "date": "2026-09-02"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	assertErrorCode(t, f.do(t, http.MethodPut, "/fees/update/999", `{"amount": 1, "date": "2026-09-02"}`), http.StatusNotFound, dto.ErrorCodePaymentNotFound)

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/fees/delete/%d", record.PaymentID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assertErrorCode(t, f.do(t, http.MethodDelete, fmt.Sprintf("/fees/delete/%d", record.PaymentID), ""), http.StatusNotFound, dto.ErrorCodePaymentNotFound)
}

func TestDecodeFieldMap_KeepsNumberLiterals(t *testing.T) {
	fields, err := decodeFieldMap(strings.NewReader(`{"phone": 5551234, "name": "A"}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("5551234"), fields["phone"])

	_, err = decodeFieldMap(strings.NewReader("   "))
	assert.Error(t, err)
	_, err = decodeFieldMap(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}
