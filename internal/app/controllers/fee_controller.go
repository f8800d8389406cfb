package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/middleware"
)

// FeeController handles the fee buckets and their transitions
type FeeController struct {
	feeService services.FeeService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService services.FeeService) *FeeController {
	return &FeeController{
		feeService: feeService,
	}
}

func (c *FeeController) listBucket(ctx *gin.Context, status models.FeeStatus) {
	records, err := c.feeService.ListBucket(ctx, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetUnpaid lists the unpaid bucket
// @Summary List unpaid fees
// @Tags fees
// @Produce json
// @Success 200 {array} models.FeeRecord "Unpaid fee rows"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/unpaid [get]
func (c *FeeController) GetUnpaid(ctx *gin.Context) {
	c.listBucket(ctx, models.FeeStatusUnpaid)
}

// GetPaid lists the paid bucket
// @Summary List paid fees
// @Tags fees
// @Produce json
// @Success 200 {array} models.FeeRecord "Paid fee rows"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/paid [get]
func (c *FeeController) GetPaid(ctx *gin.Context) {
	c.listBucket(ctx, models.FeeStatusPaid)
}

// GetOverdue lists the overdue bucket
// @Summary List overdue fees
// @Tags fees
// @Produce json
// @Success 200 {array} models.FeeRecord "Overdue fee rows"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/overdue [get]
func (c *FeeController) GetOverdue(ctx *gin.Context) {
	c.listBucket(ctx, models.FeeStatusOverdue)
}

// GetAllStatuses derives the fee status of every student
// @Summary Fee status per student
// @Description Status is overdue, paid or unpaid, in that priority. Students without any fee row are unpaid with a null amount.
// @Tags fees
// @Produce json
// @Success 200 {array} models.FeeStatusView "Fee status per student"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/all [get]
func (c *FeeController) GetAllStatuses(ctx *gin.Context) {
	views, err := c.feeService.GetAllStatuses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, views)
}

// MarkPaid records a payment
// @Summary Mark a fee paid
// @Description Removes the student from unpaid and overdue and records a payment dated today
// @Tags fees
// @Accept json
// @Produce json
// @Param request body dto.FeeTransitionRequest true "Student and amount"
// @Success 200 {object} dto.SuccessResponse "Payment recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/pay [post]
func (c *FeeController) MarkPaid(ctx *gin.Context) {
	var req dto.FeeTransitionRequest
	if !middleware.BindAndValidateJSON(ctx, &req) {
		return
	}

	if _, err := c.feeService.MarkPaid(ctx, req.StudentID, req.Amount.Float()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// MoveToOverdue moves an unpaid fee to overdue
// @Summary Move a fee to overdue
// @Tags fees
// @Accept json
// @Produce json
// @Param request body dto.FeeTransitionRequest true "Student and amount"
// @Success 200 {object} dto.SuccessResponse "Fee moved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/move_overdue [post]
func (c *FeeController) MoveToOverdue(ctx *gin.Context) {
	var req dto.FeeTransitionRequest
	if !middleware.BindAndValidateJSON(ctx, &req) {
		return
	}

	if _, err := c.feeService.MoveToOverdue(ctx, req.StudentID, req.Amount.Float()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// CheckOverdue runs the overdue sweep
// @Summary Sweep unpaid fees into overdue
// @Description Moves unpaid fees whose date is more than the configured number of days old
// @Tags fees
// @Produce json
// @Success 200 {object} dto.SuccessResponse "Sweep result"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/check_overdue [post]
func (c *FeeController) CheckOverdue(ctx *gin.Context) {
	moved, err := c.feeService.SweepOverdue(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: fmt.Sprintf("Moved %d fees to overdue", moved),
	})
}

// AddFee places a student in a bucket
// @Summary Set a student's fee status
// @Description Clears the other two buckets and inserts one row into the requested one. status defaults to unpaid; date defaults to today for paid and unpaid.
// @Tags fees
// @Accept json
// @Produce json
// @Param request body dto.AddFeeRequest true "Fee entry"
// @Success 200 {object} dto.SuccessResponse "Fee stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid status, date or body"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/add [post]
func (c *FeeController) AddFee(ctx *gin.Context) {
	var req dto.AddFeeRequest
	if !middleware.BindAndValidateJSON(ctx, &req) {
		return
	}

	if _, err := c.feeService.SetStatus(ctx, req.StudentID, req.Status, req.Amount.Float(), req.Date); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// GetPaymentHistory lists a student's payments
// @Summary Payment history
// @Description Paid rows of the student, newest first
// @Tags fees
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {array} models.FeeRecord "Payments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/history/{student_id} [get]
func (c *FeeController) GetPaymentHistory(ctx *gin.Context) {
	records, err := c.feeService.GetPaymentHistory(ctx, ctx.Param("student_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// UpdatePayment edits one payment
// @Summary Update a payment
// @Tags fees
// @Accept json
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Param request body dto.UpdatePaymentRequest true "New amount and date"
// @Success 200 {object} dto.SuccessResponse{data=models.FeeRecord} "Payment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/update/{payment_id} [put]
func (c *FeeController) UpdatePayment(ctx *gin.Context) {
	paymentID, ok := parsePaymentID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if !middleware.BindAndValidateJSON(ctx, &req) {
		return
	}

	record, err := c.feeService.UpdatePayment(ctx, paymentID, req.Amount.Float(), req.Date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// DeletePayment removes one payment
// @Summary Delete a payment
// @Tags fees
// @Produce json
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} dto.SuccessResponse "Payment deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid payment id"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/delete/{payment_id} [delete]
func (c *FeeController) DeletePayment(ctx *gin.Context) {
	paymentID, ok := parsePaymentID(ctx)
	if !ok {
		return
	}

	if err := c.feeService.DeletePayment(ctx, paymentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// GetEvents lists a student's fee transitions
// @Summary Fee transition log
// @Tags fees
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {array} models.FeeEvent "Transitions, oldest first"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /fees/events/{student_id} [get]
func (c *FeeController) GetEvents(ctx *gin.Context) {
	events, err := c.feeService.GetEvents(ctx, ctx.Param("student_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, events)
}

func parsePaymentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("payment_id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondBadRequest(ctx, dto.ErrorCodeValidationFailed, "Invalid payment id", "payment_id must be a positive integer")
		return 0, false
	}
	return id, true
}
