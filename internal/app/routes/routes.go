package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schooladmin/internal/app/controllers"
	"github.com/yigit/schooladmin/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	feeController *controllers.FeeController,
	healthController *controllers.HealthController,
	feedHandler *websocket.Handler,
) {
	// Student record routes
	router.POST("/submit", studentController.Submit)
	students := router.Group("/students")
	{
		students.GET("", studentController.GetStudents)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	// Fee routes - bucket listings, transitions and payment history
	fees := router.Group("/fees")
	{
		fees.GET("/unpaid", feeController.GetUnpaid)
		fees.GET("/paid", feeController.GetPaid)
		fees.GET("/overdue", feeController.GetOverdue)
		fees.GET("/all", feeController.GetAllStatuses)

		fees.POST("/pay", feeController.MarkPaid)
		fees.POST("/move_overdue", feeController.MoveToOverdue)
		fees.POST("/add", feeController.AddFee)
		fees.POST("/check_overdue", feeController.CheckOverdue)

		fees.GET("/history/:student_id", feeController.GetPaymentHistory)
		fees.PUT("/update/:payment_id", feeController.UpdatePayment)
		fees.DELETE("/delete/:payment_id", feeController.DeletePayment)
		fees.GET("/events/:student_id", feeController.GetEvents)
	}

	// Live fee transition feed
	router.GET("/ws/fees", feedHandler.HandleConnection)

	// Health check endpoint (public)
	router.GET("/health", healthController.Check)
}
