package routes

import (
	"net/http"

	"evaluation-management-api/controllers"
	"evaluation-management-api/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		// Public routes
		public := api.Group("")
		{
			public.POST("/login", middleware.RateLimitLogin(), controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Evaluation Management API is running",
				})
			})
		}

		// Protected routes (any authenticated account)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Account
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Evaluation form building blocks
			protected.GET("/questions/active", controllers.GetActiveQuestions)

			// Employees (scoped by role inside the handlers)
			employees := protected.Group("/employees")
			{
				employees.GET("", controllers.GetEmployees)
				employees.GET("/:id", controllers.GetEmployee)
				employees.GET("/:id/evaluations", controllers.GetEmployeeEvaluations)
				employees.POST("/:id/evaluations", controllers.SubmitEvaluation)
			}

			// Evaluations (managers see all, supervisors their own)
			evaluations := protected.Group("/evaluations")
			{
				evaluations.GET("", controllers.GetEvaluations)
				evaluations.GET("/:id", controllers.GetEvaluation)
			}

			// Manager-only administration
			manager := protected.Group("/manager")
			manager.Use(middleware.RequireManager())
			{
				// Question bank
				questions := manager.Group("/questions")
				{
					questions.GET("", controllers.GetQuestions)
					questions.POST("", controllers.CreateQuestion)
					questions.GET("/:id", controllers.GetQuestion)
					questions.PUT("/:id", controllers.UpdateQuestion)
					questions.DELETE("/:id", controllers.DeleteQuestion)
					questions.POST("/:id/answers", controllers.AddAnswer)
				}
				manager.PUT("/answers/:id", controllers.UpdateAnswer)
				manager.DELETE("/answers/:id", controllers.DeleteAnswer)

				// System settings
				manager.GET("/settings", controllers.GetSettings)
				manager.POST("/settings/toggle-evaluations", controllers.ToggleEvaluations)

				// Periods and exports
				manager.GET("/periods", controllers.GetPeriods)
				manager.GET("/export/:period_id", controllers.ExportEvaluations)

				// Supervisor accounts
				supervisors := manager.Group("/supervisors")
				{
					supervisors.GET("", controllers.GetSupervisors)
					supervisors.POST("", controllers.CreateSupervisor)
					supervisors.GET("/:id", controllers.GetSupervisor)
					supervisors.PUT("/:id", controllers.UpdateSupervisor)
					supervisors.DELETE("/:id", controllers.DeleteSupervisor)
					supervisors.PUT("/:id/password", controllers.SetSupervisorPassword)
					supervisors.POST("/:id/employees", controllers.CreateEmployee)
				}

				// Employee records
				manager.PUT("/employees/:id", controllers.UpdateEmployee)
				manager.DELETE("/employees/:id", controllers.DeleteEmployee)
				manager.POST("/employees/import", controllers.ImportEmployees)
				manager.GET("/employees/import/template", controllers.GetImportTemplate)
			}
		}
	}
}
