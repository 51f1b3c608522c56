package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/mdiallo/cotisation-manager-go/config"
	controllers "github.com/mdiallo/cotisation-manager-go/controllers"
	middleware "github.com/mdiallo/cotisation-manager-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/register", controllers.Register(cfg))
	r.POST("/auth/login", controllers.Login(cfg))
	r.POST("/auth/refresh", controllers.RefreshToken(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	account := r.Group("/auth")
	account.Use(auth)
	{
		account.GET("/me", controllers.Me(cfg))
		account.PATCH("/me", controllers.UpdateProfile(cfg))
	}

	membres := r.Group("/membres")
	membres.Use(auth)
	{
		membres.POST("", controllers.CreateMember(cfg))
		membres.GET("", controllers.ListMembers(cfg))
		membres.GET("/:id", controllers.GetMember(cfg))
		membres.PATCH("/:id", controllers.UpdateMember(cfg))
		membres.DELETE("/:id", controllers.DeleteMember(cfg))
	}

	cotisations := r.Group("/cotisations")
	cotisations.Use(auth)
	{
		cotisations.POST("", controllers.CreateContribution(cfg))
		cotisations.GET("", controllers.ListContributions(cfg))
		cotisations.GET("/:id", controllers.GetContribution(cfg))
		cotisations.PATCH("/:id", controllers.UpdateContribution(cfg))
		cotisations.DELETE("/:id", controllers.DeleteContribution(cfg))

		cotisations.GET("/:id/statuts", controllers.GetContributionStatuses(cfg))
		cotisations.GET("/:id/resume", controllers.GetContributionSummary(cfg))
		cotisations.POST("/:id/rappels", controllers.SendContributionReminders(cfg))
	}

	paiements := r.Group("/paiements")
	paiements.Use(auth)
	{
		paiements.GET("", controllers.ListPayments(cfg))
		paiements.GET("/joined", controllers.ListPaymentsJoined(cfg))
		paiements.PUT("/status", controllers.SetPaymentStatus(cfg))
	}

	reports := r.Group("/")
	reports.Use(auth)
	{
		reports.GET("/dashboard", controllers.GetDashboard(cfg))
		reports.GET("/reports", controllers.GetReports(cfg))
		reports.GET("/reports/export", controllers.ExportReport(cfg))
		reports.GET("/backup", controllers.ExportBackup(cfg))
		reports.POST("/backup/restore", controllers.RestoreBackup(cfg))
	}
}
