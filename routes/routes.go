package routes

import (
	"mfgledger/controllers"
	"mfgledger/middleware"
	"mfgledger/models"

	"github.com/gin-gonic/gin"
)

func InitializeRoutes(router *gin.Engine, ctl *controllers.Controller) {
	router.POST("/login", ctl.Login)
	router.GET("/company", ctl.PublicCompany)
	router.GET("/health", ctl.Health)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(models.RoleAdmin))
	{
		admin.GET("/me", ctl.Me)

		admin.GET("/orders", ctl.ListOrders)
		admin.GET("/orders/:id", ctl.GetOrder)
		admin.POST("/orders", ctl.CreateOrder)
		admin.PUT("/orders/:id", ctl.UpdateOrder)
		admin.DELETE("/orders/:id", ctl.DeleteOrder)

		admin.GET("/folders", ctl.Folders)
		admin.GET("/dashboard", ctl.Dashboard)
		admin.GET("/report", ctl.Report)

		admin.GET("/status", ctl.GetStatus)
		admin.POST("/status/toggle", ctl.ToggleStatus)

		admin.GET("/agents", ctl.ListAgents)
		admin.POST("/agents", ctl.CreateAgent)
		admin.PUT("/agents/:id", ctl.UpdateAgent)
		admin.DELETE("/agents/:id", ctl.DeleteAgent)

		admin.GET("/settings/company", ctl.GetCompany)
		admin.PUT("/settings/company", ctl.UpdateCompany)

		admin.GET("/backup", ctl.Backup)
		admin.POST("/restore", ctl.Restore)
	}

	agent := router.Group("/agent")
	agent.Use(middleware.AuthMiddleware(models.RoleAgent))
	{
		agent.GET("/me", ctl.Me)

		agent.GET("/orders", ctl.ListOrders)
		agent.GET("/orders/:id", ctl.GetOrder)
		agent.POST("/orders", ctl.CreateOrder)
		agent.PUT("/orders/:id", ctl.UpdateOrder)

		agent.GET("/folders", ctl.Folders)
		agent.GET("/dashboard", ctl.Dashboard)
		agent.GET("/report", ctl.Report)
		agent.GET("/status", ctl.GetStatus)
	}
}
