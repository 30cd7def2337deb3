package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/educado/backend/config"
	"github.com/educado/backend/internal/handler"
	"github.com/educado/backend/internal/pkg/security"
)

func Setup(
	cfg *config.Config,
	tokens *security.TokenManager,
	authHandler *handler.AuthHandler,
	courseHandler *handler.CourseHandler,
	contentHandler *handler.ContentHandler,
	catalogHandler *handler.CatalogHandler,
	studentHandler *handler.StudentHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// 公开课程目录
		api.GET("/subjects", catalogHandler.Subjects)
		api.GET("/courses", catalogHandler.Courses)
		api.GET("/courses/:slug", catalogHandler.CourseDetail)

		authed := api.Group("", handler.RequireAuth(tokens))
		{
			authed.POST("/subjects", catalogHandler.CreateSubject)

			manage := authed.Group("/manage")
			{
				manage.GET("/courses", courseHandler.List)
				manage.POST("/courses", courseHandler.Create)
				manage.PUT("/courses/:id", courseHandler.Update)
				manage.DELETE("/courses/:id", courseHandler.Delete)
				manage.PUT("/courses/:id/modules", courseHandler.SyncModules)

				manage.GET("/modules/:id/contents", contentHandler.ListByModule)
				manage.POST("/modules/:id/contents/:kind", contentHandler.Create)
				manage.PUT("/contents/:id", contentHandler.Update)
				manage.DELETE("/contents/:id", contentHandler.Delete)

				// 批量重排
				manage.POST("/module/order", courseHandler.ReorderModules)
				manage.POST("/content/order", contentHandler.Reorder)
			}

			authed.POST("/courses/:id/enroll", studentHandler.Enroll)

			students := authed.Group("/students")
			{
				students.GET("/courses", studentHandler.Courses)
				students.GET("/courses/:id", studentHandler.CourseContent)
			}
		}
	}

	return r
}
