package api

import (
	"PastPort/internal/api/middleware"
	"PastPort/internal/pkg/authz"
	"PastPort/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, registry *authz.Registry) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.GET("/preferences", group.UserHandler.GetPreferences)
				authGroup.PUT("/preferences", group.UserHandler.UpdatePreferences)
			}
		}

		capsuleGroup := apiGroup.Group("/capsules")
		capsuleGroup.Use(middleware.AuthMiddleware())
		{
			capsuleGroup.POST("", group.CapsuleHandler.Create)
			capsuleGroup.GET("/self", group.CapsuleHandler.ListSelf)

			// 属主校验：资源类型与路径参数在注册处显式声明
			ownGroup := capsuleGroup.Group("")
			ownGroup.Use(middleware.OwnershipMiddleware(registry, authz.KindCapsule, "capsule_id"))
			{
				ownGroup.GET("/:capsule_id", group.CapsuleHandler.Get)
				ownGroup.PUT("/:capsule_id", group.CapsuleHandler.Update)
				ownGroup.DELETE("/:capsule_id", group.CapsuleHandler.Delete)
				ownGroup.POST("/:capsule_id/unlock", group.CapsuleHandler.Unlock)
			}
		}

		journalGroup := apiGroup.Group("/journal")
		journalGroup.Use(middleware.AuthMiddleware())
		{
			journalGroup.POST("", group.JournalHandler.Create)
			journalGroup.GET("", group.JournalHandler.ListByMonth)

			ownGroup := journalGroup.Group("")
			ownGroup.Use(middleware.OwnershipMiddleware(registry, authz.KindJournal, "entry_id"))
			{
				ownGroup.GET("/:entry_id", group.JournalHandler.Get)
				ownGroup.PUT("/:entry_id", group.JournalHandler.Update)
				ownGroup.DELETE("/:entry_id", group.JournalHandler.Delete)
				ownGroup.POST("/:entry_id/unlock", group.JournalHandler.Unlock)
			}
		}

		discoverGroup := apiGroup.Group("/discover")
		discoverGroup.Use(middleware.AuthOptionalMiddleware())
		{
			discoverGroup.GET("/draw", group.DiscoverHandler.Draw)
			discoverGroup.GET("/search", group.DiscoverHandler.Search)
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("", group.NotificationHandler.List)
			notificationGroup.GET("/unread", group.NotificationHandler.UnreadCount)
			notificationGroup.POST("/read", group.NotificationHandler.MarkRead)
			notificationGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
			notificationGroup.DELETE("/:notification_id",
				middleware.OwnershipMiddleware(registry, authz.KindNotification, "notification_id"),
				group.NotificationHandler.Delete)
		}

		mediaGroup := apiGroup.Group("/media")
		mediaGroup.Use(middleware.AuthMiddleware())
		{
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
