package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theclubs/clubs-backend/internal/app/controllers"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/middleware"
	"github.com/theclubs/clubs-backend/internal/pkg/websocket"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Home         *controllers.HomeController
	Club         *controllers.ClubController
	Discussion   *controllers.DiscussionController
	Event        *controllers.EventController
	Announcement *controllers.AnnouncementController
	Admin        *controllers.AdminController
	AI           *controllers.AIController
	Live         *websocket.Handler
}

// RateLimits are optional per-group limiters; nil means unlimited.
type RateLimits struct {
	Auth gin.HandlerFunc
	AI   gin.HandlerFunc
}

func (l RateLimits) chain(h gin.HandlerFunc) []gin.HandlerFunc {
	if h == nil {
		return nil
	}
	return []gin.HandlerFunc{h}
}

// SetupRouter configures all application routes under basePath.
func SetupRouter(router *gin.Engine, basePath string, c Controllers, authMiddleware *middleware.AuthMiddleware, limits RateLimits) {
	api := router.Group(basePath, middleware.ValidIDParam())

	api.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// --- Public routes ---
	auth := api.Group("/auth", limits.chain(limits.Auth)...)
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	api.GET("/home", c.Home.Home)

	api.GET("/clubs", c.Club.List)
	api.GET("/events", c.Event.List)
	api.GET("/announcements", c.Announcement.List)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", c.Auth.Me)

	users := authenticated.Group("/users/me")
	{
		users.GET("", c.User.GetProfile)
		users.PUT("", c.User.UpdateProfile)
		users.GET("/clubs", c.User.MyClubs)
		users.GET("/events", c.User.MyEvents)
		users.GET("/registrations", c.User.MyRegistrations)
	}

	clubs := authenticated.Group("/clubs")
	{
		// static segments first so they are not read as :id
		clubs.GET("/my-clubs", c.Club.MyClubs)
		clubs.GET("/my-requests", c.Club.MyRequests)
		clubs.POST("/request", c.Club.Request)
		clubs.POST("", c.Club.Request)

		clubs.PUT("/:id", c.Club.Update)
		clubs.POST("/:id/join", c.Club.Join)
		clubs.POST("/:id/leave", c.Club.Leave)
		clubs.PUT("/:id/restore-head", c.Club.RestoreHead)

		clubs.GET("/:id/discussions", c.Discussion.List)
		clubs.POST("/:id/discussions", c.Discussion.Post)
		clubs.GET("/:id/discussions/ws", c.Live.HandleConnection)
	}
	authenticated.DELETE("/discussions/:id", c.Discussion.Delete)

	// club detail reads are public
	api.GET("/clubs/:id", c.Club.Get)
	api.GET("/clubs/:id/members", c.Club.Members)
	api.GET("/clubs/:id/events", c.Club.Events)
	api.GET("/clubs/:id/announcements", c.Club.Announcements)

	api.GET("/events/:id", c.Event.Get)
	events := authenticated.Group("/events")
	{
		events.POST("", c.Event.Create)
		events.PUT("/:id", c.Event.Update)
		events.DELETE("/:id", c.Event.Delete)
		events.POST("/:id/register", c.Event.Register)
		events.DELETE("/:id/register", c.Event.Unregister)
		events.GET("/:id/participants", c.Event.Participants)
		events.PUT("/participants/:id/attendance", c.Event.Attendance)
	}

	authenticated.POST("/announcements", c.Announcement.Create)

	ai := authenticated.Group("/ai", limits.chain(limits.AI)...)
	{
		ai.POST("/match", c.AI.Match)
		ai.POST("/poster", c.AI.Poster)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/clubs/pending", c.Admin.PendingClubs)
		admin.POST("/clubs/:id/approve", c.Admin.ApproveClub)
		admin.POST("/clubs/:id/reject", c.Admin.RejectClub)

		admin.GET("/events/pending", c.Admin.PendingEvents)
		admin.POST("/events/:id/approve", c.Admin.ApproveEvent)
		admin.POST("/events/:id/reject", c.Admin.RejectEvent)

		admin.GET("/announcements/pending", c.Admin.PendingAnnouncements)
		admin.POST("/announcements/:id/approve", c.Admin.ApproveAnnouncement)
		admin.POST("/announcements/:id/reject", c.Admin.RejectAnnouncement)

		admin.GET("/stats", c.Admin.Stats)
		admin.GET("/audit-logs", c.Admin.AuditLogs)
	}
}
