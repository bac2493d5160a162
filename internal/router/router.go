package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sahay-helpdesk/helpdesk-service/api"
	"github.com/sahay-helpdesk/helpdesk-service/internal/handler"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
	"github.com/sahay-helpdesk/helpdesk-service/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const pathSwagger = "/swagger"

// Deps bundles everything the router mounts.
type Deps struct {
	Ticket *handler.TicketHandler
	Chat   *handler.ChatHandler
	Auth   *handler.AuthHandler
	AuthMW *middleware.AuthMiddleware
	Log    *logger.Logger

	CORSOrigins []string
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)

	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	v1 := r.Group("/api/v1")
	{
		ticket := v1.Group("/ticket")
		{
			ticket.POST("/", d.Ticket.Create)
			ticket.GET("/", d.Ticket.List)
			ticket.GET("/stats/summary", d.Ticket.Stats)
			ticket.GET("/search/:keyword", d.Ticket.Search)
			ticket.GET("/number/:ticket_number", d.Ticket.GetByNumber)
			ticket.GET("/:id", d.Ticket.Get)
			ticket.PUT("/:id", d.Ticket.Update)
			ticket.DELETE("/:id", d.Ticket.Delete)
		}

		v1.POST("/chatbot", d.Chat.Chatbot)
		v1.POST("/chat", d.Chat.Chat)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Auth.Login)
			auth.POST("/reset-password", d.Auth.ResetPassword)
			auth.GET("/me", d.AuthMW.RequireAuth(), d.Auth.Me)
			auth.POST("/logout", d.AuthMW.RequireAuth(), d.Auth.Logout)
		}
	}

	return r
}
