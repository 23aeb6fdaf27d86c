package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"clubreg/cmd/middleware"
	"clubreg/internal/service"
)

type Routers struct {
	Handler *Handler
}

// Handler holds the HTTP handlers over the registration service.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	h := r.Handler

	apiGroup.POST("/events/:slug/registrations", h.SubmitRegistration)
	apiGroup.GET("/events/:slug/registrations", h.ListRegistrations)
	apiGroup.POST("/events/:slug/registrations/files", h.UploadFile)
	apiGroup.DELETE("/events/:slug/registrations/files/:fileId", h.DeleteFile)

	apiGroup.GET("/registrations/:id", h.GetRegistration)
	apiGroup.POST("/registrations/:id/accept", h.AcceptRegistration)
	apiGroup.POST("/registrations/:id/reject", h.RejectRegistration)

	apiGroup.GET("/rsvp/:id", h.RSVPDetails)
	apiGroup.POST("/rsvp/:id/confirm", h.RSVPConfirm)
	apiGroup.POST("/rsvp/:id/decline", h.RSVPDecline)

	return app
}
