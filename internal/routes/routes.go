package routes

import (
    "github.com/gin-gonic/gin"
    "github.com/sirupsen/logrus"

    "github.com/AdamWudarczyk/qa-portal/internal/controllers"
    "github.com/AdamWudarczyk/qa-portal/internal/database"
    "github.com/AdamWudarczyk/qa-portal/internal/middleware"
)

// Metadata describes the application in the generated API document.
type Metadata struct {
    Title   string
    Version string
}

// Register installs the middleware chain and the routes on r.
func Register(r *gin.Engine, sessions database.Opener, meta Metadata, log logrus.FieldLogger) {
    r.Use(
        middleware.RequestID(),
        middleware.Logger(log),
        middleware.Recovery(log),
        middleware.Sessions(sessions, log),
    )

    healthCtrl := &controllers.HealthController{}
    docsCtrl := &controllers.DocsController{Title: meta.Title, Version: meta.Version}

    r.GET("/ping", healthCtrl.Ping)
    r.GET("/openapi.json", docsCtrl.OpenAPI)
}

// New returns a bare engine with everything registered.
func New(sessions database.Opener, meta Metadata, log logrus.FieldLogger) *gin.Engine {
    r := gin.New()
    Register(r, sessions, meta, log)
    return r
}
