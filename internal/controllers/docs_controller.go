package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"
)

// DocsController serves a minimal OpenAPI document built from the
// application metadata.
type DocsController struct {
    Title   string
    Version string
}

func (d *DocsController) OpenAPI(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{
        "openapi": "3.0.3",
        "info": gin.H{
            "title":   d.Title,
            "version": d.Version,
        },
        "paths": gin.H{
            "/ping": gin.H{
                "get": gin.H{
                    "summary":     "Ping",
                    "operationId": "ping",
                    "responses": gin.H{
                        "200": gin.H{
                            "description": "Successful Response",
                            "content": gin.H{
                                "application/json": gin.H{
                                    "schema": gin.H{
                                        "type": "object",
                                        "properties": gin.H{
                                            "message": gin.H{"type": "string", "example": "pong"},
                                        },
                                    },
                                },
                            },
                        },
                    },
                },
            },
        },
    })
}
