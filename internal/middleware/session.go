package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AdamWudarczyk/qa-portal/internal/database"
)

const sessionScopeKey = "db_scope"

// ErrNoSessionScope is returned by Session for requests that did not pass
// through the Sessions middleware.
var ErrNoSessionScope = errors.New("no database session scope on request")

// Sessions gives every request a lazy database scope. The session is only
// opened when a handler asks for it and is released once the handler chain
// returns, including when it panics.
func Sessions(opener database.Opener, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := database.NewScope(c.Request.Context(), opener)
		c.Set(sessionScopeKey, scope)
		defer func() {
			if err := scope.Release(); err != nil {
				log.WithError(err).WithField("request_id", GetRequestID(c)).Warn("release database session")
			}
		}()
		c.Next()
	}
}

// Session returns the request's database session, opening it on first use.
func Session(c *gin.Context) (*database.Session, error) {
	v, ok := c.Get(sessionScopeKey)
	if !ok {
		return nil, ErrNoSessionScope
	}
	return v.(*database.Scope).Session()
}

// RequireSession is Session for handlers: on failure it aborts the request
// with 503 and reports false.
func RequireSession(c *gin.Context) (*database.Session, bool) {
	s, err := Session(c)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
		return nil, false
	}
	return s, true
}
