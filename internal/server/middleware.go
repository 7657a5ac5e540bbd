package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yazicigil/RateStuff-sub000/internal/models"
)

const CheckUserKey = "user"

// LoadUser resolves the bearer token to a user and sets it on the context.
func (s *Server) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			if user := s.userByToken(token); user != nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a resolved user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "authentication required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	user, _ := c.Get(CheckUserKey)
	u, _ := user.(*models.User)
	return u
}
