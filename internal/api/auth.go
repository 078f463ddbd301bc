package api

import (
	"net/http"

	"github.com/datatide/lakectl/internal/db"
	"github.com/datatide/lakectl/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const userKey = "user"

// requireUser authenticates the request with HTTP basic auth against the
// users table and stores the user in the gin context.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="lakectl"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		var u models.User
		if err := db.DB.Where("email = ?", email).First(&u).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(pass)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.Set(userKey, &u)
		c.Next()
	}
}

// requireEditorOrAdmin gates mutating routes.
func requireEditorOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || (u.Role != "editor" && u.Role != "admin") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "editor or admin role required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
