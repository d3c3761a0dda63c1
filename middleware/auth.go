package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"survey-admin/config"
	"survey-admin/models"
	"survey-admin/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CtxAdmin ist der Context-Key, unter dem das authentifizierte Admin-Konto
// abgelegt wird.
const CtxAdmin = "admin"

// AuthJWT prüft Authorization: Bearer <token>, validiert das JWT, lädt das
// Admin-Konto und legt es im Context ab.
func AuthJWT(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(cfg, rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid subject"})
			return
		}

		var admin models.AdminAccount
		if err := db.First(&admin, id).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			return
		}

		c.Set(CtxAdmin, admin)
		c.Next()
	}
}

// RequireSuperuser blockiert Routen, die Superuser-Rechte brauchen
// (Verwaltung der Admin-Konten).
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxAdmin)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		admin := v.(models.AdminAccount)
		if !admin.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
