package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	envEmail := os.Getenv("ADMIN_EMAIL")
	envPass := os.Getenv("ADMIN_PASSWORD")

	if body.Email == envEmail && body.Password == envPass {
		c.SetCookie("admin_session", "logged_in", 3600, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales incorrectas"})
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("admin_session", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AuthMiddleware protege las rutas destructivas (borrado de espacios).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie("admin_session")
		if err != nil || cookie != "logged_in" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
			c.Abort()
			return
		}
		c.Next()
	}
}
