package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samukadias/contract-management-system/config"
	"github.com/samukadias/contract-management-system/model"
)

// Claims represents the JWT claims carried by an authenticated session
type Claims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Perfil      string `json:"perfil"`
	NomeCliente string `json:"nome_cliente,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken generates a new JWT token for a user
func GenerateToken(user *model.User, cfg *config.AuthConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Perfil:      user.Perfil,
		NomeCliente: user.NomeCliente,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// AuthMiddleware validates the JWT token and stores the user identity
// in the request context
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("full_name", claims.FullName)
		c.Set("perfil", claims.Perfil)
		c.Set("nome_cliente", claims.NomeCliente)

		c.Next()
	}
}

// RequireProfiles restricts a route to the given perfis. It must run
// after AuthMiddleware.
func RequireProfiles(perfis ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(perfis))
	for _, p := range perfis {
		allowed[p] = true
	}

	return func(c *gin.Context) {
		if !allowed[GetPerfil(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// GetUserID gets the authenticated user id from context
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get("user_id"); exists {
		return v.(string)
	}
	return ""
}

// GetEmail gets the authenticated user email from context
func GetEmail(c *gin.Context) string {
	if v, exists := c.Get("email"); exists {
		return v.(string)
	}
	return ""
}

// GetPerfil gets the authenticated user perfil from context
func GetPerfil(c *gin.Context) string {
	if v, exists := c.Get("perfil"); exists {
		return v.(string)
	}
	return ""
}

// GetNomeCliente gets the client name bound to a CLIENTE user
func GetNomeCliente(c *gin.Context) string {
	if v, exists := c.Get("nome_cliente"); exists {
		return v.(string)
	}
	return ""
}
