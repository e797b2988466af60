package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"
	errs "github.com/techagentng/opsconsole/errors"
	"github.com/techagentng/opsconsole/models"
	"github.com/techagentng/opsconsole/server/response"
	"github.com/techagentng/opsconsole/services/jwt"
	"gorm.io/gorm"
)

// Authorize accepts either a Bearer access token or an X-API-Key header and
// loads the authenticated user into the request context
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := getAPIKeyFromHeader(c); apiKey != "" {
			user, apiErr := s.AuthService.ValidateAPIKey(apiKey)
			if apiErr != nil {
				respondAndAbort(c, "", apiErr.Status, nil, apiErr)
				return
			}
			setAuthContext(c, user, "")
			c.Next()
			return
		}

		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "Access token is blacklisted", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		secret := s.Config.JWTSecret
		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, secret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		if tokenType, ok := accessClaims["type"].(string); ok && tokenType != "access" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var userID uint
		switch v := accessClaims["id"].(type) {
		case float64:
			userID = uint(v)
		default:
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("Invalid userID format", http.StatusBadRequest))
			return
		}

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New(err.Error(), http.StatusUnauthorized))
				return
			default:
				respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.New("internal server error", http.StatusInternalServerError))
				return
			}
		}

		setAuthContext(c, user, accessToken)
		c.Next()
	}
}

func setAuthContext(c *gin.Context, user *models.User, accessToken string) {
	c.Set("user", user)
	c.Set("userID", user.ID)
	c.Set("userKey", user.UserKey)
	c.Set("isAdmin", user.AdminStatus)
	if accessToken != "" {
		c.Set("access_token", accessToken)
	}
}

// requireAdmin gates endpoints reserved for console administrators
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get("isAdmin")
		if admin, ok := isAdmin.(bool); !ok || !admin {
			respondAndAbort(c, "", http.StatusForbidden, nil, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

// limitCodeOps throttles the code formatting and validation endpoints per
// authenticated caller
func (s *Server) limitCodeOps() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

// keyFunc buckets rate limiting by user, falling back to client IP for
// anything that slipped past auth
func keyFunc(c *gin.Context) string {
	if userKey, ok := c.Get("userKey"); ok {
		if key, ok := userKey.(string); ok && key != "" {
			return key
		}
	}
	return c.ClientIP()
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 8 {
		return authHeader[7:]
	}
	return ""
}

func getAPIKeyFromHeader(c *gin.Context) string {
	return c.Request.Header.Get("X-API-Key")
}

// decode binds the JSON body into v and conforms its string fields
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return err
	}
	if err := conform.Strings(v); err != nil {
		log.Printf("conform error: %v", err)
		return err
	}
	return nil
}
