package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/opsconsole/errors"
	"github.com/techagentng/opsconsole/models"
	"github.com/techagentng/opsconsole/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if validationErrs := models.ValidateStruct(&user); len(validationErrs) > 0 {
			response.JSON(c, "", http.StatusBadRequest, nil, validationErrs[0])
			return
		}

		userResponse, err := s.AuthService.SignupUser(&user)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, "Signup successful", http.StatusCreated, models.UserResponse{
			ID:       userResponse.ID,
			UserKey:  userResponse.UserKey,
			Fullname: userResponse.Fullname,
			Username: userResponse.Username,
			Email:    userResponse.Email,
			IsAdmin:  userResponse.AdminStatus,
		}, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}

		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, exists := c.Get("access_token")
		if !exists {
			// API-key sessions have nothing to blacklist
			response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
			return
		}

		user, ok := c.MustGet("user").(*models.User)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		blacklist := &models.Blacklist{
			Email: user.Email,
			Token: accessToken.(string),
		}
		if err := s.AuthRepository.AddToBlackList(blacklist); err != nil {
			response.JSON(c, "logout failed", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := c.MustGet("user").(*models.User)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		response.JSON(c, "", http.StatusOK, models.UserResponse{
			ID:       user.ID,
			UserKey:  user.UserKey,
			Fullname: user.Fullname,
			Username: user.Username,
			Email:    user.Email,
			IsAdmin:  user.AdminStatus,
		}, nil)
	}
}

func (s *Server) handleCreateAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.CreateAPIKeyRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		userID := c.MustGet("userID").(uint)
		key, apiErr := s.AuthService.CreateAPIKey(userID, request.Label)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "api key created, store the key now; it will not be shown again", http.StatusCreated, key, nil)
	}
}

func (s *Server) handleListAPIKeys() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint)
		keys, err := s.AuthService.ListAPIKeys(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, keys, nil)
	}
}

func (s *Server) handleRevokeAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		keyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid key id"))
			return
		}

		userID := c.MustGet("userID").(uint)
		revoked, revokeErr := s.AuthService.RevokeAPIKey(userID, uint(keyID))
		if revokeErr != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, revokeErr)
			return
		}
		if !revoked {
			response.JSON(c, "", http.StatusNotFound, nil, errs.ErrNotFound)
			return
		}
		response.JSON(c, "api key revoked", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleHealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "", http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}, nil)
	}
}
