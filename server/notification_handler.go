package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/opsconsole/errors"
	"github.com/techagentng/opsconsole/models"
	"github.com/techagentng/opsconsole/server/response"
)

func (s *Server) handleCreateNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.CreateNotificationRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		notification, apiErr := s.NotificationService.SendNotification(request.UserID, request.Message, request.Type)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "notification sent", http.StatusCreated, notification, nil)
	}
}

func (s *Server) handleGetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userKey := c.MustGet("userKey").(string)

		unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
		notifications, err := s.NotificationService.GetNotifications(userKey, unreadOnly)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userKey := c.MustGet("userKey").(string)
		notificationID := c.Param("id")

		success, err := s.NotificationService.MarkAsRead(userKey, notificationID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if !success {
			response.JSON(c, "", http.StatusNotFound, models.MarkReadResponse{Success: false}, errs.ErrNotFound)
			return
		}
		response.JSON(c, "", http.StatusOK, models.MarkReadResponse{Success: true}, nil)
	}
}

func (s *Server) handleBroadcastNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.BroadcastNotificationRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if apiErr := s.NotificationService.BroadcastNotification(request.Message, request.Type); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "broadcast sent", http.StatusOK, nil, nil)
	}
}
