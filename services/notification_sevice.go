package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/opsconsole/db"
	apiError "github.com/techagentng/opsconsole/errors"
	"github.com/techagentng/opsconsole/models"
	"github.com/techagentng/opsconsole/realtime"
)

// NotificationService owns notification creation and query semantics and
// bridges creation events to the realtime broker for push delivery.
type NotificationService interface {
	SendNotification(userID, message, notificationType string) (*models.Notification, *apiError.Error)
	GetNotifications(userID string, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(userID, notificationID string) (bool, error)
	BroadcastNotification(message, notificationType string) *apiError.Error
}

type notificationService struct {
	notificationRepo db.NotificationRepository
	broker           realtime.Broker
}

func NewNotificationService(notificationRepo db.NotificationRepository, broker realtime.Broker) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		broker:           broker,
	}
}

// SendNotification stores a new notification and pushes it to any channel
// the target user has open. The store write is the durable record; the push
// is fire-and-forget and can never fail the call.
func (s *notificationService) SendNotification(userID, message, notificationType string) (*models.Notification, *apiError.Error) {
	if userID == "" {
		return nil, apiError.New("user_id is required", http.StatusBadRequest)
	}
	if message == "" {
		return nil, apiError.New("message is required", http.StatusBadRequest)
	}
	if notificationType == "" {
		notificationType = "info"
	}

	notification := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		Read:      false,
		Timestamp: time.Now().UTC(),
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("SendNotification error creating notification: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.publish(notification)

	return notification, nil
}

// publish hands the serialized notification to the broker. The payload
// pushed over a channel is the same object shape as the creation response.
func (s *notificationService) publish(notification *models.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		log.Printf("publish error serializing notification %s: %v", notification.ID, err)
		return
	}

	env := realtime.PushEnvelope{
		UserID:  notification.UserID,
		Payload: payload,
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("publish error serializing envelope for %s: %v", notification.ID, err)
		return
	}

	if err := s.broker.Publish(context.Background(), realtime.SubjectNotify, data); err != nil {
		log.Printf("publish error for notification %s: %v", notification.ID, err)
	}
}

func (s *notificationService) GetNotifications(userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.notificationRepo.GetNotificationsByUserID(userID, unreadOnly)
}

// MarkAsRead flips a notification to read. False means the user owns no
// notification with that id; the handler decides the response semantics.
func (s *notificationService) MarkAsRead(userID, notificationID string) (bool, error) {
	return s.notificationRepo.MarkNotificationRead(userID, notificationID)
}

// BroadcastNotification pushes a system notice to every open channel. It is
// push-only: system notices are not persisted per user.
func (s *notificationService) BroadcastNotification(message, notificationType string) *apiError.Error {
	if message == "" {
		return apiError.New("message is required", http.StatusBadRequest)
	}
	if notificationType == "" {
		notificationType = "info"
	}

	notice := models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Type:      notificationType,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		log.Printf("BroadcastNotification error serializing notice: %v", err)
		return apiError.ErrInternalServerError
	}

	if err := s.broker.Publish(context.Background(), realtime.SubjectBroadcast, payload); err != nil {
		log.Printf("BroadcastNotification publish error: %v", err)
	}
	return nil
}
