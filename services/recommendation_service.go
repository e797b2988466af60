package services

import (
	"fmt"
	"log"

	"github.com/techagentng/opsconsole/db"
	"github.com/techagentng/opsconsole/models"
)

// RecommendationService surfaces suggested actions on the console dashboard.
// The rules are intentionally simple; the endpoint exists so the frontend
// contract is stable while smarter analysis lands behind it.
type RecommendationService interface {
	GetRecommendations(userKey string) []models.Recommendation
}

type recommendationService struct {
	notificationRepo db.NotificationRepository
}

func NewRecommendationService(notificationRepo db.NotificationRepository) RecommendationService {
	return &recommendationService{notificationRepo: notificationRepo}
}

func (s *recommendationService) GetRecommendations(userKey string) []models.Recommendation {
	recommendations := []models.Recommendation{
		{
			ID:       "rotate-api-keys",
			Title:    "Rotate long-lived API keys",
			Detail:   "Revoke keys that have not been used recently and issue fresh ones.",
			Severity: "info",
		},
		{
			ID:       "validate-before-deploy",
			Title:    "Validate configuration before deploying",
			Detail:   "Run manifests through /code/validate to catch syntax errors before rollout.",
			Severity: "info",
		},
	}

	if unreadErrors, err := s.notificationRepo.CountUnreadByType(userKey, "error"); err != nil {
		log.Printf("GetRecommendations error counting unread errors: %v", err)
	} else if unreadErrors > 0 {
		recommendations = append(recommendations, models.Recommendation{
			ID:       "triage-error-alerts",
			Title:    fmt.Sprintf("Triage %d unread error alerts", unreadErrors),
			Detail:   "Unread error notifications usually mean a pipeline needs attention.",
			Severity: "warning",
		})
	}

	if unreadWarnings, err := s.notificationRepo.CountUnreadByType(userKey, "warning"); err != nil {
		log.Printf("GetRecommendations error counting unread warnings: %v", err)
	} else if unreadWarnings > 3 {
		recommendations = append(recommendations, models.Recommendation{
			ID:       "review-warning-backlog",
			Title:    fmt.Sprintf("Review %d unread warnings", unreadWarnings),
			Detail:   "A growing warning backlog tends to hide real failures.",
			Severity: "info",
		})
	}

	return recommendations
}
