package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/opsconsole/server/response"
)

func (s *Server) handleGetRecommendations() gin.HandlerFunc {
	return func(c *gin.Context) {
		userKey := c.MustGet("userKey").(string)
		recommendations := s.RecommendationService.GetRecommendations(userKey)
		response.JSON(c, "", http.StatusOK, recommendations, nil)
	}
}
