package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/opsconsole/models"
	"github.com/techagentng/opsconsole/server/response"
)

func (s *Server) handleFormatCode() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.FormatCodeRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		formatted, apiErr := s.CodeService.FormatCode(request.Language, request.Source)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, formatted, nil)
	}
}

func (s *Server) handleValidateCode() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ValidateCodeRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		result, apiErr := s.CodeService.ValidateCode(request.Language, request.Source)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, result, nil)
	}
}
