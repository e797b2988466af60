package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/opsconsole/errors"
)

// JSON writes the standard response envelope used by every handler
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
	}

	responsedata := gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  status,
	}

	c.JSON(status, responsedata)
}

// HandleErrors maps service errors to the right status code
func HandleErrors(c *gin.Context, err error) {
	if apiErr, ok := err.(*errs.Error); ok {
		JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	JSON(c, "", http.StatusInternalServerError, nil, err)
}
