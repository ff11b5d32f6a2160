package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sgcommute/service-fareroute/internal/platform/apperror"
)

// PaginatedBody is the envelope used by list endpoints.
type PaginatedBody struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Success writes a 200 response with data as the body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Paginated writes a 200 response wrapping items in a PaginatedBody.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PaginatedBody{Items: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 `{error: message}` response.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error maps err to a status code and writes `{error: message}`.
// Errors that are not *apperror.Error never leak their text.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		_ = c.Error(err)
		c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
