package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
)

// render executes a page template with the page title and the session user
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if user, ok := middleware.SessionFrom(c).User(); ok {
		data["User"] = user
		data["UserID"] = user.ID
	}
	c.HTML(status, name, data)
}

// renderError logs err and answers with the generic error page
func renderError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Error("❌ [Handler] Internal server error",
		"path", c.Request.URL.Path,
		"error", err,
	)
	render(c, http.StatusInternalServerError, "error.html", "Error", gin.H{
		"Message": "The request could not be completed. Please try again later.",
	})
}

// result is the body of the delete and edit endpoints
type result struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respond writes result as a JSON encoded string, the shape the client
// script parses.
func respond(c *gin.Context, status int, res result) {
	payload, err := json.Marshal(res)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(status, string(payload))
}
