package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
)

// entryPath is the page whose table shows only the user's own stocks
const entryPath = "/stock-entry"

// StockHandler serves the stock pages and the table actions
type StockHandler struct {
	service service.StockService
	logger  *slog.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service service.StockService, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		logger:  logger,
	}
}

// currentUser returns the session user; routes are mounted behind RequireSession
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.SessionFrom(c).User()
	if !ok {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
	return user, ok
}

// viewForPath maps the page a refresh came from to the listing it shows
func viewForPath(path string) service.View {
	if path == entryPath {
		return service.ViewEntry
	}
	return service.ViewBoard
}

// Board handles GET /stock-board
func (h *StockHandler) Board(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	stocks, err := h.service.ListAll()
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	render(c, http.StatusOK, "stock_board.html", "Stock board", gin.H{
		"Stocks": stocks,
	})
}

// Entry handles GET /stock-entry
func (h *StockHandler) Entry(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	h.renderEntry(c, http.StatusOK, user.ID, gin.H{
		"Errors": map[string]string{},
		"Name":   "",
		"Price":  "",
	})
}

// CreateEntry handles POST /stock-entry
func (h *StockHandler) CreateEntry(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input service.StockInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("⚠️ [Handler] Unreadable stock form", "error", err)
	}

	if _, err := h.service.Create(user.ID, input); err != nil {
		if vErr, ok := service.AsValidationError(err); ok {
			h.renderEntry(c, http.StatusUnprocessableEntity, user.ID, gin.H{
				"Errors": vErr.Fields,
				"Name":   input.Name,
				"Price":  input.Price,
			})
			return
		}
		renderError(c, h.logger, err)
		return
	}

	h.renderEntry(c, http.StatusOK, user.ID, gin.H{
		"Errors": map[string]string{},
		"Name":   "",
		"Price":  "",
	})
}

func (h *StockHandler) renderEntry(c *gin.Context, status int, userID uint, data gin.H) {
	stocks, err := h.service.ListOwned(userID)
	if err != nil {
		renderError(c, h.logger, err)
		return
	}

	data["Stocks"] = stocks
	render(c, status, "stock_entry.html", "My stocks", data)
}

// Delete handles POST /deletestock
func (h *StockHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stockID, err := parseStockID(c.PostForm("stockId"))
	if err != nil {
		respond(c, http.StatusBadRequest, result{})
		return
	}

	if err := h.service.Delete(user.ID, stockID); err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusOK, result{Success: true})
}

// Edit handles POST /editstock
func (h *StockHandler) Edit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stockID, err := parseStockID(c.PostForm("stockId"))
	if err != nil {
		respond(c, http.StatusBadRequest, result{})
		return
	}

	var input service.StockInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("⚠️ [Handler] Unreadable stock form", "error", err)
	}

	if _, err := h.service.Update(user.ID, stockID, input); err != nil {
		h.respondError(c, err)
		return
	}

	respond(c, http.StatusOK, result{Success: true})
}

// Refresh handles POST /update and renders only the stock table
func (h *StockHandler) Refresh(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stocks, err := h.service.ListForView(viewForPath(c.PostForm("url")), user.ID)
	if err != nil {
		h.logger.Error("❌ [Handler] Failed to list stocks", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "stocks_table.html", gin.H{
		"Stocks": stocks,
		"UserID": user.ID,
	})
}

// respondError maps service errors to the action endpoints' responses
func (h *StockHandler) respondError(c *gin.Context, err error) {
	if vErr, ok := service.AsValidationError(err); ok {
		respond(c, http.StatusBadRequest, result{Errors: vErr.Fields})
		return
	}

	switch {
	case errors.Is(err, repository.ErrStockNotFound):
		respond(c, http.StatusNotFound, result{})
	case errors.Is(err, service.ErrStockNotOwned):
		respond(c, http.StatusForbidden, result{})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "path", c.Request.URL.Path, "error", err)
		respond(c, http.StatusInternalServerError, result{})
	}
}

func parseStockID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid stock id")
	}
	return uint(id), nil
}
