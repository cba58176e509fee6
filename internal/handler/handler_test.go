package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/testutil"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/web"
)

const sessionToken = "token"

var sessionUser = &models.User{ID: 7, Name: "Jane"}

func init() {
	gin.SetMode(gin.TestMode)
}

// limiterStub lets a test decide the throttle outcome
type limiterStub struct {
	allowed  bool
	err      error
	attempts int
	resets   int
}

func (l *limiterStub) Allow(ctx context.Context, email string) (bool, error) {
	l.attempts++
	return l.allowed, l.err
}

func (l *limiterStub) Reset(ctx context.Context, email string) error {
	l.resets++
	return nil
}

func newEngine(authService *testutil.MockAuthService) *gin.Engine {
	authService.On("ResolveSession", mock.Anything, sessionToken).Return(sessionUser, nil).Maybe()

	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	r.Use(middleware.NewSessionMiddleware(authService, logger.Discard()).LoadSession())
	return r
}

func post(r http.Handler, path string, form url.Values, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authenticated {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionToken})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sessionToken})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== AuthHandler ====================

func setupAuth(limiter middleware.LoginLimiter) (*gin.Engine, *testutil.MockAuthService) {
	authService := new(testutil.MockAuthService)
	h := handler.NewAuthHandler(authService, limiter, &config.Config{SessionTTL: 60}, logger.Discard())

	r := newEngine(authService)
	r.POST("/", h.Login)
	r.POST("/register", h.Register)
	r.GET("/logout", h.Logout)
	return r, authService
}

func TestAuthHandler_LoginStoreFailure(t *testing.T) {
	limiter := &limiterStub{allowed: true}
	r, authService := setupAuth(limiter)
	authService.On("Login", mock.Anything, "a@b.com", "pw").Return(nil, "", errors.New("redis down"))

	w := post(r, "/", url.Values{"emailId": {"a@b.com"}, "password": {"pw"}}, false)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
	assert.Zero(t, limiter.resets)
}

func TestAuthHandler_LoginCountsAttempts(t *testing.T) {
	limiter := &limiterStub{allowed: true}
	r, authService := setupAuth(limiter)
	authService.On("Login", mock.Anything, "a@b.com", "bad").Return(nil, "", service.ErrInvalidCredentials)
	authService.On("Login", mock.Anything, "a@b.com", "good").Return(sessionUser, "new-token", nil)

	post(r, "/", url.Values{"emailId": {"a@b.com"}, "password": {"bad"}}, false)
	assert.Equal(t, 1, limiter.attempts)
	assert.Zero(t, limiter.resets)

	w := post(r, "/", url.Values{"emailId": {"a@b.com"}, "password": {"good"}}, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 2, limiter.attempts)
	assert.Equal(t, 1, limiter.resets)
}

func TestAuthHandler_LoginThrottleUnavailableAllows(t *testing.T) {
	limiter := &limiterStub{allowed: true, err: errors.New("redis down")}
	r, authService := setupAuth(limiter)
	authService.On("Login", mock.Anything, "a@b.com", "good").Return(sessionUser, "new-token", nil)

	w := post(r, "/", url.Values{"emailId": {"a@b.com"}, "password": {"good"}}, false)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAuthHandler_LoginThrottled(t *testing.T) {
	r, authService := setupAuth(&limiterStub{allowed: false})

	w := post(r, "/", url.Values{"emailId": {"a@b.com"}, "password": {"good"}}, false)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	authService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_EmptyPostShowsForm(t *testing.T) {
	tests := []struct {
		path   string
		marker string
	}{
		{"/", `action="/"`},
		{"/register", `action="/register"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			limiter := &limiterStub{allowed: true}
			r, authService := setupAuth(limiter)

			w := post(r, tt.path, url.Values{}, false)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.marker)
			assert.NotContains(t, w.Body.String(), `class="error"`)
			assert.Zero(t, limiter.attempts)
			authService.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
			authService.AssertNotCalled(t, "Register", mock.Anything)
		})
	}
}

func TestAuthHandler_RegisterStoreFailure(t *testing.T) {
	r, authService := setupAuth(&limiterStub{allowed: true})
	authService.On("Register", mock.Anything).Return(nil, errors.New("db down"))

	w := post(r, "/register", url.Values{"name": {"Jane"}}, false)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandler_RegisterEchoesInput(t *testing.T) {
	r, authService := setupAuth(&limiterStub{allowed: true})
	authService.On("Register", service.RegisterInput{Name: "J0hn", EmailID: "john@example.com", Password: "x"}).
		Return(nil, &service.ValidationError{Fields: map[string]string{"name": "* Name should contain only alphabet"}})

	w := post(r, "/register", url.Values{"name": {"J0hn"}, "emailId": {"john@example.com"}, "password": {"x"}}, false)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `value="john@example.com"`)
	assert.NotContains(t, w.Body.String(), `value="x"`)
}

func TestAuthHandler_LogoutRevokeFailureStillClears(t *testing.T) {
	r, authService := setupAuth(&limiterStub{allowed: true})
	authService.On("Logout", mock.Anything, sessionToken).Return(errors.New("redis down"))

	w := get(r, "/logout")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Len(t, w.Result().Cookies(), 2)
	authService.AssertExpectations(t)
}

// ==================== StockHandler ====================

func setupStocks() (*gin.Engine, *testutil.MockStockService) {
	stockService := new(testutil.MockStockService)
	h := handler.NewStockHandler(stockService, logger.Discard())

	r := newEngine(new(testutil.MockAuthService))
	r.GET("/stock-board", h.Board)
	r.POST("/deletestock", h.Delete)
	r.POST("/editstock", h.Edit)
	r.POST("/update", h.Refresh)
	return r, stockService
}

func TestStockHandler_BoardFailure(t *testing.T) {
	r, stockService := setupStocks()
	stockService.On("ListAll").Return(nil, errors.New("db down"))

	w := get(r, "/stock-board")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStockHandler_WithoutSessionRedirects(t *testing.T) {
	r, stockService := setupStocks()

	w := post(r, "/deletestock", url.Values{"stockId": {"1"}}, false)

	assert.Equal(t, http.StatusFound, w.Code)
	stockService.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStockHandler_DeleteErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		expectCode int
		expectBody string
	}{
		{"deleted", nil, http.StatusOK, `"{\"success\":true}"`},
		{"missing", repository.ErrStockNotFound, http.StatusNotFound, `"{\"success\":false}"`},
		{"not owner", service.ErrStockNotOwned, http.StatusForbidden, `"{\"success\":false}"`},
		{"store failure", errors.New("db down"), http.StatusInternalServerError, `"{\"success\":false}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stockService := setupStocks()
			stockService.On("Delete", sessionUser.ID, uint(3)).Return(tt.err)

			w := post(r, "/deletestock", url.Values{"stockId": {"3"}}, true)

			assert.Equal(t, tt.expectCode, w.Code)
			assert.Equal(t, tt.expectBody, w.Body.String())
		})
	}
}

func TestStockHandler_DeleteBadID(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-1"} {
		r, stockService := setupStocks()

		w := post(r, "/deletestock", url.Values{"stockId": {raw}}, true)

		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		stockService.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	}
}

func TestStockHandler_EditPassesForm(t *testing.T) {
	r, stockService := setupStocks()
	input := service.StockInput{Name: "ACME", Price: "11"}
	stockService.On("Update", sessionUser.ID, uint(3), input).Return(&models.Stock{ID: 3}, nil)

	w := post(r, "/editstock", url.Values{"stockId": {"3"}, "name": {"ACME"}, "price": {"11"}}, true)

	assert.Equal(t, http.StatusOK, w.Code)
	stockService.AssertExpectations(t)
}

func TestStockHandler_RefreshSelectsView(t *testing.T) {
	tests := []struct {
		origin string
		view   service.View
	}{
		{"/stock-entry", service.ViewEntry},
		{"/stock-board", service.ViewBoard},
		{"/stock-entry/", service.ViewBoard},
		{"", service.ViewBoard},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r, stockService := setupStocks()
			stockService.On("ListForView", tt.view, sessionUser.ID).Return([]models.Stock{
				{ID: 1, Name: "ACME", Price: 10.5, OwnerID: sessionUser.ID, Owner: *sessionUser},
			}, nil)

			w := post(r, "/update", url.Values{"url": {tt.origin}}, true)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "ACME")
			assert.Contains(t, w.Body.String(), `class="delete"`)
			stockService.AssertExpectations(t)
		})
	}
}
