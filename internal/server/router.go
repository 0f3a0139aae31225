package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zenoml/showcase/internal/apperror"
	"github.com/zenoml/showcase/internal/spaces"
	"github.com/zenoml/showcase/internal/users"
)

const userIDContextKey = "showcase_user_id"

var (
	errMissingTokenManager  = errors.New("token manager dependency required")
	errMissingUserService   = errors.New("user service dependency required")
	errMissingSpaceService  = errors.New("space service dependency required")
	errInvalidAuthorization = errors.New("authorization header or session cookie missing or invalid")
)

// SessionTokenManager issues and validates session tokens.
type SessionTokenManager interface {
	IssueSessionToken(userID string) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies wires the HTTP layer to the services it fronts.
type Dependencies struct {
	Users           *users.Service
	Spaces          *spaces.Service
	Tokens          SessionTokenManager
	Logger          *zap.Logger
	CookieName      string
	AnalyticsPublic bool
}

// NewHTTPHandler builds the full route table.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Tokens == nil {
		return nil, errMissingTokenManager
	}
	if deps.Users == nil {
		return nil, errMissingUserService
	}
	if deps.Spaces == nil {
		return nil, errMissingSpaceService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cookieName := strings.TrimSpace(deps.CookieName)
	if cookieName == "" {
		cookieName = "showcase_session"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		users:           deps.Users,
		spaces:          deps.Spaces,
		tokens:          deps.Tokens,
		logger:          logger,
		cookieName:      cookieName,
		analyticsPublic: deps.AnalyticsPublic,
	}

	router.POST("/signup", handler.handleSignup)
	router.POST("/login", handler.handleLogin)
	router.POST("/logout", handler.handleLogout)

	router.GET("/spaces", handler.handleListSpaces)
	router.POST("/spaces/click", handler.handleRecordClick)
	router.GET("/spaces/click", handler.handleClickCount)

	if deps.AnalyticsPublic {
		router.GET("/analytics", handler.handleAnalytics)
	}

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.POST("/spaces", handler.handleCreateSpace)
	protected.PUT("/spaces/:id", handler.handleUpdateSpace)
	protected.DELETE("/spaces/:id", handler.handleDeleteSpace)
	protected.GET("/profile", handler.handleProfile)
	protected.POST("/profile/update", handler.handleUpdateProfile)
	if !deps.AnalyticsPublic {
		protected.GET("/analytics", handler.handleAnalytics)
	}

	return router, nil
}

type httpHandler struct {
	users           *users.Service
	spaces          *spaces.Service
	tokens          SessionTokenManager
	logger          *zap.Logger
	cookieName      string
	analyticsPublic bool
}

// authorizeRequest accepts a Bearer token or, failing that, the session
// cookie. Browser clients rely on the cookie; API clients send the header.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	token := ""
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if token == "" {
		if cookie, err := c.Cookie(h.cookieName); err == nil {
			token = cookie
		}
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}

	subject, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(userIDContextKey, subject)
	c.Next()
}

// respondError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is an unexpected failure: logged with its service code,
// reported generically.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}
		payload := gin.H{"error": appErr.Message}
		if appErr.Field != "" {
			payload["field"] = appErr.Field
		}
		c.JSON(status, payload)
		return
	}

	payload := gin.H{"error": "internal server error"}
	if code := serviceErrorCode(err); code != "" {
		payload["code"] = code
	}
	h.logger.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, payload)
}

type coded interface {
	Code() string
}

func serviceErrorCode(err error) string {
	var withCode coded
	if errors.As(err, &withCode) {
		return withCode.Code()
	}
	return ""
}
