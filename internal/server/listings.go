package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zenoml/showcase/internal/spaces"
)

type spaceRequestPayload struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	URL        string `json:"url"`
	Category   string `json:"category"`
	Runtime    string `json:"runtime"`
	Gradient   string `json:"gradient"`
	Repository string `json:"repository"`
	RepoIcon   string `json:"repoIcon"`
	Visibility string `json:"visibility"`
}

func (p spaceRequestPayload) toInput() spaces.SpaceInput {
	return spaces.SpaceInput{
		Title:      p.Title,
		Subtitle:   p.Subtitle,
		URL:        p.URL,
		Category:   p.Category,
		Runtime:    p.Runtime,
		Gradient:   p.Gradient,
		Repository: p.Repository,
		RepoIcon:   p.RepoIcon,
		Visibility: p.Visibility,
	}
}

func (h *httpHandler) handleListSpaces(c *gin.Context) {
	query := spaces.ListQuery{
		Search:   c.Query("q"),
		Sort:     spaces.ParseSortMode(c.Query("sort")),
		Category: c.Query("category"),
	}

	views, err := h.spaces.List(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if views == nil {
		views = []spaces.SpaceView{}
	}
	c.JSON(http.StatusOK, gin.H{"spaces": views})
}

func (h *httpHandler) handleCreateSpace(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request spaceRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	space, err := h.spaces.Create(c.Request.Context(), userID, request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"space": space})
}

func (h *httpHandler) handleUpdateSpace(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request spaceRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	space, err := h.spaces.Update(c.Request.Context(), userID, c.Param("id"), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"space": space})
}

func (h *httpHandler) handleDeleteSpace(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.spaces.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "space deleted"})
}

type clickRequestPayload struct {
	SpaceID string `json:"spaceId"`
}

func (h *httpHandler) handleRecordClick(c *gin.Context) {
	var request clickRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	count, err := h.spaces.RecordClick(c.Request.Context(), request.SpaceID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clickCount": count})
}

func (h *httpHandler) handleClickCount(c *gin.Context) {
	count, err := h.spaces.ClickCount(c.Request.Context(), c.Query("spaceId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clickCount": count})
}

func (h *httpHandler) handleAnalytics(c *gin.Context) {
	snapshot, err := h.spaces.AnalyticsSnapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
