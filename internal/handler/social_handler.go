package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/middleware"
	"github.com/pricehive/pricehive/internal/service"
	"github.com/pricehive/pricehive/pkg/response"
)

// SocialHandler handles community feed HTTP requests
type SocialHandler struct {
	socialService service.SocialService
}

// NewSocialHandler creates a new SocialHandler
func NewSocialHandler(socialService service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// CreatePost publishes a post
// POST /api/posts
func (h *SocialHandler) CreatePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.socialService.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListPosts returns the feed
// GET /api/posts
func (h *SocialHandler) ListPosts(c *gin.Context) {
	result, err := h.socialService.ListPosts(c.Request.Context(), queryInt(c, "limit", 50))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// React toggles the caller's reaction on a post
// POST /api/posts/:id/react
func (h *SocialHandler) React(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.socialService.React(c.Request.Context(), userID, c.Param("id"), req.Reaction)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateComment adds a comment to a post
// POST /api/posts/:id/comments
func (h *SocialHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.socialService.CreateComment(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListComments returns a post's comments
// GET /api/posts/:id/comments
func (h *SocialHandler) ListComments(c *gin.Context) {
	result, err := h.socialService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
