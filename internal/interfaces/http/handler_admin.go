package http

import (
	"net/http"
	"strconv"

	"craftsmen_marketplace/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userRepo   *repository.UserRepository
	socialRepo *repository.SocialPostRepository
}

func NewAdminHandler(userRepo *repository.UserRepository, socialRepo *repository.SocialPostRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, socialRepo: socialRepo}
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active required"})
		return
	}
	if err := h.userRepo.SetActive(c.Request.Context(), id, req.IsActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "is_active": req.IsActive})
}

// GetStats summarizes accounts and monitored posts for the admin panel
func (h *AdminHandler) GetStats(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	active := 0
	for _, u := range users {
		if u.IsActive {
			active++
		}
	}

	monitored := 0
	if h.socialRepo != nil {
		posts, err := h.socialRepo.ListMonitored(c.Request.Context())
		if err == nil {
			monitored = len(posts)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":     len(users),
		"active_users":    active,
		"monitored_posts": monitored,
	})
}
