package http

import (
	"errors"
	"net/http"
	"strconv"

	"craftsmen_marketplace/internal/entities"
	"craftsmen_marketplace/internal/usecases"

	"github.com/gin-gonic/gin"
)

// PublishProduct pushes one product to the requested platforms and
// returns the per-platform results. Partial failure is a 200: each
// platform reports its own outcome.
func (h *Handler) PublishProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	product, err := h.productRepo.GetByID(c.Request.Context(), id)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req struct {
		Platforms        []string          `json:"platforms"`
		Caption          string            `json:"caption"`
		PlatformCaptions map[string]string `json:"platform_captions"`
		Hashtags         []string          `json:"hashtags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Platforms) == 0 {
		req.Platforms = []string{entities.PlatformFacebook, entities.PlatformInstagram}
	}

	outcome, err := h.automation.PublishProduct(c.Request.Context(), usecases.PublishRequest{
		ProductID: product.ID,
		ImagePath: product.ImagePath,
		Content: entities.ProductContent{
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Category:    product.Category,
		},
		Platforms:        req.Platforms,
		Caption:          TruncateString(req.Caption, MaxCaptionLength),
		PlatformCaptions: req.PlatformCaptions,
		Hashtags:         req.Hashtags,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecases.ErrImageNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product has no image on disk; upload one first"})
		case errors.Is(err, usecases.ErrPublishInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "Publish already in progress for this product"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// MonitorProduct runs one on-demand comment sweep over the product's
// recorded posts.
func (h *Handler) MonitorProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	product, err := h.productRepo.GetByID(c.Request.Context(), id)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	postIDs := make(map[string]string)
	if product.FacebookPostID != "" {
		postIDs[entities.PlatformFacebook] = product.FacebookPostID
	}
	if product.InstagramPostID != "" {
		postIDs[entities.PlatformInstagram] = product.InstagramPostID
	}

	responses, err := h.automation.MonitorProduct(c.Request.Context(), postIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product has no published posts to monitor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

// GenerateCommentResponse returns a suggested reply without posting it.
func (h *Handler) GenerateCommentResponse(c *gin.Context) {
	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text required"})
		return
	}
	comment := TruncateString(SanitizeString(req.Comment), MaxCommentLength)
	c.JSON(http.StatusOK, gin.H{
		"comment":  comment,
		"response": h.automation.RespondToComment(c.Request.Context(), comment),
	})
}

func (h *Handler) GetBusinessStatus(c *gin.Context) {
	start, end := h.automation.BusinessHours(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"open":                 h.automation.IsOpen(c.Request.Context()),
		"business_hours_start": start,
		"business_hours_end":   end,
		"auto_respond":         h.automation.AutoRespondEnabled(),
	})
}

func (h *Handler) UpdateBusinessHours(c *gin.Context) {
	var req struct {
		Start string `json:"start" binding:"required"`
		End   string `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end required"})
		return
	}
	if !ValidClockValue(req.Start) || !ValidClockValue(req.End) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hours must be HH:MM"})
		return
	}
	if err := h.automation.UpdateBusinessHours(c.Request.Context(), req.Start, req.End); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business_hours_start": req.Start, "business_hours_end": req.End})
}

// GetEngagementStats lists the automated replies logged for a product's
// posts.
func (h *Handler) GetEngagementStats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	product, err := h.productRepo.GetByID(c.Request.Context(), id)
	if err != nil || product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	stats := gin.H{}
	total := 0
	if product.FacebookPostID != "" {
		replies, err := h.socialRepo.RepliesForPost(c.Request.Context(), entities.PlatformFacebook, product.FacebookPostID)
		if err == nil {
			stats[entities.PlatformFacebook] = replies
			total += len(replies)
		}
	}
	if product.InstagramPostID != "" {
		replies, err := h.socialRepo.RepliesForPost(c.Request.Context(), entities.PlatformInstagram, product.InstagramPostID)
		if err == nil {
			stats[entities.PlatformInstagram] = replies
			total += len(replies)
		}
	}
	c.JSON(http.StatusOK, gin.H{"replies": stats, "total_replies": total})
}

// HandleInboundMessage is the webhook for customer DMs arriving from
// external channels.
func (h *Handler) HandleInboundMessage(c *gin.Context) {
	var payload struct {
		From     string `json:"from" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Platform string `json:"platform"`
		Sender   string `json:"sender"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Platform == "" {
		payload.Platform = "web"
	}

	outcome := h.automation.HandleDirectMessage(c.Request.Context(), entities.Message{
		From:     payload.From,
		Content:  TruncateString(SanitizeString(payload.Content), MaxCommentLength),
		Platform: payload.Platform,
		Sender:   payload.Sender,
	})
	c.JSON(http.StatusOK, outcome)
}
