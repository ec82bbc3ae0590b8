package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// GetWhatsAppQR returns the login QR code PNG for the business account
func (h *Handler) GetWhatsAppQR(c *gin.Context) {
	if h.waClient == nil {
		c.String(http.StatusServiceUnavailable, "WhatsApp not configured")
		return
	}

	qrCodeString := h.waClient.GetQR()
	if qrCodeString == "" {
		if h.waClient.IsLoggedIn() {
			c.String(http.StatusOK, "Already logged in")
			return
		}
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}

	png, err := qrcode.Encode(qrCodeString, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetWhatsAppStatus returns the connection state of the business account
func (h *Handler) GetWhatsAppStatus(c *gin.Context) {
	if h.waClient == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "error": "WhatsApp not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": h.waClient.IsConnected(),
		"logged_in": h.waClient.IsLoggedIn(),
		"hasQR":     h.waClient.GetQR() != "",
	})
}

// LogoutWhatsApp ends the business WhatsApp session
func (h *Handler) LogoutWhatsApp(c *gin.Context) {
	if h.waClient == nil {
		c.JSON(http.StatusOK, gin.H{"status": "logged_out", "message": "WhatsApp not configured"})
		return
	}

	// Attempt logout - errors are logged but not returned to user
	if err := h.waClient.Logout(); err != nil {
		fmt.Printf("[HTTP] WhatsApp logout warning: %v\n", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
