package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"craftsmen_marketplace/internal/entities"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

func (h *Handler) GetAllProducts(c *gin.Context) {
	var (
		products []entities.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = h.productRepo.GetByCategory(c.Request.Context(), category)
	} else {
		products, err = h.productRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	product, err := h.productRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ValidateLength(req.Name, 1, MaxProductNameLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name too long"})
		return
	}

	product := &entities.Product{
		Name:        SanitizeString(req.Name),
		Description: TruncateString(SanitizeString(req.Description), MaxDescriptionLength),
		Price:       req.Price,
		Category:    SanitizeString(req.Category),
		IsActive:    true,
		OwnerID:     getUserID(c),
	}
	if err := h.productRepo.Create(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	existing, err := h.productRepo.GetByID(c.Request.Context(), id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing.Name = SanitizeString(req.Name)
	existing.Description = TruncateString(SanitizeString(req.Description), MaxDescriptionLength)
	existing.Price = req.Price
	existing.Category = SanitizeString(req.Category)

	if err := h.productRepo.Update(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	if err := h.productRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UploadProductImage stores the product photo on disk (and mirrors it to
// object storage when configured), then records the local path.
func (h *Handler) UploadProductImage(c *gin.Context) {
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

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}
	if !ValidImageName(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type (jpg, jpeg, png, webp)"})
		return
	}
	if fileHeader.Size > h.cfg.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds maximum size"})
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	localPath := filepath.Join(h.cfg.UploadDir, fmt.Sprintf("product_%d%s", id, ext))
	if err := c.SaveUploadedFile(fileHeader, localPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	mirrored := ""
	if h.imageStore != nil && h.imageStore.Enabled() {
		file, err := fileHeader.Open()
		if err == nil {
			mirrored, err = h.imageStore.Mirror(c.Request.Context(), id, fileHeader.Filename, file, fileHeader.Size)
			file.Close()
			if err != nil {
				fmt.Printf("[HTTP] image mirror failed for product %d: %v\n", id, err)
			}
		}
	}

	product.ImagePath = localPath
	if err := h.productRepo.Update(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record image path"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_path": localPath, "mirrored_to": mirrored})
}

// GetProductShareQR renders a QR code PNG linking to the product page.
func (h *Handler) GetProductShareQR(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid product id")
		return
	}
	product, err := h.productRepo.GetByID(c.Request.Context(), id)
	if err != nil || product == nil {
		c.String(http.StatusNotFound, "Product not found")
		return
	}

	shareURL := fmt.Sprintf("%s/products/%d", h.cfg.ShareBaseURL, product.ID)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
