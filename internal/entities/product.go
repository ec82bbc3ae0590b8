package entities

import "time"

type Product struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	ImagePath       string    `json:"image_path"`
	AICaption       string    `json:"ai_generated_caption"`
	FacebookPostID  string    `json:"facebook_post_id"`
	InstagramPostID string    `json:"instagram_post_id"`
	IsActive        bool      `json:"is_active"`
	OwnerID         int       `json:"owner_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProductContent is the transient input to caption generation.
// Nothing here is persisted by the automation layer.
type ProductContent struct {
	Name        string
	Description string
	Price       float64 // 0 means "no price given"
	Category    string
}

type Order struct {
	ID              int         `json:"id"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"` // pending, confirmed, completed, cancelled
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email"`
	DeliveryAddress string      `json:"delivery_address"`
	Notes           string      `json:"notes"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        int     `json:"id"`
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
