package entities

// Message is an inbound free-text message (comment or DM) from a customer.
// Classified once, never stored by the automation layer.
type Message struct {
	ID       string
	From     string
	To       string
	Content  string
	Platform string // e.g. "facebook", "instagram", "whatsapp", "web"
	Sender   string // display name, when the platform provides one
}
