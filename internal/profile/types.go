package profile

// UserProfile is the record a user submits to request a projection. It is
// immutable once submitted; the core never persists it on its own.
type UserProfile struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Country string `json:"country"`
	Dream   string `json:"dream"`
}

const (
	MinAge = 1
	MaxAge = 100
)
