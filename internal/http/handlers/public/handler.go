package public

import "github.com/shopmitra/internal/provider"

// Handler serves the storefront API: auth, catalog browsing, cart and
// checkout quote endpoints.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
