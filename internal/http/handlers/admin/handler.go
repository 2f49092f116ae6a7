package admin

import "github.com/shopmitra/internal/provider"

// Handler serves the management API. Routes using it sit behind the JWT
// middleware plus the admin role and RBAC checks.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
