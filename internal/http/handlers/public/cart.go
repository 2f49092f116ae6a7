package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopmitra/internal/constants"
	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
)

// AddToCartRequest adds a product to the cart.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartQuantityRequest steps a line's quantity by one.
type UpdateCartQuantityRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// CartLineResponse is one cart line with its catalog snapshot. AddedAt is
// rendered in the configured display timezone.
type CartLineResponse struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	AddedAt   string          `json:"added_at"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   *models.Product `json:"product,omitempty"`
}

// CartResponse is the rendered cart.
type CartResponse struct {
	CartID     uint               `json:"cart_id"`
	Items      []CartLineResponse `json:"items"`
	TotalPrice models.Money       `json:"total_price"`
}

// GetCart returns the cart with its total recomputed from the catalog.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	detail, err := h.CartService.GetCart(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.renderCart(detail))
}

// AddToCart adds a product, merging into an existing line when present.
func (h *Handler) AddToCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Product id is required", err)
		return
	}
	detail, err := h.CartService.AddItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product added to cart", h.renderCart(detail))
}

// RemoveFromCart removes a product's line from the cart.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "Invalid product id", nil)
		return
	}
	detail, err := h.CartService.RemoveItem(uid, uint(productID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product removed from cart", h.renderCart(detail))
}

// UpdateCartQuantity steps a line quantity up or down by one.
func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Product id and action are required", err)
		return
	}
	detail, err := h.CartService.AdjustQuantity(uid, req.ProductID, strings.ToLower(strings.TrimSpace(req.Action)))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Cart updated", h.renderCart(detail))
}

// BuyNow prices the cart for checkout without committing anything.
func (h *Handler) BuyNow(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	quote, err := h.CheckoutService.Quote(uid)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, gin.H{
		"cart":             h.renderCart(quote.Cart),
		"total_price":      quote.TotalPrice,
		"shipping_charges": quote.ShippingCharges,
		"billing_price":    quote.BillingPrice,
	})
}

func (h *Handler) renderCart(detail *service.CartDetail) CartResponse {
	loc := h.displayLocation()
	items := make([]CartLineResponse, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, CartLineResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt.In(loc).Format(time.RFC3339),
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Product:   item.Product,
		})
	}
	return CartResponse{
		CartID:     detail.CartID,
		Items:      items,
		TotalPrice: detail.TotalPrice,
	}
}

func (h *Handler) displayLocation() *time.Location {
	name := constants.DisplayTimezoneDefault
	if h.Config != nil && strings.TrimSpace(h.Config.Cart.DisplayTimezone) != "" {
		name = strings.TrimSpace(h.Config.Cart.DisplayTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
