package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopmitra/internal/http/response"
	"github.com/shopmitra/internal/models"
	"github.com/shopmitra/internal/repository"
	"github.com/shopmitra/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView is a catalog row with its derived availability.
type PublicProductView struct {
	models.Product
	Availability string `json:"availability"`
}

// GetProducts lists the catalog. Discontinued products are hidden;
// out-of-stock rows stay visible with their availability flag.
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:        page,
		PageSize:    pageSize,
		Category:    strings.TrimSpace(c.Query("category")),
		Search:      strings.TrimSpace(c.Query("search")),
		HideRetired: true,
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "Product fetch failed", err)
		return
	}

	decorated := make([]PublicProductView, 0, len(products))
	for i := range products {
		decorated = append(decorated, PublicProductView{
			Product:      products[i],
			Availability: products[i].Availability(),
		})
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, decorated, pagination)
}

// GetProduct returns one product with its availability.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "Invalid product id", nil)
		return
	}

	product, err := h.ProductService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "Product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "Product fetch failed", err)
		return
	}

	response.Success(c, PublicProductView{
		Product:      *product,
		Availability: product.Availability(),
	})
}
