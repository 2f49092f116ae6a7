package admin

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

// CreateProductRequest is the admin create form. Price accepts a decimal
// string or a JSON number.
type CreateProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Category    string       `json:"category" binding:"required"`
	Brand       string       `json:"brand" binding:"required"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	Images      []string     `json:"images"`
}

// UpdateProductRequest is a partial update. Absent fields keep their stored
// value.
type UpdateProductRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Brand       *string       `json:"brand"`
	Price       *models.Money `json:"price"`
	Stock       *int          `json:"stock"`
	Images      []string      `json:"images"`
}

// AdminProductView is a catalog row with its derived availability.
type AdminProductView struct {
	models.Product
	Availability string `json:"availability"`
}

// GetAdminProducts lists the catalog for management, discontinued rows
// included.
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "Product fetch failed", err)
		return
	}

	rows := make([]AdminProductView, 0, len(products))
	for i := range products {
		rows = append(rows, AdminProductView{
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
	response.SuccessWithPage(c, rows, pagination)
}

// GetAdminProduct returns one product for management.
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.ProductService.Get(id)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, AdminProductView{
		Product:      *product,
		Availability: product.Availability(),
	})
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "All fields are required", err)
		return
	}

	product, err := h.ProductService.Create(service.ProductCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product created", product)
}

// UpdateProduct applies a partial update. Price changes schedule a cart
// total refresh in the background.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "Invalid product payload", err)
		return
	}

	product, err := h.ProductService.Update(id, service.ProductUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product updated", product)
}

// DeleteProduct discontinues a product. The row is kept so existing cart
// lines keep pricing against it.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.ProductService.SoftDelete(id); err != nil {
		respondProductError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Product deleted", gin.H{"id": id})
}

func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "Invalid product id", nil)
		return 0, false
	}
	return uint(id), true
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "Product not found", nil)
	case errors.Is(err, service.ErrProductInvalid):
		respondError(c, response.CodeBadRequest, "Product fields are invalid", nil)
	case errors.Is(err, service.ErrProductImageMissing):
		respondError(c, response.CodeBadRequest, "At least one product image is required", nil)
	default:
		respondError(c, response.CodeInternal, "Product save failed", err)
	}
}
