// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

// ProductHandler serves the public catalog. Only approved products are
// visible here, regardless of who is asking.
type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	approved := true
	listParams := services.ProductListParams{
		PaginationParams: params,
		Approved:         &approved,
	}

	if merchantIDStr := c.Query("merchant_id"); merchantIDStr != "" {
		if merchantID, err := uuid.Parse(merchantIDStr); err == nil {
			listParams.MerchantID = &merchantID
		}
	}

	products, total, err := h.productService.ListProducts(listParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	// Unapproved products stay off the public catalog
	if !product.IsApproved {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, product)
}
