// internal/handlers/merchant.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liebemama/marketplace-backend/internal/i18n"
	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

// MerchantHandler serves the merchant area. Products created here start
// unapproved and open a review step in the admin mailbox.
type MerchantHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewMerchantHandler(productService *services.ProductService, storageService *services.StorageService) *MerchantHandler {
	return &MerchantHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /merchant/products
func (h *MerchantHandler) GetMyProducts(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)
	params := utils.GetPaginationParams(c)

	listParams := services.ProductListParams{
		PaginationParams: params,
		MerchantID:       viewer.UserID,
	}

	if approvedStr := c.Query("approved"); approvedStr != "" {
		if approved, err := strconv.ParseBool(approvedStr); err == nil {
			listParams.Approved = &approved
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

// GET /merchant/products/:id
func (h *MerchantHandler) GetMyProduct(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}
	if viewer.UserID == nil || product.MerchantID != *viewer.UserID {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /merchant/products
func (h *MerchantHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	// Merchant products wait for admin approval
	product, err := h.productService.CreateProduct(viewer, &req, false)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /merchant/products/:id
func (h *MerchantHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(viewer, id, &req)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /merchant/products/:id
func (h *MerchantHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(viewer, id); err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /merchant/products/:id/images
func (h *MerchantHandler) UploadProductImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "image file is required", nil)
		return
	}
	defer file.Close()

	// Verify ownership before touching object storage
	product, err := h.productService.GetProduct(id)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}
	if viewer.UserID == nil || product.MerchantID != *viewer.UserID {
		utils.ForbiddenResponse(c, "")
		return
	}

	result, err := h.storageService.UploadProductImage(file, header, viewer.Role, product.MerchantID, product.ID)
	if err != nil {
		handleServiceError(c, err, "file")
		return
	}

	isMain := c.PostForm("is_main") == "true"
	image, err := h.productService.AddImage(viewer, id, result.URL, result.Key, isMain)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image":   image,
	})
}

// DELETE /merchant/images/:id
func (h *MerchantHandler) DeleteProductImage(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := h.productService.DeleteImage(viewer, id)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	// Best effort cleanup, an orphaned object is acceptable
	if image.StorageKey != "" {
		_ = h.storageService.DeleteObject(image.StorageKey)
	}

	utils.SuccessResponse(c, gin.H{"deleted": image.ID})
}
