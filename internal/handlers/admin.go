// internal/handlers/admin.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liebemama/marketplace-backend/internal/i18n"
	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

// AdminHandler serves the back office: every product regardless of
// approval state, settings, error logs and storage maintenance.
type AdminHandler struct {
	adminService   *services.AdminService
	productService *services.ProductService
	storageService *services.StorageService
}

func NewAdminHandler(adminService *services.AdminService, productService *services.ProductService, storageService *services.StorageService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		productService: productService,
		storageService: storageService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /admin/products
func (h *AdminHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	listParams := services.ProductListParams{
		PaginationParams: params,
	}

	if approvedStr := c.Query("approved"); approvedStr != "" {
		if approved, err := strconv.ParseBool(approvedStr); err == nil {
			listParams.Approved = &approved
		}
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

// GET /admin/products/:id
func (h *AdminHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	// Admin-created products skip the review queue
	product, err := h.productService.CreateProduct(viewer, &req, true)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
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

// POST /admin/products/:id/approve
func (h *AdminHandler) ApproveProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.ApproveProduct(viewer, id)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductApproved),
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
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

// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings(c.Query("category"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, settings)
}

// PUT /admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	var req services.UpdateSettingRequest
	if !bindJSON(c, &req) {
		return
	}

	setting, err := h.adminService.UpdateSetting(viewer, &req)
	if err != nil {
		handleServiceError(c, err, "settings")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySettingsUpdated),
		"setting": setting,
	})
}

// GET /admin/error-logs
func (h *AdminHandler) GetErrorLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.ListErrorLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/storage/presign
func (h *AdminHandler) PresignObject(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "key is required", nil)
		return
	}

	ttl := 15 * time.Minute
	if ttlStr := c.Query("ttl_minutes"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil && minutes > 0 && minutes <= 60 {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	url, err := h.storageService.PresignedURL(key, ttl)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"url": url, "expires_in": ttl.String()})
}

// POST /admin/storage/bucket
func (h *AdminHandler) EnsureBucket(c *gin.Context) {
	if err := h.storageService.EnsureBucket(); err != nil {
		handleServiceError(c, err, "file")
		return
	}
	utils.SuccessResponse(c, gin.H{"status": "bucket ready"})
}

// DELETE /admin/storage/bucket
func (h *AdminHandler) PurgeBucket(c *gin.Context) {
	if err := h.storageService.PurgeBucket(); err != nil {
		handleServiceError(c, err, "file")
		return
	}
	utils.SuccessResponse(c, gin.H{"status": "bucket purged"})
}
