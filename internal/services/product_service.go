// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

// ProductService owns the approval lifecycle. Every mutation that moves a
// product between review states goes through the workflow service so the
// product row and its notifications commit in one transaction.
type ProductService struct {
	db       *gorm.DB
	workflow *WorkflowService
}

func NewProductService(db *gorm.DB, workflow *WorkflowService) *ProductService {
	return &ProductService{db: db, workflow: workflow}
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Price       float64  `json:"price" validate:"required,min=0"`
	Description string   `json:"description,omitempty"`
	Specs       string   `json:"specs,omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"max=10,dive,max=30"`
}

type UpdateProductRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=100"`
	Price       float64    `json:"price" validate:"required,min=0"`
	Description string     `json:"description,omitempty"`
	Specs       string     `json:"specs,omitempty"`
	Tags        []string   `json:"tags,omitempty" validate:"max=10,dive,max=30"`
	MainImageID *uuid.UUID `json:"main_image_id,omitempty"`
}

type ProductListParams struct {
	utils.PaginationParams
	MerchantID *uuid.UUID
	Approved   *bool
}

// CreateProduct stores a new product for the acting viewer. Whether the
// product starts approved is an explicit caller decision: the admin
// handler passes true, the merchant handler false. Unapproved products
// open a review step addressed to the admin broadcast mailbox.
func (s *ProductService) CreateProduct(viewer models.ViewerContext, req *CreateProductRequest, approved bool) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !viewer.Authenticated() {
		return nil, fmt.Errorf("product creation requires a signed-in user: %w", ErrForbidden)
	}

	product := &models.Product{
		MerchantID:  *viewer.UserID,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Specs:       req.Specs,
		Tags:        req.Tags,
		IsApproved:  approved,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Soft-deleted rows keep their codes, so the sequence must count
		// them too or a delete would make the next code collide.
		var sequence int64
		if err := tx.Unscoped().Model(&models.Product{}).
			Where("merchant_id = ?", product.MerchantID).
			Count(&sequence).Error; err != nil {
			return fmt.Errorf("failed to determine product sequence: %w", err)
		}
		product.GenerateCode(int(sequence) + 1)

		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if approved {
			return nil
		}

		return s.workflow.AdvanceIn(tx, AdvanceRequest{
			ProductID: product.ID,
			To:        models.BroadcastTo(models.RoleAdmin),
			ToType:    models.NotificationTypeProductSubmitted,
			Message:   fmt.Sprintf("New product %q from merchant %s is awaiting approval", product.Name, viewer.Username),
		})
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies an edit. When the owning merchant edits an
// approved product, approval is withdrawn and the review cycle restarts;
// an admin edit leaves the approval state untouched.
func (s *ProductService) UpdateProduct(viewer models.ViewerContext, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	product, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWriteAccess(product, viewer); err != nil {
		return nil, err
	}

	wasApproved := product.IsApproved

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":        req.Name,
			"price":       req.Price,
			"description": req.Description,
			"specs":       req.Specs,
			"tags":        pq.StringArray(req.Tags),
		}
		if viewer.IsMerchant() {
			updates["is_approved"] = false
		}

		if err := tx.Model(product).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if req.MainImageID != nil {
			if err := tx.Model(&models.ProductImage{}).
				Where("product_id = ?", product.ID).
				Update("is_main", gorm.Expr("id = ?", *req.MainImageID)).Error; err != nil {
				return fmt.Errorf("failed to update main image: %w", err)
			}
		}

		if !viewer.IsMerchant() || !wasApproved {
			return nil
		}

		// Re-review: retire the merchant's approval notice and put the
		// product back in front of the admins.
		return s.workflow.AdvanceIn(tx, AdvanceRequest{
			ProductID: product.ID,
			FromRole:  models.RoleMerchant,
			FromType:  models.NotificationTypeProductApproved,
			To:        models.BroadcastTo(models.RoleAdmin),
			ToType:    models.NotificationTypeProductEdited,
			Message:   fmt.Sprintf("Product %q was updated by merchant %s and needs review again", req.Name, viewer.Username),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.get(id)
}

// ApproveProduct marks a product approved and hands the workflow back to
// the owning merchant. The open admin review step, whether the product was
// freshly submitted or re-edited, is retired in the same transaction.
func (s *ProductService) ApproveProduct(viewer models.ViewerContext, id uuid.UUID) (*models.Product, error) {
	if !viewer.IsAdmin() {
		return nil, fmt.Errorf("only admins may approve products: %w", ErrForbidden)
	}

	product, err := s.get(id)
	if err != nil {
		return nil, err
	}

	openType, found, err := s.workflow.OpenStep(product.ID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	req := AdvanceRequest{
		ProductID: product.ID,
		To:        models.TargetedAt(models.RoleMerchant, product.MerchantID),
		ToType:    models.NotificationTypeProductApproved,
		Message:   fmt.Sprintf("Your product %q has been approved", product.Name),
	}
	if found {
		req.FromRole = models.RoleAdmin
		req.FromType = openType
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(product).Update("is_approved", true).Error; err != nil {
			return fmt.Errorf("failed to approve product: %w", err)
		}
		return s.workflow.AdvanceIn(tx, req)
	})
	if err != nil {
		return nil, err
	}

	product.IsApproved = true
	return product, nil
}

// DeleteProduct soft-deletes a product. Its notifications are kept: they
// outlive the product record and are never cascaded or rewritten.
func (s *ProductService) DeleteProduct(viewer models.ViewerContext, id uuid.UUID) error {
	product, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.checkWriteAccess(product, viewer); err != nil {
		return err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// GetProduct loads one product with its images and merchant.
func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Images").Preload("Merchant").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// ListProducts pages through products. Callers scope the listing: the
// public catalog filters to approved, the merchant view to an owner, the
// admin view to everything.
func (s *ProductService) ListProducts(params ProductListParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Images")

	if params.MerchantID != nil {
		query = query.Where("merchant_id = ?", *params.MerchantID)
	}
	if params.Approved != nil {
		query = query.Where("is_approved = ?", *params.Approved)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// AddImage attaches an already-uploaded image to a product. The upload
// itself happens in the handler against object storage, outside any
// database transaction, so a storage failure never leaves workflow state
// half-written and a workflow failure never aborts a finished upload.
func (s *ProductService) AddImage(viewer models.ViewerContext, productID uuid.UUID, imageURL, storageKey string, isMain bool) (*models.ProductImage, error) {
	product, err := s.get(productID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWriteAccess(product, viewer); err != nil {
		return nil, err
	}

	image := &models.ProductImage{
		ProductID:  productID,
		ImageURL:   imageURL,
		StorageKey: storageKey,
		IsMain:     isMain,
	}
	if err := s.db.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	return image, nil
}

// DeleteImage removes an image record.
func (s *ProductService) DeleteImage(viewer models.ViewerContext, imageID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := s.db.First(&image, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product image %s: %w", imageID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product, err := s.get(image.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.checkWriteAccess(product, viewer); err != nil {
		return nil, err
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product image: %w", err)
	}
	return &image, nil
}

// checkWriteAccess lets admins touch any product and merchants only their
// own.
func (s *ProductService) checkWriteAccess(product *models.Product, viewer models.ViewerContext) error {
	if viewer.IsAdmin() {
		return nil
	}
	if viewer.IsMerchant() && viewer.UserID != nil && *viewer.UserID == product.MerchantID {
		return nil
	}
	return fmt.Errorf("product %s is not owned by the viewer: %w", product.ID, ErrForbidden)
}

func (s *ProductService) get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}
