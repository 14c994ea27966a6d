// internal/models/product.go
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product carries the approval-gated listing. MerchantID is set once at
// creation; IsApproved is mutated only through the product service so every
// change can trigger the matching workflow step.
type Product struct {
	BaseModel
	MerchantID  uuid.UUID      `json:"merchant_id" gorm:"type:uuid;not null;index"`
	ProductCode string         `json:"product_code" gorm:"uniqueIndex;size:40"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Specs       string         `json:"specs" gorm:"type:text"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	IsApproved  bool           `json:"is_approved" gorm:"not null;default:false;index"`

	// Relationships
	Merchant User           `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Images   []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

// GenerateCode derives the human-facing product code from the owning
// merchant and the merchant's running sequence number.
func (p *Product) GenerateCode(sequence int) {
	short := strings.ToUpper(strings.ReplaceAll(p.MerchantID.String(), "-", ""))[:8]
	p.ProductCode = fmt.Sprintf("PRD-%s-%04d", short, sequence)
}

type ProductImage struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ImageURL   string    `json:"image_url" gorm:"type:text;not null"`
	StorageKey string    `json:"storage_key" gorm:"type:text"`
	IsMain     bool      `json:"is_main" gorm:"not null;default:false"`
}
