// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

type AdminSettings struct {
	BaseModel
	Category    string    `json:"category" gorm:"size:50;not null;index"`
	Key         string    `json:"key" gorm:"size:100;not null;index"`
	Value       JSONB     `json:"value" gorm:"type:jsonb;not null"`
	DataType    string    `json:"data_type" gorm:"size:20;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedBy   uuid.UUID `json:"updated_by" gorm:"type:uuid"`

	// Relationships
	UpdatedByUser User `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

// ErrorLog records request failures for operators. Mirrors what the request
// boundary knew at the time: the route, the viewer, and the failure.
type ErrorLog struct {
	BaseModel
	Endpoint  string     `json:"endpoint" gorm:"size:255;not null;index"`
	Method    string     `json:"method" gorm:"size:10;not null"`
	Role      Role       `json:"role" gorm:"type:varchar(20)"`
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	ErrorType string     `json:"error_type" gorm:"size:100;not null;index"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	Stack     string     `json:"stack,omitempty" gorm:"type:text"`
}
