package types

import (
	"time"

	"github.com/google/uuid"
)

type Module struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"courseId"`
	Slug         string              `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	ImageURL     *string             `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Order        int                 `gorm:"column:position;not null" json:"order"`
	Translations []ModuleTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"translations"`
	CreatedAt    time.Time           `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Module) TableName() string { return "module" }

type ModuleTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	ModuleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_module_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_module_translation_locale" json:"locale"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
}

func (ModuleTranslation) TableName() string { return "module_translation" }
