package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug         string              `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	ImageURL     *string             `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Metadata     datatypes.JSON      `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	Translations []CourseTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"translations"`
	CreatedAt    time.Time           `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Course) TableName() string { return "course" }

type CourseTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_course_translation_locale" json:"locale"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
}

func (CourseTranslation) TableName() string { return "course_translation" }
