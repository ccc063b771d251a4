package types

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"moduleId"`
	Slug         string              `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	ImageURL     *string             `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Order        int                 `gorm:"column:position;not null" json:"order"`
	Translations []LessonTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"translations"`
	CreatedAt    time.Time           `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time           `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Lesson) TableName() string { return "lesson" }

type LessonTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_lesson_translation_locale" json:"locale"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
}

func (LessonTranslation) TableName() string { return "lesson_translation" }
