package types

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID           uuid.UUID             `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID     uuid.UUID             `gorm:"type:uuid;not null;index" json:"lessonId"`
	Filename     string                `gorm:"column:filename;not null" json:"filename"`
	Translations []DocumentTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"translations"`
	CreatedAt    time.Time             `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time             `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Document) TableName() string { return "document" }

// DocumentTranslation additionally carries the localized download URL.
type DocumentTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	DocumentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_document_translation_locale" json:"locale"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
	URL         string    `gorm:"column:url;not null" json:"url"`
}

func (DocumentTranslation) TableName() string { return "document_translation" }
