package types

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID                uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug              string             `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	LessonID          *uuid.UUID         `gorm:"type:uuid;index" json:"lessonId,omitempty"`
	ProviderVideoID   string             `gorm:"column:provider_video_id;not null" json:"providerVideoId"`
	DurationInSeconds int                `gorm:"column:duration_in_seconds;not null" json:"durationInSeconds"`
	Translations      []VideoTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:VideoID;references:ID" json:"translations"`
	CreatedAt         time.Time          `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt         time.Time          `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Video) TableName() string { return "video" }

type VideoTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	VideoID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_video_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_video_translation_locale" json:"locale"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
}

func (VideoTranslation) TableName() string { return "video_translation" }

// VideoLink is an external stream location for one locale.
type VideoLink struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_video_link_locale" json:"videoId"`
	Locale    string    `gorm:"column:locale;not null;uniqueIndex:idx_video_link_locale" json:"locale"`
	StreamURL string    `gorm:"column:stream_url;not null" json:"streamUrl"`
}

func (VideoLink) TableName() string { return "video_link" }

// VideoSeen is a per-viewer usage record; it blocks video deletion.
type VideoSeen struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID  uuid.UUID `gorm:"type:uuid;not null;index" json:"videoId"`
	ViewerID uuid.UUID `gorm:"type:uuid;not null" json:"viewerId"`
	SeenAt   time.Time `gorm:"not null;default:now()" json:"seenAt"`
}

func (VideoSeen) TableName() string { return "video_seen" }
