package types

import (
	"time"

	"github.com/google/uuid"
)

type Track struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug         string             `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	ImageURL     *string            `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Translations []TrackTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrackID;references:ID" json:"translations"`
	Courses      []TrackCourse      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrackID;references:ID" json:"courses,omitempty"`
	CreatedAt    time.Time          `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time          `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Track) TableName() string { return "track" }

type TrackTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	TrackID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_track_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_track_translation_locale" json:"locale"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
}

func (TrackTranslation) TableName() string { return "track_translation" }

// TrackCourse is the track-owned association edge; rewritten atomically on
// track update.
type TrackCourse struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	TrackID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_track_course_pair" json:"trackId"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_track_course_pair" json:"courseId"`
}

func (TrackCourse) TableName() string { return "track_course" }
