package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionTypeMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTypeOpen           = "OPEN"
)

// Argument groups questions within an assessment.
type Argument struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	AssessmentID *uuid.UUID `gorm:"type:uuid;index" json:"assessmentId,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Argument) TableName() string { return "argument" }

type Question struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Text         string           `gorm:"column:text;not null" json:"text"`
	Type         string           `gorm:"column:type;not null" json:"type"`
	AssessmentID uuid.UUID        `gorm:"type:uuid;not null;index" json:"assessmentId"`
	ArgumentID   *uuid.UUID       `gorm:"type:uuid;index" json:"argumentId,omitempty"`
	Options      []QuestionOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"options,omitempty"`
	Answer       *Answer          `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"answer,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Question) TableName() string { return "question" }

type QuestionOption struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"questionId"`
	Text       string    `gorm:"column:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (QuestionOption) TableName() string { return "question_option" }

// Answer holds the correct option (for multiple choice) and a localized
// explanation set. At most one per question.
type Answer struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID      uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex" json:"questionId"`
	CorrectOptionID *uuid.UUID          `gorm:"type:uuid" json:"correctOptionId,omitempty"`
	Explanation     string              `gorm:"column:explanation;not null" json:"explanation"`
	Translations    []AnswerTranslation `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnswerID;references:ID" json:"translations,omitempty"`
	CreatedAt       time.Time           `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt       time.Time           `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Answer) TableName() string { return "answer" }

type AnswerTranslation struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"-"`
	AnswerID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_translation_locale" json:"-"`
	Locale      string    `gorm:"column:locale;not null;uniqueIndex:idx_answer_translation_locale" json:"locale"`
	Explanation string    `gorm:"column:explanation;not null" json:"explanation"`
}

func (AnswerTranslation) TableName() string { return "answer_translation" }
