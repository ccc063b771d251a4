package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	AssessmentTypeQuiz      = "QUIZ"
	AssessmentTypeSimulado  = "SIMULADO"
	AssessmentTypeOpenEnded = "OPEN_ENDED"

	QuizPositionBeforeLesson = "BEFORE_LESSON"
	QuizPositionAfterLesson  = "AFTER_LESSON"
)

type Assessment struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug               string     `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Title              string     `gorm:"column:title;not null" json:"title"`
	Description        *string    `gorm:"column:description" json:"description,omitempty"`
	Type               string     `gorm:"column:type;not null" json:"type"`
	QuizPosition       *string    `gorm:"column:quiz_position" json:"quizPosition,omitempty"`
	PassingScore       *int       `gorm:"column:passing_score" json:"passingScore,omitempty"`
	TimeLimitInMinutes *int       `gorm:"column:time_limit_in_minutes" json:"timeLimitInMinutes,omitempty"`
	RandomizeQuestions bool       `gorm:"column:randomize_questions;not null;default:false" json:"randomizeQuestions"`
	RandomizeOptions   bool       `gorm:"column:randomize_options;not null;default:false" json:"randomizeOptions"`
	LessonID           *uuid.UUID `gorm:"type:uuid;index" json:"lessonId,omitempty"`
	CreatedAt          time.Time  `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Assessment) TableName() string { return "assessment" }

// Attempt records one taker's run of an assessment; its presence blocks
// assessment deletion.
type Attempt struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"assessmentId"`
	Status       string     `gorm:"column:status;not null" json:"status"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submittedAt,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"createdAt"`
}

func (Attempt) TableName() string { return "attempt" }
