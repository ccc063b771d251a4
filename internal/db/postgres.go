package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/types"
	"github.com/cursolab/ead-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "ead", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Failed to access underlying sql.DB", "error", err)
		return nil, fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(utils.GetEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25, log))
	sqlDB.SetMaxIdleConns(utils.GetEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5, log))

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Course{},
		&types.CourseTranslation{},
		&types.Track{},
		&types.TrackTranslation{},
		&types.TrackCourse{},
		&types.Module{},
		&types.ModuleTranslation{},
		&types.Lesson{},
		&types.LessonTranslation{},
		&types.Video{},
		&types.VideoTranslation{},
		&types.VideoLink{},
		&types.VideoSeen{},
		&types.Document{},
		&types.DocumentTranslation{},
		&types.Assessment{},
		&types.Attempt{},
		&types.Argument{},
		&types.Question{},
		&types.QuestionOption{},
		&types.Answer{},
		&types.AnswerTranslation{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	fks := []struct {
		name string
		ddl  string
	}{
		{"fk_course_translation_course_id", `ALTER TABLE "course_translation" ADD CONSTRAINT "fk_course_translation_course_id" FOREIGN KEY ("course_id") REFERENCES "course"("id") ON DELETE CASCADE`},
		{"fk_track_translation_track_id", `ALTER TABLE "track_translation" ADD CONSTRAINT "fk_track_translation_track_id" FOREIGN KEY ("track_id") REFERENCES "track"("id") ON DELETE CASCADE`},
		{"fk_track_course_track_id", `ALTER TABLE "track_course" ADD CONSTRAINT "fk_track_course_track_id" FOREIGN KEY ("track_id") REFERENCES "track"("id") ON DELETE CASCADE`},
		{"fk_track_course_course_id", `ALTER TABLE "track_course" ADD CONSTRAINT "fk_track_course_course_id" FOREIGN KEY ("course_id") REFERENCES "course"("id") ON DELETE RESTRICT`},
		{"fk_module_course_id", `ALTER TABLE "module" ADD CONSTRAINT "fk_module_course_id" FOREIGN KEY ("course_id") REFERENCES "course"("id") ON DELETE RESTRICT`},
		{"fk_module_translation_module_id", `ALTER TABLE "module_translation" ADD CONSTRAINT "fk_module_translation_module_id" FOREIGN KEY ("module_id") REFERENCES "module"("id") ON DELETE CASCADE`},
		{"fk_lesson_module_id", `ALTER TABLE "lesson" ADD CONSTRAINT "fk_lesson_module_id" FOREIGN KEY ("module_id") REFERENCES "module"("id") ON DELETE RESTRICT`},
		{"fk_lesson_translation_lesson_id", `ALTER TABLE "lesson_translation" ADD CONSTRAINT "fk_lesson_translation_lesson_id" FOREIGN KEY ("lesson_id") REFERENCES "lesson"("id") ON DELETE CASCADE`},
		{"fk_video_lesson_id", `ALTER TABLE "video" ADD CONSTRAINT "fk_video_lesson_id" FOREIGN KEY ("lesson_id") REFERENCES "lesson"("id") ON DELETE RESTRICT`},
		{"fk_video_translation_video_id", `ALTER TABLE "video_translation" ADD CONSTRAINT "fk_video_translation_video_id" FOREIGN KEY ("video_id") REFERENCES "video"("id") ON DELETE CASCADE`},
		{"fk_video_link_video_id", `ALTER TABLE "video_link" ADD CONSTRAINT "fk_video_link_video_id" FOREIGN KEY ("video_id") REFERENCES "video"("id") ON DELETE RESTRICT`},
		{"fk_video_seen_video_id", `ALTER TABLE "video_seen" ADD CONSTRAINT "fk_video_seen_video_id" FOREIGN KEY ("video_id") REFERENCES "video"("id") ON DELETE RESTRICT`},
		{"fk_document_lesson_id", `ALTER TABLE "document" ADD CONSTRAINT "fk_document_lesson_id" FOREIGN KEY ("lesson_id") REFERENCES "lesson"("id") ON DELETE RESTRICT`},
		{"fk_document_translation_document_id", `ALTER TABLE "document_translation" ADD CONSTRAINT "fk_document_translation_document_id" FOREIGN KEY ("document_id") REFERENCES "document"("id") ON DELETE CASCADE`},
		{"fk_assessment_lesson_id", `ALTER TABLE "assessment" ADD CONSTRAINT "fk_assessment_lesson_id" FOREIGN KEY ("lesson_id") REFERENCES "lesson"("id") ON DELETE RESTRICT`},
		{"fk_attempt_assessment_id", `ALTER TABLE "attempt" ADD CONSTRAINT "fk_attempt_assessment_id" FOREIGN KEY ("assessment_id") REFERENCES "assessment"("id") ON DELETE RESTRICT`},
		{"fk_argument_assessment_id", `ALTER TABLE "argument" ADD CONSTRAINT "fk_argument_assessment_id" FOREIGN KEY ("assessment_id") REFERENCES "assessment"("id") ON DELETE RESTRICT`},
		{"fk_question_assessment_id", `ALTER TABLE "question" ADD CONSTRAINT "fk_question_assessment_id" FOREIGN KEY ("assessment_id") REFERENCES "assessment"("id") ON DELETE RESTRICT`},
		{"fk_question_argument_id", `ALTER TABLE "question" ADD CONSTRAINT "fk_question_argument_id" FOREIGN KEY ("argument_id") REFERENCES "argument"("id") ON DELETE SET NULL`},
		{"fk_question_option_question_id", `ALTER TABLE "question_option" ADD CONSTRAINT "fk_question_option_question_id" FOREIGN KEY ("question_id") REFERENCES "question"("id") ON DELETE CASCADE`},
		{"fk_answer_question_id", `ALTER TABLE "answer" ADD CONSTRAINT "fk_answer_question_id" FOREIGN KEY ("question_id") REFERENCES "question"("id") ON DELETE CASCADE`},
		{"fk_answer_translation_answer_id", `ALTER TABLE "answer_translation" ADD CONSTRAINT "fk_answer_translation_answer_id" FOREIGN KEY ("answer_id") REFERENCES "answer"("id") ON DELETE CASCADE`},
	}
	for _, fk := range fks {
		var count int64
		s.db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, fk.name).Scan(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Exec(fk.ddl).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
