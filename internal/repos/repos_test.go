package repos

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cursolab/ead-backend/internal/logger"
)

// testSchema mirrors the Postgres layout on SQLite. The column defaults
// live in the Postgres migration; here every row gets its id from Go.
var testSchema = []string{
	`CREATE TABLE course (id TEXT PRIMARY KEY, slug TEXT NOT NULL UNIQUE, image_url TEXT, metadata TEXT, created_at DATETIME, updated_at DATETIME)`,
	`CREATE TABLE course_translation (id TEXT PRIMARY KEY, course_id TEXT NOT NULL, locale TEXT NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL, UNIQUE(course_id, locale))`,
	`CREATE TABLE track (id TEXT PRIMARY KEY, slug TEXT NOT NULL UNIQUE, image_url TEXT, created_at DATETIME, updated_at DATETIME)`,
	`CREATE TABLE track_translation (id TEXT PRIMARY KEY, track_id TEXT NOT NULL, locale TEXT NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL, UNIQUE(track_id, locale))`,
	`CREATE TABLE track_course (id TEXT PRIMARY KEY, track_id TEXT NOT NULL, course_id TEXT NOT NULL, UNIQUE(track_id, course_id))`,
	`CREATE TABLE module (id TEXT PRIMARY KEY, course_id TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, image_url TEXT, position INTEGER NOT NULL, created_at DATETIME, updated_at DATETIME)`,
	`CREATE TABLE module_translation (id TEXT PRIMARY KEY, module_id TEXT NOT NULL, locale TEXT NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL, UNIQUE(module_id, locale))`,
	`CREATE TABLE lesson (id TEXT PRIMARY KEY, module_id TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, image_url TEXT, position INTEGER NOT NULL, created_at DATETIME, updated_at DATETIME)`,
	`CREATE TABLE lesson_translation (id TEXT PRIMARY KEY, lesson_id TEXT NOT NULL, locale TEXT NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL, UNIQUE(lesson_id, locale))`,
	`CREATE TABLE video (id TEXT PRIMARY KEY, slug TEXT NOT NULL UNIQUE, lesson_id TEXT, provider_video_id TEXT NOT NULL, duration_in_seconds INTEGER NOT NULL, created_at DATETIME, updated_at DATETIME)`,
	`CREATE TABLE video_translation (id TEXT PRIMARY KEY, video_id TEXT NOT NULL, locale TEXT NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL, UNIQUE(video_id, locale))`,
	`CREATE TABLE video_link (id TEXT PRIMARY KEY, video_id TEXT NOT NULL, locale TEXT NOT NULL, stream_url TEXT NOT NULL, UNIQUE(video_id, locale))`,
	`CREATE TABLE video_seen (id TEXT PRIMARY KEY, video_id TEXT NOT NULL, viewer_id TEXT NOT NULL, seen_at DATETIME)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, ddl := range testSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func testRepoLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}
