package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cursolab/ead-backend/internal/types"
)

func seedVideo(t *testing.T, repo VideoRepo) *types.Video {
	t.Helper()
	video := &types.Video{
		ID:                uuid.New(),
		Slug:              "video-" + uuid.NewString()[:8],
		ProviderVideoID:   "prov-123",
		DurationInSeconds: 300,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
		Translations: []types.VideoTranslation{
			{ID: uuid.New(), Locale: "pt", Title: "Introdução", Description: "Vídeo de abertura"},
		},
	}
	video.Translations[0].VideoID = video.ID
	if err := repo.Create(context.Background(), nil, video); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return video
}

func TestVideoRepo_CheckDependencies_TranslationsDoNotBlock(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepo(db, testRepoLogger())
	ctx := context.Background()

	video := seedVideo(t, repo)

	report, err := repo.CheckDependencies(ctx, nil, video.ID, "pt")
	if err != nil {
		t.Fatalf("check dependencies: %v", err)
	}
	if !report.CanDelete {
		t.Fatalf("a video with only translations must be deletable: %+v", report)
	}
	if report.Summary["translations"] != 1 {
		t.Fatalf("translations should still be surfaced in the summary: %+v", report.Summary)
	}
}

func TestVideoRepo_CheckDependencies_SeenRecordsAndLinksBlock(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepo(db, testRepoLogger())
	ctx := context.Background()

	video := seedVideo(t, repo)
	if err := db.Create(&types.VideoSeen{ID: uuid.New(), VideoID: video.ID, ViewerID: uuid.New(), SeenAt: time.Now().UTC()}).Error; err != nil {
		t.Fatalf("seed seen record: %v", err)
	}
	if err := db.Create(&types.VideoLink{ID: uuid.New(), VideoID: video.ID, Locale: "pt", StreamURL: "https://cdn.example.com/v/1.m3u8"}).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	report, err := repo.CheckDependencies(ctx, nil, video.ID, "pt")
	if err != nil {
		t.Fatalf("check dependencies: %v", err)
	}
	if report.CanDelete {
		t.Fatalf("seen records and stream links must block deletion")
	}
	if report.TotalDependencies != 2 || report.Summary["seenRecords"] != 1 || report.Summary["streamLinks"] != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
