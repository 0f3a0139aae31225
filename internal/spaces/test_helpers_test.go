package spaces

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/zenoml/showcase/internal/users"
)

// testNow is the frozen clock shared by the service tests.
var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

type sequentialIDGenerator struct {
	prefix string
	next   int
}

func (g *sequentialIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:showcase_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &Space{}, &Click{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return testNow },
		IDProvider: &sequentialIDGenerator{prefix: "id"},
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service, db
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) users.User {
	t.Helper()
	user := users.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Name:         username,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedSpace(t *testing.T, db *gorm.DB, space Space) Space {
	t.Helper()
	if space.Visibility == "" {
		space.Visibility = string(VisibilityPublic)
	}
	if space.Category == "" {
		space.Category = string(CategoryOther)
	}
	if space.Runtime == "" {
		space.Runtime = string(RuntimeZeno)
	}
	if space.URL == "" {
		space.URL = "https://example.com/app"
	}
	if space.Subtitle == "" {
		space.Subtitle = "subtitle"
	}
	if space.CreatedAt.IsZero() {
		space.CreatedAt = testNow
	}
	if err := db.Create(&space).Error; err != nil {
		t.Fatalf("failed to seed space: %v", err)
	}
	return space
}

func seedClicks(t *testing.T, db *gorm.DB, spaceID string, count int, at time.Time) {
	t.Helper()
	for i := 0; i < count; i++ {
		click := Click{
			ID:        fmt.Sprintf("click-%s-%d-%d", spaceID, at.UnixNano(), i),
			SpaceID:   spaceID,
			CreatedAt: at,
		}
		if err := db.Create(&click).Error; err != nil {
			t.Fatalf("failed to seed click: %v", err)
		}
	}
}

func mustValidInput() SpaceInput {
	return SpaceInput{
		Title:    "Kokoro TTS",
		Subtitle: "Text to speech demo",
		URL:      "https://example.com/kokoro",
		Category: "Audio",
		Runtime:  "ZENO",
		Gradient: "from-purple-600 to-pink-500",
	}
}

func mustList(t *testing.T, service *Service, query ListQuery) []SpaceView {
	t.Helper()
	views, err := service.List(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	return views
}
