package spaces

import (
	"context"
	"errors"
	"testing"

	"github.com/zenoml/showcase/internal/apperror"
)

func TestRecordClickIncrementsTotal(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")
	space := seedSpace(t, db, Space{ID: "space-1", Title: "Kokoro TTS", AuthorID: author.ID})

	for expected := int64(1); expected <= 3; expected++ {
		count, err := service.RecordClick(context.Background(), space.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != expected {
			t.Fatalf("expected count %d after %d clicks, got %d", expected, expected, count)
		}
	}

	count, err := service.ClickCount(context.Background(), space.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 total clicks, got %d", count)
	}
}

func TestRecordClickUnknownSpace(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.RecordClick(context.Background(), "missing-space")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordClickEmptyID(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.RecordClick(context.Background(), "  ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClickCountEmptyID(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ClickCount(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClickCountUnknownSpaceIsZero(t *testing.T) {
	service, _ := newTestService(t)

	count, err := service.ClickCount(context.Background(), "never-existed")
	if err != nil {
		t.Fatalf("expected no error for a valid but unknown id, got %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 clicks, got %d", count)
	}
}

func TestClickCountIsZeroAfterSpaceDeletion(t *testing.T) {
	service, db := newTestService(t)
	author := seedUser(t, db, "user-1", "hexgrad")
	space := seedSpace(t, db, Space{ID: "space-1", Title: "Kokoro TTS", AuthorID: author.ID})
	seedClicks(t, db, space.ID, 4, testNow)

	if err := service.Delete(context.Background(), author.ID, space.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	count, err := service.ClickCount(context.Background(), space.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected clicks to cascade with the space, got %d", count)
	}
}
