package storage

import (
	"testing"

	"github.com/lehigh-university-libraries/wordcards/internal/batch"
	"github.com/lehigh-university-libraries/wordcards/internal/locale"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

func TestPreviewStore(t *testing.T) {
	store := NewPreviewStore()
	img := models.NewImageFromBytes("a.png", "image/png", []byte("a"))

	h1 := store.Put(img)
	h2 := store.Put(img)
	if h1 == h2 {
		t.Fatalf("Expected distinct handles, got %s twice", h1)
	}

	got, ok := store.Get(h1)
	if !ok || got.Name != "a.png" {
		t.Errorf("Expected stored image, got %+v (ok=%v)", got, ok)
	}

	store.Revoke(h1)
	if _, ok := store.Get(h1); ok {
		t.Errorf("Expected handle to be revoked")
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 live handle, got %d", store.Len())
	}
}

func TestSessionStoreDeleteReleasesPreviews(t *testing.T) {
	previews := NewPreviewStore()
	ctrl := batch.NewController(batch.NewPipeline(nil, ""), previews, locale.For("en"))
	ctrl.SelectImages([]models.ImageInput{
		models.NewImageFromBytes("a.png", "image/png", []byte("a")),
		models.NewImageFromBytes("b.png", "image/png", []byte("b")),
	})

	sessions := New()
	id := sessions.Create(ctrl)

	if got, ok := sessions.Get(id); !ok || got != ctrl {
		t.Fatalf("Expected session %s to be stored", id)
	}
	if previews.Len() != 2 {
		t.Fatalf("Expected 2 previews, got %d", previews.Len())
	}

	if !sessions.Delete(id) {
		t.Errorf("Expected Delete to report an existing session")
	}
	if sessions.Delete(id) {
		t.Errorf("Expected second Delete to report a missing session")
	}
	if previews.Len() != 0 {
		t.Errorf("Expected previews released, got %d", previews.Len())
	}
}
