// ABOUTME: Tests for random image selection and base64 encoding.
// ABOUTME: Covers extension filtering, the size cap, and missing folders.
package content

import (
	"encoding/base64"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestPickRandomImageMissingFolder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	path, b64, err := PickRandomImage(filepath.Join(t.TempDir(), "nope"), 1024, rng)
	if err != nil {
		t.Fatalf("missing folder should not error: %v", err)
	}
	if path != "" || b64 != "" {
		t.Errorf("expected empty result, got %q", path)
	}
}

func TestPickRandomImageIgnoresNonImages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0600); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	path, _, err := PickRandomImage(dir, 1024, rng)
	if err != nil {
		t.Fatalf("PickRandomImage error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no image, got %q", path)
	}
}

func TestPickRandomImageEncodes(t *testing.T) {
	dir := t.TempDir()
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	if err := os.WriteFile(filepath.Join(dir, "pic.JPG"), payload, 0600); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	path, b64, err := PickRandomImage(dir, 1024, rng)
	if err != nil {
		t.Fatalf("PickRandomImage error: %v", err)
	}
	if path == "" {
		t.Fatal("expected an image to be picked")
	}
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Error("payload mismatch after decode")
	}
}

func TestPickRandomImageSizeCap(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "huge.png"), make([]byte, 2048), 0600); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	path, b64, err := PickRandomImage(dir, 1024, rng)
	if err != nil {
		t.Fatalf("PickRandomImage error: %v", err)
	}
	if path != "" || b64 != "" {
		t.Error("oversized image should be skipped")
	}
}
