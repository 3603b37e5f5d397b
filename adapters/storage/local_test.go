package storage

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *LocalFileStore {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalFileStore(filepath.Join(dir, "uploads"), filepath.Join(dir, "books"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	return store
}

func TestRecordingsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveRecording("20240101-120000.wav", []byte("audio")); err != nil {
		t.Fatalf("SaveRecording failed: %v", err)
	}
	if err := store.SaveRecording("20240101-130000.wav", []byte("audio2")); err != nil {
		t.Fatalf("SaveRecording failed: %v", err)
	}
	if err := store.SaveRecording("20240101-120000-response.mp3", []byte("mp3")); err != nil {
		t.Fatalf("SaveRecording failed: %v", err)
	}

	names, err := store.ListRecordings()
	if err != nil {
		t.Fatalf("ListRecordings failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Expected 2 recordings, got %d: %v", len(names), names)
	}
	if names[0] != "20240101-130000.wav" {
		t.Errorf("Expected newest recording first, got %v", names)
	}
}

func TestTranscripts(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.ReadTranscript("missing.txt"); ok {
		t.Error("Expected missing transcript to report not found")
	}

	if err := store.SaveTranscript("20240101-120000.txt", "Question:\nQ\n\nAnswer:\nA\n"); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	content, ok := store.ReadTranscript("20240101-120000.txt")
	if !ok {
		t.Fatal("Expected transcript to be found")
	}
	if content != "Question:\nQ\n\nAnswer:\nA\n" {
		t.Errorf("Unexpected transcript content: %q", content)
	}
}

func TestBooks(t *testing.T) {
	store := newTestStore(t)

	if store.BookExists("moby-dick.pdf") {
		t.Error("Book should not exist before saving")
	}

	if err := store.SaveBook("moby-dick.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("SaveBook failed: %v", err)
	}

	if !store.BookExists("moby-dick.pdf") {
		t.Error("Book should exist after saving")
	}

	data, err := store.ReadBook("moby-dick.pdf")
	if err != nil {
		t.Fatalf("ReadBook failed: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("Unexpected book content: %q", string(data))
	}

	books, err := store.ListBooks()
	if err != nil {
		t.Fatalf("ListBooks failed: %v", err)
	}
	if len(books) != 1 || books[0].Filename != "moby-dick.pdf" {
		t.Errorf("Unexpected book list: %+v", books)
	}
	if books[0].Title != "moby-dick" {
		t.Errorf("Expected title moby-dick, got %s", books[0].Title)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"../escape.wav", "a/b.wav", "..", ""} {
		if err := store.SaveRecording(name, []byte("x")); err == nil {
			t.Errorf("Expected SaveRecording(%q) to be rejected", name)
		}
		if _, err := store.BookPath(name); err == nil {
			t.Errorf("Expected BookPath(%q) to be rejected", name)
		}
	}
}
