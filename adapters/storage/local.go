package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// LocalFileStore keeps question recordings and answer audio under uploadDir
// and book PDFs under bookDir, mirroring the /uploads and /books URL space.
type LocalFileStore struct {
	uploadDir string
	bookDir   string
	logger    *zap.Logger
}

var _ repositories.FileStore = (*LocalFileStore)(nil)

// NewLocalFileStore creates the storage directories if needed.
func NewLocalFileStore(uploadDir, bookDir string, logger *zap.Logger) (*LocalFileStore, error) {
	for _, dir := range []string{uploadDir, bookDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &LocalFileStore{uploadDir: uploadDir, bookDir: bookDir, logger: logger}, nil
}

// SaveRecording stores question audio or generated answer audio.
func (s *LocalFileStore) SaveRecording(name string, data []byte) error {
	return s.save(s.uploadDir, name, data)
}

// SaveTranscript stores the transcript next to the recording.
func (s *LocalFileStore) SaveTranscript(name string, content string) error {
	return s.save(s.uploadDir, name, []byte(content))
}

// ReadTranscript returns the transcript stored under name, if any.
func (s *LocalFileStore) ReadTranscript(name string) (string, bool) {
	path, err := s.resolve(s.uploadDir, name)
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListRecordings returns stored question recordings, newest first.
// Generated answer audio is excluded.
func (s *LocalFileStore) ListRecordings() ([]string, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".wav") {
			continue
		}
		names = append(names, name)
	}
	// Timestamp-based names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// SaveBook stores an uploaded book PDF.
func (s *LocalFileStore) SaveBook(name string, data []byte) error {
	return s.save(s.bookDir, name, data)
}

// ReadBook returns the raw PDF for a stored book.
func (s *LocalFileStore) ReadBook(name string) ([]byte, error) {
	path, err := s.resolve(s.bookDir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read book %s: %w", name, err)
	}
	return data, nil
}

// BookExists reports whether a book with this filename is stored.
func (s *LocalFileStore) BookExists(name string) bool {
	path, err := s.resolve(s.bookDir, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ListBooks returns stored books, sorted by filename.
func (s *LocalFileStore) ListBooks() ([]*entities.Book, error) {
	entries, err := os.ReadDir(s.bookDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	var books []*entities.Book
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), entities.AllowedBookExtension) {
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		books = append(books, entities.NewBook(name, size))
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Filename < books[j].Filename })
	return books, nil
}

// RecordingPath resolves a recording name to a servable file path.
func (s *LocalFileStore) RecordingPath(name string) (string, error) {
	return s.resolve(s.uploadDir, name)
}

// BookPath resolves a book name to a servable file path.
func (s *LocalFileStore) BookPath(name string) (string, error) {
	return s.resolve(s.bookDir, name)
}

func (s *LocalFileStore) save(dir, name string, data []byte) error {
	path, err := s.resolve(dir, name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	s.logger.Info("File saved", zap.String("path", path), zap.Int("size", len(data)))
	return nil
}

// resolve joins name onto dir, rejecting anything that escapes it.
func (s *LocalFileStore) resolve(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return filepath.Join(dir, name), nil
}
