package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// ErrBookNotFound is returned when a selected book is not stored.
var ErrBookNotFound = errors.New("book not found")

// LibraryService manages the stored books and which one is current.
// The current book is process-wide state, changed only by upload/select.
type LibraryService struct {
	store  repositories.FileStore
	logger *zap.Logger

	mu      sync.RWMutex
	current *entities.Book
}

// NewLibraryService creates a new library service
func NewLibraryService(store repositories.FileStore, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		store:  store,
		logger: logger,
	}
}

// UploadBook stores an uploaded PDF and makes it the current book.
func (s *LibraryService) UploadBook(filename string, data []byte) (*entities.Book, error) {
	name := entities.SanitizeFilename(filename)
	if name == "" {
		return nil, errors.New("empty filename")
	}

	book := entities.NewBook(name, int64(len(data)))
	if err := book.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveBook(name, data); err != nil {
		return nil, fmt.Errorf("failed to store book: %w", err)
	}

	s.mu.Lock()
	s.current = book
	s.mu.Unlock()

	s.logger.Info("Book uploaded",
		zap.String("filename", name),
		zap.Int("size", len(data)))

	return book, nil
}

// SetCurrentBook selects a previously uploaded book by filename.
func (s *LibraryService) SetCurrentBook(filename string) (*entities.Book, error) {
	name := entities.SanitizeFilename(filename)
	if name == "" || !s.store.BookExists(name) {
		return nil, ErrBookNotFound
	}

	books, err := s.store.ListBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	for _, book := range books {
		if book.Filename == name {
			s.mu.Lock()
			s.current = book
			s.mu.Unlock()

			s.logger.Info("Current book set", zap.String("filename", name))
			return book, nil
		}
	}
	return nil, ErrBookNotFound
}

// CurrentBook returns the currently selected book, if any.
func (s *LibraryService) CurrentBook() (*entities.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// ListBooks returns all stored books.
func (s *LibraryService) ListBooks() ([]*entities.Book, error) {
	return s.store.ListBooks()
}

// Recording pairs a stored question recording with its transcript.
type Recording struct {
	Filename   string `json:"filename"`
	Transcript string `json:"transcript,omitempty"`
}

// ListRecordings returns stored question recordings with their transcripts,
// newest first.
func (s *LibraryService) ListRecordings() ([]Recording, error) {
	names, err := s.store.ListRecordings()
	if err != nil {
		return nil, err
	}

	recordings := make([]Recording, 0, len(names))
	for _, name := range names {
		rec := Recording{Filename: name}
		txt := strings.TrimSuffix(name, ".wav") + ".txt"
		if content, ok := s.store.ReadTranscript(txt); ok {
			rec.Transcript = content
		}
		recordings = append(recordings, rec)
	}
	return recordings, nil
}
