package repositories

import "github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"

// FileStore abstracts persistence of uploaded and generated files.
// Recordings and generated answer audio live in one area, books in another.
type FileStore interface {
	// SaveRecording stores uploaded question audio or generated answer audio.
	SaveRecording(name string, data []byte) error
	// SaveTranscript stores the question/answer transcript next to the recording.
	SaveTranscript(name string, content string) error
	// ReadTranscript returns the transcript stored under name, if any.
	ReadTranscript(name string) (string, bool)
	// ListRecordings returns stored question recordings, newest first.
	ListRecordings() ([]string, error)

	// SaveBook stores an uploaded book PDF.
	SaveBook(name string, data []byte) error
	// ReadBook returns the raw PDF for a stored book.
	ReadBook(name string) ([]byte, error)
	// BookExists reports whether a book with this filename is stored.
	BookExists(name string) bool
	// ListBooks returns stored books, sorted by filename.
	ListBooks() ([]*entities.Book, error)

	// RecordingPath resolves a recording name to a servable file path.
	RecordingPath(name string) (string, error)
	// BookPath resolves a book name to a servable file path.
	BookPath(name string) (string, error)
}
