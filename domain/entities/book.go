package entities

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// AllowedBookExtension is the only file type accepted for book uploads.
const AllowedBookExtension = ".pdf"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Book represents a book available for question answering.
// The PDF itself stays on disk; the entity only carries its identity.
type Book struct {
	Filename   string    `json:"filename" bson:"filename"`
	Title      string    `json:"title" bson:"title"`
	SizeBytes  int64     `json:"size_bytes" bson:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// NewBook creates a book from an uploaded filename.
func NewBook(filename string, sizeBytes int64) *Book {
	return &Book{
		Filename:   filename,
		Title:      strings.TrimSuffix(filename, filepath.Ext(filename)),
		SizeBytes:  sizeBytes,
		UploadedAt: time.Now(),
	}
}

// Validate validates the book data.
func (b *Book) Validate() error {
	if b.Filename == "" {
		return errors.New("filename is required")
	}
	if !strings.EqualFold(filepath.Ext(b.Filename), AllowedBookExtension) {
		return errors.New("only PDF books are supported")
	}
	return nil
}

// SanitizeFilename reduces an uploaded filename to a safe base name,
// stripping any path components and characters outside [A-Za-z0-9._-].
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}
