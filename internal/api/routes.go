package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/internal/auth"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/internal/ws"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/usecase"
)

// Handlers bundles the services the HTTP surface is built on.
type Handlers struct {
	Library   *usecase.LibraryService
	Questions *usecase.QuestionService
	Store     repositories.FileStore
	Hub       *ws.Hub
	Auth      *auth.TokenIssuer
	StaticDir string
	Logger    *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, h *Handlers) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "convoai-server",
		})
	})

	if h.StaticDir != "" {
		e.File("/", filepath.Join(h.StaticDir, "index.html"))
		e.File("/script.js", filepath.Join(h.StaticDir, "script.js"))
		e.Static("/static", h.StaticDir)
	}

	e.POST("/upload-question", h.uploadQuestion)
	e.POST("/upload-book", h.uploadBook)
	e.GET("/set-current-book/:filename", h.setCurrentBook)
	e.GET("/uploads/:filename", h.serveRecording)
	e.GET("/books/:filename", h.serveBook)

	v1 := e.Group("/api/v1")
	v1.GET("/status", h.status)
	v1.GET("/exchanges", h.exchanges)
	v1.POST("/auth", h.authenticate)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", h.websocketWithAuth)
}

// uploadQuestion receives a recorded question and answers it against the
// current book.
func (h *Handlers) uploadQuestion(c echo.Context) error {
	file, err := c.FormFile("audio_data")
	if err != nil {
		h.Logger.Warn("No audio_data in request", zap.Error(err))
		return c.Redirect(http.StatusFound, "/")
	}
	if file.Filename == "" {
		h.Logger.Warn("Empty audio filename")
		return c.Redirect(http.StatusFound, "/")
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: fmt.Sprintf("Error saving audio file: %v", err),
		})
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: fmt.Sprintf("Error saving audio file: %v", err),
		})
	}

	result, err := h.Questions.ProcessQuestion(c.Request().Context(), audio)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoBookLoaded):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Please load a book first",
			})
		case errors.Is(err, usecase.ErrEmptyQuestion):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Could not understand the question",
			})
		default:
			h.Logger.Error("Error processing question", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: fmt.Sprintf("Error processing question: %v", err),
			})
		}
	}

	return c.JSON(http.StatusOK, AnswerResponse{
		Success:  true,
		Question: result.Question,
		Answer:   result.Answer,
		AudioURL: result.AudioURL,
	})
}

// uploadBook stores an uploaded PDF and makes it the current book. The
// page is reloaded afterwards regardless of outcome.
func (h *Handlers) uploadBook(c echo.Context) error {
	file, err := c.FormFile("book_file")
	if err != nil {
		h.Logger.Warn("No book_file in request", zap.Error(err))
		return c.Redirect(http.StatusFound, "/")
	}
	if file.Filename == "" {
		h.Logger.Warn("Empty book filename")
		return c.Redirect(http.StatusFound, "/")
	}

	src, err := file.Open()
	if err != nil {
		h.Logger.Error("Failed to open uploaded book", zap.Error(err))
		return c.Redirect(http.StatusFound, "/")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.Logger.Error("Failed to read uploaded book", zap.Error(err))
		return c.Redirect(http.StatusFound, "/")
	}

	if _, err := h.Library.UploadBook(file.Filename, data); err != nil {
		h.Logger.Error("Failed to store uploaded book",
			zap.String("filename", file.Filename),
			zap.Error(err))
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handlers) setCurrentBook(c echo.Context) error {
	filename := c.Param("filename")
	if _, err := h.Library.SetCurrentBook(filename); err != nil {
		h.Logger.Warn("Failed to set current book",
			zap.String("filename", filename),
			zap.Error(err))
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handlers) serveRecording(c echo.Context) error {
	path, err := h.Store.RecordingPath(c.Param("filename"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	return c.File(path)
}

func (h *Handlers) serveBook(c echo.Context) error {
	path, err := h.Store.BookPath(c.Param("filename"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	return c.File(path)
}

// status reports whether a book is loaded plus the stored books and
// question recordings.
func (h *Handlers) status(c echo.Context) error {
	current, loaded := h.Library.CurrentBook()

	books, err := h.Library.ListBooks()
	if err != nil {
		h.Logger.Error("Failed to list books", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list books"})
	}

	recordings, err := h.Library.ListRecordings()
	if err != nil {
		h.Logger.Error("Failed to list recordings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list recordings"})
	}

	resp := StatusResponse{
		BookLoaded: loaded,
		Books:      make([]BookInfo, 0, len(books)),
		Recordings: recordings,
	}
	if loaded {
		resp.Title = current.Title
	}
	for _, book := range books {
		resp.Books = append(resp.Books, BookInfo{
			Filename: book.Filename,
			Title:    book.Title,
			Current:  loaded && book.Filename == current.Filename,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handlers) exchanges(c echo.Context) error {
	recent, err := h.Questions.RecentExchanges(c.Request().Context(), 20)
	if err != nil {
		h.Logger.Error("Failed to list exchanges", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list exchanges"})
	}
	return c.JSON(http.StatusOK, recent)
}

func (h *Handlers) authenticate(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}
	if req.ClientID == "" {
		req.ClientID = uuid.New().String()
	}

	token, err := h.Auth.GenerateListenerToken(req.ClientID)
	if err != nil {
		h.Logger.Error("Failed to generate listener token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "token generation failed"})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		ClientID:  req.ClientID,
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func (h *Handlers) websocketWithAuth(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		header := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		h.Logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing token"})
	}

	claims, err := h.Auth.ValidateToken(token)
	if err != nil {
		h.Logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
	}

	return ws.HandleWebSocket(h.Hub, c, claims.ClientID, h.Logger)
}
