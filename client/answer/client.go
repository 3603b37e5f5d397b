package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/session"
)

const genericUploadError = "upload failed"

// Client talks to the answer endpoint over HTTP. The upload request
// carries no timeout: an unresponsive server keeps the session in its
// uploading state until it resolves.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an answer client for the given server base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		// No timeout: an upload in flight blocks until the server
		// resolves. Form endpoints answer with a redirect, which is
		// treated as the final response.
		httpClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

var _ session.AnswerClient = (*Client)(nil)

type statusResponse struct {
	BookLoaded bool   `json:"book_loaded"`
	Title      string `json:"title"`
}

// BookLoaded reports whether the server has a book loaded.
func (c *Client) BookLoaded() bool {
	resp, err := c.httpClient.Get(c.baseURL + "/api/v1/status")
	if err != nil {
		c.logger.Warn("Status check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		c.logger.Warn("Status response unreadable", zap.Error(err))
		return false
	}
	return status.BookLoaded
}

// UploadQuestion sends one recorded question as multipart form data and
// returns the parsed answer. Non-2xx responses yield an UploadError
// carrying the server's error message when one can be parsed.
func (c *Client) UploadQuestion(ctx context.Context, audio []byte) (*session.AnswerResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="audio_data"; filename="recorded_audio.wav"`)
	header.Set("Content-Type", "audio/wav")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-question", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &session.UploadError{Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &session.UploadError{Message: genericUploadError}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &session.UploadError{Message: parseErrorMessage(payload)}
	}

	var result session.AnswerResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, &session.UploadError{Message: genericUploadError}
	}
	return &result, nil
}

// UploadBook submits a PDF through the book upload form. Choosing no
// file is a validation error caught before any request is made.
func (c *Client) UploadBook(ctx context.Context, path string) error {
	if path == "" {
		return &session.FormValidationError{Field: "book_file"}
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open book file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("book_file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-book", body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("book upload failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("book upload failed with status %d", resp.StatusCode)
	}
	return nil
}

// SetCurrentBook selects a previously uploaded book by filename.
func (c *Client) SetCurrentBook(ctx context.Context, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/set-current-book/"+url.PathEscape(filename), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("book selection failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("book selection failed with status %d", resp.StatusCode)
	}
	return nil
}

// parseErrorMessage extracts the error field from a failure body,
// falling back to a generic message.
func parseErrorMessage(payload []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Error == "" {
		return genericUploadError
	}
	return body.Error
}
