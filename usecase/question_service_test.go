package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/adapters/memory"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/entities"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/domain/repositories"
)

// fakeFileStore keeps everything in maps so usecases can be tested
// without touching the filesystem.
type fakeFileStore struct {
	recordings  map[string][]byte
	transcripts map[string]string
	books       map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{
		recordings:  make(map[string][]byte),
		transcripts: make(map[string]string),
		books:       make(map[string][]byte),
	}
}

func (f *fakeFileStore) SaveRecording(name string, data []byte) error {
	f.recordings[name] = data
	return nil
}

func (f *fakeFileStore) SaveTranscript(name string, content string) error {
	f.transcripts[name] = content
	return nil
}

func (f *fakeFileStore) ReadTranscript(name string) (string, bool) {
	content, ok := f.transcripts[name]
	return content, ok
}

func (f *fakeFileStore) ListRecordings() ([]string, error) {
	var names []string
	for name := range f.recordings {
		if strings.HasSuffix(name, ".wav") {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (f *fakeFileStore) SaveBook(name string, data []byte) error {
	f.books[name] = data
	return nil
}

func (f *fakeFileStore) ReadBook(name string) ([]byte, error) {
	data, ok := f.books[name]
	if !ok {
		return nil, fmt.Errorf("book not stored: %s", name)
	}
	return data, nil
}

func (f *fakeFileStore) BookExists(name string) bool {
	_, ok := f.books[name]
	return ok
}

func (f *fakeFileStore) ListBooks() ([]*entities.Book, error) {
	var books []*entities.Book
	for name, data := range f.books {
		books = append(books, entities.NewBook(name, int64(len(data))))
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Filename < books[j].Filename })
	return books, nil
}

func (f *fakeFileStore) RecordingPath(name string) (string, error) { return "/tmp/" + name, nil }
func (f *fakeFileStore) BookPath(name string) (string, error)      { return "/tmp/" + name, nil }

type fakeSTT struct {
	transcript string
	err        error
}

func (f *fakeSTT) TranscribeAudio(ctx context.Context, audio []byte, cfg repositories.AudioConfig) (string, error) {
	return f.transcript, f.err
}

type fakeAnswerer struct {
	answer string
	err    error
}

func (f *fakeAnswerer) AnswerQuestion(ctx context.Context, book *entities.Book, pdf []byte, question string) (string, error) {
	return f.answer, f.err
}

type fakeTTS struct {
	audio []byte
	err   error
}

func (f *fakeTTS) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return f.audio, f.err
}

type stageRecorder struct {
	stages []string
}

func (r *stageRecorder) NotifyStage(stage, detail string) {
	r.stages = append(r.stages, stage)
}

func newTestQuestionService(
	t *testing.T,
	store *fakeFileStore,
	stt *fakeSTT,
	answerer *fakeAnswerer,
	tts *fakeTTS,
	notifier ProgressNotifier,
) (*QuestionService, *LibraryService) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	library := NewLibraryService(store, logger)
	svc := NewQuestionService(library, stt, answerer, tts, store, memory.NewExchangeRepository(), notifier, "en-US", logger)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc, library
}

func TestProcessQuestionNoBook(t *testing.T) {
	store := newFakeFileStore()
	svc, _ := newTestQuestionService(t, store, &fakeSTT{}, &fakeAnswerer{}, &fakeTTS{}, nil)

	_, err := svc.ProcessQuestion(context.Background(), []byte("audio"))
	if !errors.Is(err, ErrNoBookLoaded) {
		t.Fatalf("Expected ErrNoBookLoaded, got %v", err)
	}

	if len(store.recordings) != 0 {
		t.Error("No audio should be stored when no book is loaded")
	}
}

func TestProcessQuestionSuccess(t *testing.T) {
	store := newFakeFileStore()
	recorder := &stageRecorder{}
	svc, library := newTestQuestionService(t, store,
		&fakeSTT{transcript: "Who wrote this book?"},
		&fakeAnswerer{answer: "Herman Melville wrote it."},
		&fakeTTS{audio: []byte("mp3")},
		recorder)

	if _, err := library.UploadBook("moby-dick.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("UploadBook failed: %v", err)
	}

	result, err := svc.ProcessQuestion(context.Background(), []byte("wav-bytes"))
	if err != nil {
		t.Fatalf("ProcessQuestion failed: %v", err)
	}

	if result.Question != "Who wrote this book?" {
		t.Errorf("Unexpected question: %q", result.Question)
	}
	if result.Answer != "Herman Melville wrote it." {
		t.Errorf("Unexpected answer: %q", result.Answer)
	}
	if result.AudioURL != "/uploads/20240101-120000-response.mp3" {
		t.Errorf("Unexpected audio URL: %q", result.AudioURL)
	}

	if _, ok := store.recordings["20240101-120000.wav"]; !ok {
		t.Error("Question audio should be stored under the timestamp name")
	}
	if _, ok := store.recordings["20240101-120000-response.mp3"]; !ok {
		t.Error("Answer audio should be stored next to the question")
	}

	transcript, ok := store.transcripts["20240101-120000.txt"]
	if !ok {
		t.Fatal("Transcript should be stored")
	}
	if !strings.Contains(transcript, "Question:\nWho wrote this book?") {
		t.Errorf("Unexpected transcript: %q", transcript)
	}

	wantStages := []string{StageReceived, StageTranscribing, StageAnswering, StageSynthesizing, StageComplete}
	if len(recorder.stages) != len(wantStages) {
		t.Fatalf("Expected stages %v, got %v", wantStages, recorder.stages)
	}
	for i, stage := range wantStages {
		if recorder.stages[i] != stage {
			t.Errorf("Stage %d: expected %s, got %s", i, stage, recorder.stages[i])
		}
	}

	recent, err := svc.RecentExchanges(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentExchanges failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Status != entities.ExchangeStatusCompleted {
		t.Errorf("Expected one completed exchange, got %+v", recent)
	}
}

func TestProcessQuestionEmptyTranscript(t *testing.T) {
	store := newFakeFileStore()
	svc, library := newTestQuestionService(t, store,
		&fakeSTT{transcript: "   "},
		&fakeAnswerer{answer: "unused"},
		&fakeTTS{},
		nil)

	if _, err := library.UploadBook("book.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("UploadBook failed: %v", err)
	}

	_, err := svc.ProcessQuestion(context.Background(), []byte("audio"))
	if !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("Expected ErrEmptyQuestion, got %v", err)
	}

	recent, _ := svc.RecentExchanges(context.Background(), 10)
	if len(recent) != 1 || recent[0].Status != entities.ExchangeStatusFailed {
		t.Errorf("Expected one failed exchange, got %+v", recent)
	}
}

func TestProcessQuestionAnswerFailure(t *testing.T) {
	store := newFakeFileStore()
	recorder := &stageRecorder{}
	svc, library := newTestQuestionService(t, store,
		&fakeSTT{transcript: "Q"},
		&fakeAnswerer{err: errors.New("model unavailable")},
		&fakeTTS{},
		recorder)

	if _, err := library.UploadBook("book.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("UploadBook failed: %v", err)
	}

	if _, err := svc.ProcessQuestion(context.Background(), []byte("audio")); err == nil {
		t.Fatal("Expected error when answer generation fails")
	}

	last := recorder.stages[len(recorder.stages)-1]
	if last != StageFailed {
		t.Errorf("Expected final stage %s, got %s", StageFailed, last)
	}
}

func TestProcessQuestionTTSFailureKeepsAnswer(t *testing.T) {
	store := newFakeFileStore()
	svc, library := newTestQuestionService(t, store,
		&fakeSTT{transcript: "Q"},
		&fakeAnswerer{answer: "A"},
		&fakeTTS{err: errors.New("quota exceeded")},
		nil)

	if _, err := library.UploadBook("book.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("UploadBook failed: %v", err)
	}

	result, err := svc.ProcessQuestion(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("ProcessQuestion should tolerate synthesis failure, got %v", err)
	}
	if result.AudioURL != "" {
		t.Errorf("Expected no audio URL when synthesis fails, got %q", result.AudioURL)
	}
	if result.Answer != "A" {
		t.Errorf("Expected textual answer to survive, got %q", result.Answer)
	}
}
