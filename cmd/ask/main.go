package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/answer"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/capture"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/playback"
	"github.com/quantist25/ConvoAi-BooK-nowledge-App/client/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "answer server base URL")
	bookPath := flag.String("upload-book", "", "PDF to upload before asking")
	bookName := flag.String("book", "", "previously uploaded book to select")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client := answer.NewClient(strings.TrimRight(*serverURL, "/"), logger)
	ctx := context.Background()

	if *bookPath != "" {
		if err := client.UploadBook(ctx, *bookPath); err != nil {
			fmt.Fprintf(os.Stderr, "book upload failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Uploaded %s\n", *bookPath)
	}
	if *bookName != "" {
		if err := client.SetCurrentBook(ctx, *bookName); err != nil {
			fmt.Fprintf(os.Stderr, "book selection failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Selected %s\n", *bookName)
	}

	display := newTerminalDisplay()
	controller := session.NewController(
		capture.NewMicrophone(logger),
		client,
		display,
		playback.NewPlayer(strings.TrimRight(*serverURL, "/"), logger),
		clock.New(),
		logger,
	)

	fmt.Println("Press Enter to record a question, Enter again to stop.")
	fmt.Println("Type r to replay the last answer, Ctrl+D to quit.")
	stdin := bufio.NewScanner(os.Stdin)

	for stdin.Scan() {
		if strings.TrimSpace(stdin.Text()) == "r" {
			if err := controller.Replay(); err != nil {
				fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
			}
			continue
		}

		if err := controller.Start(ctx); err != nil {
			continue
		}
		fmt.Println("Recording... press Enter to stop.")
		if !stdin.Scan() {
			break
		}
		_ = controller.Stop(ctx)
	}
}

// terminalDisplay renders session output to stdout.
type terminalDisplay struct{}

var _ session.Display = (*terminalDisplay)(nil)

func newTerminalDisplay() *terminalDisplay {
	return &terminalDisplay{}
}

func (d *terminalDisplay) SetControls(recordEnabled, stopEnabled bool) {}

func (d *terminalDisplay) ShowElapsed(text string) {
	fmt.Printf("\rRecording %s", text)
}

func (d *terminalDisplay) ClearResult() {
	fmt.Println()
}

func (d *terminalDisplay) ShowResult(result *session.AnswerResult) {
	fmt.Printf("\nQuestion: %s\nAnswer: %s\n", result.Question, result.Answer)
	if result.AudioURL != "" {
		fmt.Printf("Answer audio: %s\n", result.AudioURL)
	}
}

func (d *terminalDisplay) ShowError(text string) {
	fmt.Printf("\n%s\n", text)
}
