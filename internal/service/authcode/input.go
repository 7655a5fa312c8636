package authcode

//go:generate $MOCKGEN -source=input.go -destination=mocks/input_mock.go

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// InteractiveInput asks a human operator for a line of text.
// Prompt blocks until the operator answers or ctx is done.
type InteractiveInput interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// TerminalInput reads operator answers line by line from a reader, usually stdin.
type TerminalInput struct {
	reader *bufio.Reader
	writer io.Writer

	mu sync.Mutex
	// pending carries the answer of a read that outlived a cancelled prompt.
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewTerminalInput creates a TerminalInput printing prompts to w and reading answers from r.
func NewTerminalInput(r io.Reader, w io.Writer) *TerminalInput {
	return &TerminalInput{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Prompt prints message and waits for one line of input.
// A cancelled prompt leaves the read running, its line is returned by the next Prompt.
func (t *TerminalInput) Prompt(ctx context.Context, message string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := fmt.Fprint(t.writer, message); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	if t.pending == nil {
		t.pending = make(chan lineResult, 1)

		go t.readLine(t.pending)
	}

	select {
	case result := <-t.pending:
		t.pending = nil

		return result.line, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *TerminalInput) readLine(out chan<- lineResult) {
	line, err := t.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}

	out <- lineResult{
		line: strings.TrimRight(line, "\r\n"),
		err:  err,
	}
}
