package walkthrough

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputClosed is returned when the operator's input reaches EOF
var ErrInputClosed = errors.New("operator input closed")

// clearSequence moves the cursor home and erases the display
const clearSequence = "\033[H\033[2J"

// Asker collects free-form operator input
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskFunc adapts a function to Asker
type AskFunc func(ctx context.Context, question string) (string, error)

func (f AskFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

type lineResult struct {
	text string
	err  error
}

// Console paces a walkthrough on an interactive terminal. Lines are read by
// a single background reader so a pending read can be abandoned when the
// context is canceled.
type Console struct {
	in    io.Reader
	out   io.Writer
	clear bool

	once  sync.Once
	lines chan lineResult
}

// NewConsole reads acknowledgments from in and prints prompts to out. With
// clear set the screen is wiped after every acknowledgment.
func NewConsole(in io.Reader, out io.Writer, clear bool) *Console {
	return &Console{
		in:    in,
		out:   out,
		clear: clear,
		lines: make(chan lineResult),
	}
}

// Wait prints "Press Enter to <prompt>..." and blocks for one line. The
// content of the line is ignored.
func (c *Console) Wait(ctx context.Context, prompt string) error {
	fmt.Fprintf(c.out, "\nPress Enter to %s...\n", prompt)
	if _, err := c.readLine(ctx); err != nil {
		return err
	}
	c.ClearScreen()
	return nil
}

// Ask prints question and returns the operator's trimmed answer
func (c *Console) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(c.out, question)
	line, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ClearScreen wipes the terminal when clearing is enabled
func (c *Console) ClearScreen() {
	if c.clear {
		fmt.Fprint(c.out, clearSequence)
	}
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	c.once.Do(func() { go c.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return res.text, res.err
	}
}

func (c *Console) readLoop() {
	defer close(c.lines)

	reader := bufio.NewReader(c.in)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if line != "" {
				c.lines <- lineResult{text: line}
			}
			if !errors.Is(err, io.EOF) {
				c.lines <- lineResult{err: fmt.Errorf("failed to read operator input: %w", err)}
			}
			return
		}
		c.lines <- lineResult{text: strings.TrimRight(line, "\r\n")}
	}
}
