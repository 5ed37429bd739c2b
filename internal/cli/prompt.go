package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aalvaropc/testdeck/internal/usecase"
)

var errNotInteractive = errors.New("confirmation needed but stdin is not a terminal (use --yes)")

// linePrompter asks workbench questions on a line-oriented stream.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer

	assumeYes   bool
	interactive bool

	// answer, when set, is returned for text questions without asking.
	answer string
}

func newLinePrompter(in io.Reader, out io.Writer, assumeYes bool) *linePrompter {
	return &linePrompter{
		in:          bufio.NewReader(in),
		out:         out,
		assumeYes:   assumeYes,
		interactive: isTerminal(in),
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var _ usecase.Prompter = (*linePrompter)(nil)

func (p *linePrompter) Confirm(ctx context.Context, req usecase.ConfirmRequest) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	if !p.interactive {
		return false, errNotInteractive
	}

	fmt.Fprintf(p.out, "%s\n%s [y/N]: ", req.Title, req.Message)
	line, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *linePrompter) Text(ctx context.Context, req usecase.TextRequest) (string, bool, error) {
	if p.answer != "" {
		return p.answer, true, nil
	}
	if p.assumeYes || !p.interactive {
		return req.Default, true, nil
	}

	fmt.Fprintf(p.out, "%s [%s]: ", req.Label, req.Default)
	line, err := p.readLine(ctx)
	if err != nil {
		return "", false, err
	}
	if line == "" {
		return req.Default, true, nil
	}
	return line, true, nil
}

func (p *linePrompter) readLine(ctx context.Context) (string, error) {
	type read struct {
		line string
		err  error
	}
	ch := make(chan read, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		ch <- read{strings.TrimSpace(line), err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}
