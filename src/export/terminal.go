package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// TerminalPrompter asks on Out and reads one line from In. End of input cancels.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	once sync.Once
	r    *bufio.Reader
}

func (t *TerminalPrompter) Prompt(ctx context.Context, message, suggested string) (string, error) {
	t.once.Do(func() { t.r = bufio.NewReader(t.In) })
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(t.Out, "%s [%s] ", message, suggested)
	line, err := t.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			fmt.Fprintln(t.Out)
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
