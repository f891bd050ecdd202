package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
)

// ErrCancelled is returned by dialogs and prompters when the user backs out.
var ErrCancelled = errors.New("cancelled by user")

// Result is the outcome of one save strategy. The ladder only moves on after
// Unavailable or Failed.
type Result int

const (
	Saved Result = iota
	Cancelled
	Unavailable
	Failed
)

func (r Result) String() string {
	switch r {
	case Saved:
		return "saved"
	case Cancelled:
		return "cancelled"
	case Unavailable:
		return "unavailable"
	}
	return "failed"
}

// Attempt is what a strategy reports back.
type Attempt struct {
	Result Result
	Path   string
	Err    error
}

// Strategy persists a report under a suggested name.
type Strategy interface {
	Name() string
	Save(ctx context.Context, rep types.Report, filename string) Attempt
}

// SaveDialog is a native "save as" capability. SaveAs returns the chosen path, or
// ErrCancelled when the user dismisses the dialog.
type SaveDialog interface {
	SaveAs(ctx context.Context, suggested string, data []byte) (string, error)
}

// NativeSaveAs hands the payload to a native save dialog.
type NativeSaveAs struct {
	Dialog SaveDialog
}

func (NativeSaveAs) Name() string { return "native-save-as" }

func (s NativeSaveAs) Save(ctx context.Context, rep types.Report, filename string) Attempt {
	if s.Dialog == nil {
		return Attempt{Result: Unavailable}
	}
	path, err := s.Dialog.SaveAs(ctx, filename, rep.Data)
	switch {
	case errors.Is(err, ErrCancelled):
		return Attempt{Result: Cancelled}
	case err != nil:
		logging.Warnf("[export] save dialog failed, falling back: %v", err)
		return Attempt{Result: Failed, Err: err}
	}
	return Attempt{Result: Saved, Path: path}
}

// Prompter asks the user to confirm or edit a filename. ErrCancelled means the user
// declined; an empty answer keeps the suggestion.
type Prompter interface {
	Prompt(ctx context.Context, message, suggested string) (string, error)
}

// PromptMessage is shown by prompters.
const PromptMessage = "Save PDF Report as:"

// PromptedDownload asks for the final name, then hands off to Download. A nil Prompter
// skips the question.
type PromptedDownload struct {
	Prompter Prompter
	Download Strategy
}

func (PromptedDownload) Name() string { return "prompted-download" }

func (s PromptedDownload) Save(ctx context.Context, rep types.Report, filename string) Attempt {
	if s.Download == nil {
		return Attempt{Result: Unavailable}
	}
	name := filename
	if s.Prompter != nil {
		answer, err := s.Prompter.Prompt(ctx, PromptMessage, filename)
		switch {
		case errors.Is(err, ErrCancelled):
			return Attempt{Result: Cancelled}
		case err != nil:
			return Attempt{Result: Failed, Err: fmt.Errorf("prompt: %w", err)}
		}
		if answer = sanitize(answer); answer != "" {
			name = answer
		}
	}
	return s.Download.Save(ctx, rep, name)
}

// LinkDownload writes the payload to Dir: first to a hidden temporary file, which is then
// published under the requested name. Existing files are never overwritten; a numbered
// variant ("name (1).pdf") is chosen instead. The temporary file is removed on every path.
type LinkDownload struct {
	Dir string
}

func (LinkDownload) Name() string { return "link-download" }

func (s LinkDownload) Save(ctx context.Context, rep types.Report, filename string) Attempt {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Attempt{Result: Failed, Err: fmt.Errorf("create download dir: %w", err)}
	}
	tmp := filepath.Join(dir, "."+uuid.NewString()+".part")
	defer os.Remove(tmp)
	if err := os.WriteFile(tmp, rep.Data, 0o644); err != nil {
		return Attempt{Result: Failed, Err: fmt.Errorf("write temp file: %w", err)}
	}
	if ctx.Err() != nil {
		return Attempt{Result: Cancelled, Err: ctx.Err()}
	}
	dest, err := publish(tmp, dir, sanitize(filename))
	if err != nil {
		return Attempt{Result: Failed, Err: err}
	}
	return Attempt{Result: Saved, Path: dest}
}

const maxNameAttempts = 1000

func publish(tmp, dir, name string) (string, error) {
	if name == "" {
		name = "download.pdf"
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		dest := filepath.Join(dir, candidate)
		if _, err := os.Lstat(dest); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.Rename(tmp, dest); err != nil {
			return "", fmt.Errorf("publish %s: %w", candidate, err)
		}
		return dest, nil
	}
	return "", fmt.Errorf("publish %s: no free name in %s", name, dir)
}
