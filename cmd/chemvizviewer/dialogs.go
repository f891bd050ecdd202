package main

import (
	"context"
	"fmt"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/chemviz/chemviz/src/export"
)

// saveDialog is the native save-as capability: the fyne file save dialog writes the
// payload to the location the user picks. It is called off the UI goroutine.
type saveDialog struct {
	window fyne.Window
}

type dialogResult struct {
	value string
	err   error
}

func (d saveDialog) SaveAs(ctx context.Context, suggested string, data []byte) (string, error) {
	ch := make(chan dialogResult, 1)
	fyne.Do(func() {
		fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				ch <- dialogResult{err: err}
				return
			}
			if wc == nil {
				ch <- dialogResult{err: export.ErrCancelled}
				return
			}
			_, werr := wc.Write(data)
			cerr := wc.Close()
			if werr == nil {
				werr = cerr
			}
			if werr != nil {
				ch <- dialogResult{err: fmt.Errorf("write %s: %w", wc.URI().Name(), werr)}
				return
			}
			ch <- dialogResult{value: wc.URI().Path()}
		}, d.window)
		fs.SetFileName(suggested)
		fs.Show()
	})
	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// formPrompter asks for the report name in a small form dialog.
type formPrompter struct {
	window fyne.Window
}

func (p formPrompter) Prompt(ctx context.Context, message, suggested string) (string, error) {
	ch := make(chan dialogResult, 1)
	fyne.Do(func() {
		entry := widget.NewEntry()
		entry.SetText(suggested)
		items := []*widget.FormItem{widget.NewFormItem(message, entry)}
		d := dialog.NewForm("Export Report", "Save", "Cancel", items, func(ok bool) {
			if !ok {
				ch <- dialogResult{err: export.ErrCancelled}
				return
			}
			ch <- dialogResult{value: entry.Text}
		}, p.window)
		d.Resize(fyne.NewSize(480, 160))
		d.Show()
	})
	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// dialogNotifier shows export alerts as an information dialog.
type dialogNotifier struct {
	window fyne.Window
}

func (n dialogNotifier) Alert(msg string) {
	fyne.Do(func() { dialog.ShowInformation("Export", msg, n.window) })
}
