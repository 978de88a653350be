package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/export"
	"golang.org/x/term"
)

// ReplayOptions configures the replay command.
type ReplayOptions struct {
	Options
	// Script is a command file; empty means read commands from Input.
	Script string
	// Format selects the final dump of the tree; empty skips it.
	Format      string
	StopOnError bool
	Input       io.Reader
	Output      io.Writer
}

// Replay applies a script (or an interactive session) to a fresh editor.
// The banner, prompts and glamour rendering are only used when Output is a terminal.
func Replay(opts ReplayOptions) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	ed, _, _, _, err := createEditor(opts.Options)
	if err != nil {
		return err
	}

	var format export.Format
	if opts.Format != "" {
		if format, err = export.ParseFormat(opts.Format); err != nil {
			return err
		}
	}

	interactive := opts.Script == "" && isTerminal(opts.Input) && isTerminal(opts.Output)
	runner := arbor.NewRunner()
	runner.Input = opts.Input
	runner.Output = opts.Output
	runner.Headless = !interactive
	runner.StopOnError = opts.StopOnError
	if isTerminal(opts.Output) {
		runner.Renderer = tui.NewRenderer()
	}
	if interactive {
		tui.PrintBanner(opts.Output, arbor.Version)
	}

	if opts.Script != "" {
		f, err := os.Open(opts.Script)
		if err != nil {
			return fmt.Errorf("error opening script: %w", err)
		}
		defer f.Close()
		err = runner.RunScript(ed, f)
		if err != nil {
			return err
		}
	} else if err := runner.Run(ed); err != nil {
		return err
	}

	if format == "" {
		return nil
	}
	interaction := ed.Interaction()
	return export.Encode(opts.Output, format, ed.ExportTree(), &interaction)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
