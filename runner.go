package arbor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
)

// Runner drives an Editor from text commands, one per line.
// This allows scripted replays and a console mode without a graphical Renderer.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
	// StopOnError aborts on the first rejected command instead of reporting it and continuing.
	StopOnError bool
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads commands until EOF or "exit". Rejected commands are reported and skipped
// unless StopOnError is set; invariant violations always stop the loop.
func (r *Runner) Run(ed *Editor) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- arbor console (type 'show', 'exit' to quit) ---")
		r.show(ed)
	}

	for {
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}
		eof := err != nil

		line := strings.TrimSpace(text)
		switch {
		case line == "exit" || line == "quit":
			if !r.Headless {
				fmt.Fprintln(r.Output, "Bye!")
			}
			return nil
		case line == "" || strings.HasPrefix(line, "#"):
		default:
			cmd, perr := dto.ParseLine(line)
			if perr == nil {
				perr = r.apply(ed, cmd)
			}
			if stop := r.report(perr); stop != nil {
				return stop
			}
		}

		if eof {
			return nil
		}
	}
}

// RunScript replays a whole script (YAML command list or one command per line).
func (r *Runner) RunScript(ed *Editor, script io.Reader) error {
	cmds, err := dto.LoadScript(script)
	if err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}
	for _, cmd := range cmds {
		if stop := r.report(r.apply(ed, cmd)); stop != nil {
			return stop
		}
	}
	return nil
}

// apply executes a single decoded command.
func (r *Runner) apply(ed *Editor, cmd dto.Command) error {
	if cmd.IsEvent() {
		ev, err := cmd.Event()
		if err != nil {
			return err
		}
		return ed.Dispatch(ev)
	}

	switch cmd.Type {
	case dto.CommandAdd:
		spec := domain.NodeSpec{Label: cmd.Label}
		var id string
		var err error
		if cmd.NodeID != "" {
			id, err = ed.AddChild(cmd.NodeID, spec)
		} else {
			id, err = ed.AddChildToSelection(spec)
		}
		if err != nil {
			return err
		}
		r.printf("added %s\n", id)
	case dto.CommandRemove:
		return ed.RemoveSelection()
	case dto.CommandRelabel:
		return ed.Relabel(cmd.NodeID, cmd.Label)
	case dto.CommandReset:
		return ed.Reset()
	case dto.CommandShow:
		r.show(ed)
	default:
		return fmt.Errorf("%w: unknown command %q", domain.ErrInvalidOperation, cmd.Type)
	}
	return nil
}

// report prints a rejected command and returns the error that should stop the loop, if any.
func (r *Runner) report(err error) error {
	if err == nil {
		return nil
	}
	if r.StopOnError || !domain.IsRecoverable(err) {
		return err
	}
	r.printf("error: %v\n", err)
	return nil
}

func (r *Runner) show(ed *Editor) {
	interaction := ed.Interaction()
	output := graph.GenerateOutline(ed.ExportTree(), &interaction)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(output); err == nil {
			output = rendered
		}
	}
	r.printf("%s\n", strings.TrimRight(output, "\n"))
}

func (r *Runner) printf(format string, args ...any) {
	if r.Output != nil {
		fmt.Fprintf(r.Output, format, args...)
	}
}
