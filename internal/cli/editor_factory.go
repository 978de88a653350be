package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
)

// Options holds the flags shared by every command.
type Options struct {
	ConfigPath string
	Debug      bool
}

// createLogger configures the application logger from the config level.
// Logs go to Stderr to keep Stdout for command output. Debug overrides the level.
func createLogger(cfg config.Config, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.NewWithWriter(os.Stderr, slog.LevelDebug), nil
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, level), nil
}

// createEditor loads the configuration and initializes an editor with standard CLI conventions.
// Metrics are nil unless enabled in the configuration.
func createEditor(opts Options, extra ...arbor.Option) (*arbor.Editor, *observability.Metrics, config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, cfg, nil, err
	}
	logger, err := createLogger(cfg, opts.Debug)
	if err != nil {
		return nil, nil, cfg, nil, err
	}

	editorOpts := []arbor.Option{arbor.WithLogger(logger)}
	if opts.Debug {
		editorOpts = append(editorOpts, arbor.WithLifecycleHooks(createDebugHooks(logger)))
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		editorOpts = append(editorOpts, arbor.WithLifecycleHooks(metrics.Hooks()))
	}

	ed, err := arbor.NewFromConfig(cfg, append(editorOpts, extra...)...)
	if err != nil {
		return nil, nil, cfg, nil, fmt.Errorf("error initializing editor: %w", err)
	}
	logger.Debug("Editor created", "config", opts.ConfigPath, "nodes", cfg.SeedSize()+1)
	return ed, metrics, cfg, logger, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStructureChange: func(e *domain.StructureEvent) {
			logger.Debug("Structure Change", "kind", e.Kind, "node_id", e.NodeID, "parent_id", e.ParentID, "removed", len(e.Removed))
		},
		OnInteractionChange: func(e *domain.InteractionEvent) {
			logger.Debug("Interaction Change", "hovered", e.Hovered, "selected", e.Selected)
		},
		OnEventDispatched: func(ev domain.Event, err error) {
			if err != nil {
				logger.Debug("Event (Rejected)", "type", ev.Type, "node_id", ev.NodeID, "err", err)
			} else {
				logger.Debug("Event", "type", ev.Type, "node_id", ev.NodeID)
			}
		},
	}
}
