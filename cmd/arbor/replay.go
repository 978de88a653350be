package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Apply edit commands from a script or the terminal",
	Long: `Replays commands against a fresh editor built from the configuration.

A script is either a YAML list of commands ({type, nodeId, selectedIds, label})
or one command per line:

  enter <id> | leave <id> | click <id>
  select [<id>...] | deselect
  add [@<parent>] [label...] | remove | relabel <id> [label...]
  reset | show

Without a script, commands are read from stdin (interactive when attached to a terminal).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		strict, _ := cmd.Flags().GetBool("strict")

		opts := cli.ReplayOptions{
			Options:     commonOptions(cmd),
			Format:      format,
			StopOnError: strict,
			Input:       cmd.InOrStdin(),
			Output:      cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.Script = args[0]
		}
		return cli.Replay(opts)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringP("format", "f", "", "Dump the final tree: json, yaml, mermaid or markdown")
	replayCmd.Flags().Bool("strict", false, "Stop at the first rejected command")
}
