package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// newRootCommand creates the root cobra command with every subcommand.
func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "promptmirror",
		Short: "Score a prompt's clarity and propose a structured rewrite",
		Long: `Prompt Mirror checks a prompt written for a language model against an
eight-section rubric (role, task, inputs, constraints, output format,
steps, success criteria, refusal boundaries), flags ambiguous terms,
vague quantifiers and dangling pronouns, and proposes a rewrite with
placeholders for what is missing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default ~/.prompt-mirror/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newAnalyzeCommand(a),
		newRewriteCommand(a),
		newDiffCommand(a),
		newExportCommand(a),
		newPresetsCommand(a),
		newServeCommand(a),
		newHTTPCommand(a),
		newVersionCommand(),
	)
	return root
}
