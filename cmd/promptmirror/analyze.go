package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/prompt-mirror/internal/export"
	"github.com/HendryAvila/prompt-mirror/internal/mirror"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze [prompt...]",
		Short: "Score a prompt and list its gaps, flags and rewrite",
		Long:  "Score a prompt. The prompt is read from the arguments, or from stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readPrompt(cmd, args)
			if err != nil {
				return err
			}
			out := a.service.Analyze(cmd.Context(), text)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printReport(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcome as JSON")
	return cmd
}

func newRewriteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite [prompt...]",
		Short: "Print only the restructured prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readPrompt(cmd, args)
			if err != nil {
				return err
			}
			out := a.service.Analyze(cmd.Context(), text)
			_, err = cmd.OutOrStdout().Write(export.Text(out.Result.Rewrite))
			return err
		},
	}
}

func newDiffCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [prompt...]",
		Short: "Show a line diff between a prompt and its rewrite",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readPrompt(cmd, args)
			if err != nil {
				return err
			}
			out := a.service.Analyze(cmd.Context(), text)
			c := export.Diff(text, out.Result.Rewrite)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s, %s\n\n", green(fmt.Sprintf("%d added", c.Added)), red(fmt.Sprintf("%d removed", c.Removed)))
			for _, l := range c.Lines {
				switch l.Op {
				case export.OpInsert:
					fmt.Fprintln(w, green("+ "+l.Text))
				case export.OpDelete:
					fmt.Fprintln(w, red("- "+l.Text))
				default:
					fmt.Fprintln(w, gray("  "+l.Text))
				}
			}
			return nil
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export [prompt...]",
		Short: "Write the rewrite or the full report to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var render func(mirror.Outcome) ([]byte, error)
			switch format {
			case "text":
				render = func(o mirror.Outcome) ([]byte, error) { return export.Text(o.Result.Rewrite), nil }
			case "markdown":
				render = func(o mirror.Outcome) ([]byte, error) { return []byte(export.Markdown(o)), nil }
			case "html":
				render = export.HTML
			default:
				return fmt.Errorf("unknown format %q: use text, markdown or html", format)
			}

			text, err := a.readPrompt(cmd, args)
			if err != nil {
				return err
			}
			body, err := render(a.service.Analyze(cmd.Context(), text))
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if output == "" {
				output = exportFilename(format)
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", green("Wrote"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Export format: text, markdown or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path, or - for stdout (default depends on format)")
	return cmd
}

func exportFilename(format string) string {
	switch format {
	case "markdown":
		return "prompt_mirror_report.md"
	case "html":
		return "prompt_mirror_report.html"
	default:
		return export.Filename
	}
}

// printReport writes the human-readable analysis.
func printReport(w io.Writer, out mirror.Outcome) {
	r := out.Result
	fmt.Fprintf(w, "%s %s %s\n", bold("Score:"), scoreColor(r.Score), gray("("+string(out.Source)+")"))
	if out.Reason != "" {
		fmt.Fprintln(w, gray("remote result not used: "+out.Reason))
	}

	fmt.Fprintf(w, "\n%s\n", bold("Gaps"))
	for _, g := range r.Gaps {
		if g.Present {
			fmt.Fprintf(w, "  %s %-18s %s\n", green("✓"), g.Dimension, gray(g.Evidence))
		} else {
			fmt.Fprintf(w, "  %s %-18s %s\n", red("✗"), g.Dimension, g.Hint)
		}
	}

	if len(r.Flags) > 0 {
		fmt.Fprintf(w, "\n%s\n", bold("Flags"))
		for _, f := range r.Flags {
			fmt.Fprintf(w, "  %s %s at %d: %s\n", yellow(fmt.Sprintf("%q", f.MatchedText)), f.Category, f.Position, f.Hint)
		}
	}

	fmt.Fprintf(w, "\n%s\n", bold("Notes"))
	for _, n := range out.Notes {
		fmt.Fprintf(w, "  - %s\n", n)
	}

	fmt.Fprintf(w, "\n%s\n%s\n", bold("Rewrite"), r.Rewrite)
}

func scoreColor(score int) string {
	s := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return green(s)
	case score >= 50:
		return yellow(s)
	default:
		return red(s)
	}
}
