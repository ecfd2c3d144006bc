package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/prompt-mirror/internal/presets"
)

func newPresetsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage example prompts",
		Long: `Manage the catalog of example prompts.

Available subcommands:
  list   - List built-in and custom presets
  show   - Show one preset, optionally analyzing its rough version
  add    - Add a custom preset
  delete - Delete a custom preset
  import - Import custom presets from YAML
  export - Export custom presets as YAML`,
	}

	// withStore opens the catalog around fn.
	withStore := func(fn func(cmd *cobra.Command, args []string, s *presets.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			s, err := a.openPresets()
			if err != nil {
				return err
			}
			defer s.Close()
			return fn(cmd, args, s)
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, s *presets.Store) error {
			all, err := s.List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range all {
				kind := "custom"
				if p.Builtin {
					kind = "built-in"
				}
				fmt.Fprintf(w, "%-20s %s %s\n", bold(p.ID), p.Label, gray("("+kind+")"))
			}
			return nil
		}),
	}

	var analyze bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a preset",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, s *presets.Store) error {
			p, err := s.Get(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n\n%s\n%s\n", bold(p.Label), gray("("+p.ID+")"), bold("Rough:"), p.Rough)
			if p.Polished != "" {
				fmt.Fprintf(w, "\n%s\n%s\n", bold("Polished:"), p.Polished)
			}
			if analyze {
				fmt.Fprintln(w)
				printReport(w, a.service.Analyze(cmd.Context(), p.Rough))
			}
			return nil
		}),
	}
	show.Flags().BoolVar(&analyze, "analyze", false, "Also analyze the rough prompt")

	var params presets.AddParams
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a custom preset",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, _ []string, s *presets.Store) error {
			p, err := s.Add(params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("Added"), p.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&params.ID, "id", "", "Preset id (generated when empty)")
	add.Flags().StringVar(&params.Label, "label", "", "Display label")
	add.Flags().StringVar(&params.Rough, "rough", "", "The rough prompt")
	add.Flags().StringVar(&params.Polished, "polished", "", "The polished version")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom preset",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, s *presets.Store) error {
			if err := s.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("Deleted"), args[0])
			return nil
		}),
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Import custom presets from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, s *presets.Store) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := s.Import(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d, skipped %d\n", green("Imported"), res.Added, len(res.Skipped))
			for _, id := range res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", yellow("exists:"), id)
			}
			return nil
		}),
	}

	exp := &cobra.Command{
		Use:   "export [file]",
		Short: "Export custom presets as YAML (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string, s *presets.Store) error {
			if len(args) == 0 {
				return s.Export(cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := s.Export(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}),
	}

	cmd.AddCommand(list, show, add, del, imp, exp)
	return cmd
}
