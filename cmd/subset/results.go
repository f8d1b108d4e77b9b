package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/subset/internal/cli"
	"github.com/aretw0/subset/pkg/ports"
	"github.com/aretw0/subset/pkg/render"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored conversion results",
	Long:  `List, inspect, and remove results kept by the configured result store (file, memory or redis).`,
}

var resultsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := resultStore(cmd)
		if err != nil {
			return err
		}
		ids, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No stored results found.")
			return nil
		}

		fmt.Fprintln(out, "Stored Results:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var resultsInspectCmd = &cobra.Command{
	Use:   "inspect <result-id>",
	Short: "Show a stored result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := resultStore(cmd)
		if err != nil {
			return err
		}
		res, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cmd.Flags().Changed("format") {
			name, _ := cmd.Flags().GetString("format")
			format, err := render.ParseFormat(name)
			if err != nil {
				return err
			}
			text, err := render.Render(res.DFA, format)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}

		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var resultsRmCmd = &cobra.Command{
	Use:   "rm <result-id>...",
	Short: "Remove one or more results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := resultStore(cmd)
		if err != nil {
			return err
		}

		var errs []error
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed result '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsLsCmd)
	resultsCmd.AddCommand(resultsInspectCmd)
	resultsCmd.AddCommand(resultsRmCmd)

	resultsInspectCmd.Flags().String("format", "", "Render the DFA instead of printing the stored JSON")
}

func resultStore(cmd *cobra.Command) (ports.ResultStore, error) {
	opts, _, err := resolveOptions(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewStore(opts)
}
