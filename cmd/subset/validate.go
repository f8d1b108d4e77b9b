package main

import (
	"github.com/aretw0/subset/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [id...]",
	Short: "Check NFA definitions for consistency",
	Long:  `Validates every definition in --dir, or only the given IDs, and reports errors and warnings per definition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			opts.Config.Strict = true
		}

		conv, err := cli.NewConverter(opts, logger)
		if err != nil {
			return err
		}
		return cli.ValidateDefinitions(cmd.Context(), conv, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat undeclared state references as errors")
}
