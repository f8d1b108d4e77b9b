package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/subset"
	"github.com/aretw0/subset/internal/adapters/file"
	"github.com/aretw0/subset/internal/cli"
	"github.com/aretw0/subset/internal/presentation/tui"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/render"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [id]",
	Short: "Check words against a converted DFA",
	Long: `Converts a definition and starts an acceptance session. Each word is run
through the DFA and cross-checked against a direct NFA simulation.

In headless mode one word is read per stdin line and no prompts are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		conv, err := cli.NewConverter(opts, logger)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		var def domain.Definition
		switch {
		case path != "":
			def, err = file.ReadDefinition(path)
		case len(args) == 1:
			def, err = conv.Definition(cmd.Context(), args[0])
		default:
			return fmt.Errorf("pass a definition ID or --file")
		}
		if err != nil {
			return err
		}

		nfa, err := conv.Validate(def)
		if err != nil {
			return err
		}
		res, err := conv.Convert(cmd.Context(), def)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		headless, _ := cmd.Flags().GetBool("headless")
		session := &cli.Session{
			DFA:     res.DFA,
			NFA:     nfa,
			Out:     cmd.OutOrStdout(),
			Profile: termenv.Ascii,
		}
		if headless || !tui.IsTerminal(os.Stdin) {
			return session.RunHeadless(ctx, cmd.InOrStdin())
		}

		session.Profile = termenv.NewOutput(os.Stdout).Profile
		tui.PrintBanner(session.Out, strings.TrimSpace(subset.Version))
		fmt.Fprint(session.Out, render.Table(res.DFA))
		fmt.Fprintln(session.Out)
		return session.RunInteractive(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, one word per line)")
	runCmd.Flags().StringP("file", "f", "", "Read the definition from a YAML or JSON file")
}
