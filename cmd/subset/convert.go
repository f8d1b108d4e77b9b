package main

import (
	"fmt"
	"os"

	"github.com/aretw0/subset/internal/adapters/file"
	"github.com/aretw0/subset/internal/cli"
	"github.com/aretw0/subset/internal/presentation/tui"
	"github.com/aretw0/subset/pkg/domain"
	"github.com/aretw0/subset/pkg/notation"
	"github.com/aretw0/subset/pkg/render"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an NFA to a DFA",
	Long: `Converts an NFA given as form fields, a definition file or a definition ID.

Form fields use the comma notation:
  subset convert --states q0,q1,q2 --alphabet a,b \
    --transitions 'q0:a->q1,q1:b->q2,q0:ε->q2' --initial q0 --accepting q2`,
	Example: `  subset convert --file nfa.yaml --format formal
  subset convert --id ends-with-ab --pretty`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("states", "", "Comma-separated states")
	convertCmd.Flags().String("alphabet", "", "Comma-separated alphabet symbols")
	convertCmd.Flags().String("transitions", "", "Comma-separated from:symbol->to entries")
	convertCmd.Flags().String("initial", "", "Initial state (comma-separated for several)")
	convertCmd.Flags().String("accepting", "", "Comma-separated accepting states")
	convertCmd.Flags().StringP("file", "f", "", "Read the definition from a YAML or JSON file")
	convertCmd.Flags().String("id", "", "Convert a definition from --dir by ID")
	convertCmd.Flags().String("format", string(render.FormatReport), "Output format: report, table, edges, formal, mermaid, dot, markdown or json")
	convertCmd.Flags().Bool("pretty", false, "Print a boxed transition table")
	convertCmd.Flags().Bool("strict", false, "Treat undeclared state references as errors")
	convertCmd.Flags().Bool("save", false, "Store the result in the result store")
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, logger, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("strict") {
		opts.Config.Strict, _ = flags.GetBool("strict")
	}

	formatName, _ := flags.GetString("format")
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	conv, err := cli.NewConverter(opts, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	id, _ := flags.GetString("id")
	path, _ := flags.GetString("file")

	var res *domain.Result
	switch {
	case id != "":
		res, err = conv.ConvertByID(ctx, id)
	case path != "":
		var def domain.Definition
		def, err = file.ReadDefinition(path)
		if err == nil {
			res, err = conv.Convert(ctx, def)
		}
	default:
		var form notation.Form
		form.States, _ = flags.GetString("states")
		form.Alphabet, _ = flags.GetString("alphabet")
		form.Transitions, _ = flags.GetString("transitions")
		form.Initial, _ = flags.GetString("initial")
		form.Accepting, _ = flags.GetString("accepting")
		if form.States == "" {
			return fmt.Errorf("nothing to convert: pass --states, --file or --id")
		}
		res, err = conv.ConvertForm(ctx, form)
	}

	stderr := cmd.ErrOrStderr()
	profile := termenv.NewOutput(os.Stderr).Profile
	if err != nil {
		for _, detail := range domain.ValidationErrors(err) {
			fmt.Fprintln(stderr, tui.Warn(profile, detail.Error()))
		}
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(stderr, tui.Warn(profile, "warning: "+w))
	}

	if save, _ := flags.GetBool("save"); save && id == "" {
		if err := conv.Save(ctx, res); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
		fmt.Fprintf(stderr, "saved result %s\n", res.ID)
	}

	out := cmd.OutOrStdout()
	if pretty, _ := flags.GetBool("pretty"); pretty {
		return render.Pretty(out, res.DFA)
	}
	if format == render.FormatMarkdown && tui.IsTerminal(os.Stdout) {
		text, err := tui.RenderDFA(res.DFA)
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	}

	text, err := render.Render(res.DFA, format)
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}
