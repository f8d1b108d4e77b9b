package main

import (
	"fmt"

	"github.com/aretw0/subset/internal/cli"
	"github.com/aretw0/subset/pkg/render"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <id>",
	Short: "Export the DFA as a diagram",
	Long: `Converts a definition and prints the DFA as a Mermaid diagram (default) or
Graphviz DOT. With --word, the states visited by the word are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := resolveOptions(cmd)
		if err != nil {
			return err
		}
		conv, err := cli.NewConverter(opts, logger)
		if err != nil {
			return err
		}

		res, err := conv.ConvertByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dot, _ := cmd.Flags().GetBool("dot"); dot {
			fmt.Fprint(out, render.DOT(res.DFA))
			return nil
		}

		var overlay *render.Overlay
		if cmd.Flags().Changed("word") {
			word, _ := cmd.Flags().GetString("word")
			overlay = render.Trace(res.DFA, cli.ParseWord(word, res.DFA.Alphabet))
		}
		fmt.Fprint(out, render.Mermaid(res.DFA, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("dot", false, "Print Graphviz DOT instead of Mermaid")
	graphCmd.Flags().String("word", "", "Highlight the path of this word (Mermaid only)")
}
