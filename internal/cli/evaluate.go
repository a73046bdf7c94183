package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/arcfilter"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var flags filterFlags
	var mode, linear, quad, pair string
	var useTaboo bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure gold-arc coverage and arc reduction on annotated sentences",
		Args:  cobra.NoArgs,
		Example: `  arcfilter evaluate -i gold.txt
  arcfilter evaluate --mode quad --linear linear.txt --quad quad.txt -i gold.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := arcfilter.ParseMode(mode)
			if err != nil {
				return err
			}
			cfg := c.config(&flags, m)
			cfg.LinearPath, cfg.QuadPath, cfg.PairPath = linear, quad, pair
			cfg.UltraTaboo = useTaboo

			af, err := arcfilter.New(cfg)
			if err != nil {
				return err
			}
			in, err := openInput(flags.input)
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			slog.Info("Evaluating", "mode", m, "input", flags.input)
			start := time.Now()
			result, err := af.Evaluate(cmd.Context(), in)
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			out, err := openOutput(flags.output)
			if err != nil {
				return err
			}
			defer func() { _ = out.Close() }()
			fmt.Fprintf(out, "Sentences: %d (%d skipped)\n", result.Sentences, result.Skipped)
			if result.GoldArcs > 0 {
				fmt.Fprintf(out, "Gold arc coverage: %.2f%% (%d/%d)\n",
					result.Coverage*100, result.GoldKept, result.GoldArcs)
			}
			fmt.Fprintf(out, "Candidate arcs: %d of %d (%.2f%% removed)\n",
				result.Candidates, result.AllArcs, result.Reduction*100)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "rule", "Filter mode: rule, quad or ultra")
	cmd.Flags().StringVar(&linear, "linear", "0", "Linear weights (quad, ultra)")
	cmd.Flags().StringVar(&quad, "quad", "0", "Quadratic weights (quad)")
	cmd.Flags().StringVar(&pair, "pair", "0", "Pair weights (ultra)")
	cmd.Flags().BoolVar(&useTaboo, "taboo", false, "Also apply the taboo rules in ultra mode")
	return cmd
}
