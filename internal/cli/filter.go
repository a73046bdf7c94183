package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/happyhackingspace/arcfilter"
	"github.com/spf13/cobra"
)

// filterFlags are the flags shared by the filtering commands.
type filterFlags struct {
	input       string
	output      string
	rules       string
	rootInInput bool
	workers     int
	progress    bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "-", "Input file, one tagged sentence per line (- for stdin)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&f.rules, "rules", "", "YAML rule file (default: built-in tables)")
	cmd.Flags().BoolVar(&f.rootInInput, "root-in-input", false, "First field of every line is the root token")
	cmd.Flags().IntVar(&f.workers, "workers", 1, "Number of sentences filtered in parallel")
	cmd.Flags().BoolVar(&f.progress, "progress", false, "Show a progress bar while loading weights")
}

func (c *CLI) config(f *filterFlags, mode arcfilter.Mode) arcfilter.Config {
	cfg := arcfilter.Config{
		Mode:        mode,
		RulesPath:   f.rules,
		RootInInput: f.rootInInput,
		Workers:     f.workers,
	}
	if f.progress && !c.silent {
		cfg.Progress = os.Stderr
	}
	return cfg
}

func (c *CLI) runFilter(cmd *cobra.Command, f *filterFlags, cfg arcfilter.Config) error {
	af, err := arcfilter.New(cfg)
	if err != nil {
		return err
	}

	in, err := openInput(f.input)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := openOutput(f.output)
	if err != nil {
		return err
	}

	_, err = af.Run(cmd.Context(), in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *CLI) newRuleCommand() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Filter arcs with the taboo rules only",
		Args:  cobra.NoArgs,
		Example: `  echo "The_DT dog_NN ran_VBD" | arcfilter rule
  arcfilter rule -i sentences.txt -o arcs.txt --rules rules.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Rule filter", "rules", flags.rules)
			return c.runFilter(cmd, &flags, c.config(&flags, arcfilter.ModeRule))
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) newQuadCommand() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "quad <linear-weights> <quad-weights>",
		Short: "Filter arcs with boolean role classifiers and a quadratic arc model",
		Args:  cobra.ExactArgs(2),
		Example: `  arcfilter quad linear.txt quad.txt -i sentences.txt

  # Empty linear model (rules + quadratic model only)
  arcfilter quad 0 quad.txt -i sentences.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config(&flags, arcfilter.ModeQuad)
			cfg.LinearPath, cfg.QuadPath = args[0], args[1]
			return c.runFilter(cmd, &flags, cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) newUltraCommand() *cobra.Command {
	var flags filterFlags
	var useTaboo bool

	cmd := &cobra.Command{
		Use:   "ultra <linear-weights> <pair-weights>",
		Short: "Filter arcs with real-valued role scores against a pairwise none/arc model",
		Args:  cobra.ExactArgs(2),
		Example: `  arcfilter ultra linear.txt pair.txt -i sentences.txt --workers 8
  arcfilter ultra linear.json pair.json --taboo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config(&flags, arcfilter.ModeUltra)
			cfg.LinearPath, cfg.PairPath = args[0], args[1]
			cfg.UltraTaboo = useTaboo
			return c.runFilter(cmd, &flags, cfg)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&useTaboo, "taboo", false, "Also apply the taboo rules")
	return cmd
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}
