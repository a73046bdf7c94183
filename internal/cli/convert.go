package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/happyhackingspace/arcfilter/model"
	"github.com/spf13/cobra"
)

var kindWidths = map[string]int{
	"linear": model.LinearWidth,
	"pair":   model.PairWidth,
	"quad":   model.QuadWidth,
}

func (c *CLI) newConvertCommand() *cobra.Command {
	var kind string
	var progress bool

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a weight file between the text and JSON formats",
		Args:  cobra.ExactArgs(2),
		Example: `  arcfilter convert linear.txt linear.json --kind linear
  arcfilter convert pair.json pair.txt --kind pair`,
		RunE: func(cmd *cobra.Command, args []string) error {
			width, ok := kindWidths[kind]
			if !ok {
				return fmt.Errorf("unknown weight kind %q (want linear, pair or quad)", kind)
			}
			in, out := args[0], args[1]

			opts := &model.LoadOptions{}
			if progress && !c.silent {
				opts.Progress = os.Stderr
			}
			start := time.Now()
			t, err := model.LoadTable(in, width, opts)
			if err != nil {
				return err
			}
			slog.Debug("Weights loaded", "path", in, "features", t.Len(), "duration", time.Since(start))

			if strings.EqualFold(filepath.Ext(out), ".json") {
				err = model.SaveJSON(t, out)
			} else {
				err = writeText(t, out)
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			slog.Info("Weights converted", "from", in, "to", out, "features", t.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "linear", "Weight kind: linear, pair or quad")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a progress bar while loading")
	return cmd
}

func writeText(t *model.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := model.WriteTable(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
