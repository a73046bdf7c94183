package cli

import (
	"github.com/happyhackingspace/arcfilter/taboo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newTabooCommand() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "taboo",
		Short: "Print the effective taboo rules as YAML",
		Args:  cobra.NoArgs,
		Example: `  arcfilter taboo > rules.yaml
  arcfilter taboo --rules rules.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := taboo.Default()
			if rulesPath != "" {
				var err error
				if rules, err = taboo.Load(rulesPath); err != nil {
					return err
				}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(rules); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file to normalize (default: built-in tables)")
	return cmd
}
