package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the resolved run configuration",
		Long: `Print the configuration a run would use after layering --config and flags
over the defaults. With --yaml the output is a config file accepted by --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return fmt.Errorf("encoding config: %w", err)
				}
				return enc.Close()
			}

			au := colors(cmd)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, group := range cfg.Parameters().Groups {
				fmt.Fprintln(tw, au.Bold(group.Name))
				for _, p := range group.Params {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Label, p.Value, au.Faint(p.Key))
				}
			}
			return tw.Flush()
		},
	}
	bindConfigFlags(cmd)
	cmd.Flags().Bool("yaml", false, "Print as YAML")
	return cmd
}
