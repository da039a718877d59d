package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zinc-sig/nbcheck/cmd/config"
	"github.com/zinc-sig/nbcheck/cmd/helpers"
	"github.com/zinc-sig/nbcheck/internal/notebook"
	"go.uber.org/zap"
)

type listing struct {
	Root     string               `json:"root"`
	Runnable []string             `json:"runnable"`
	Excluded []notebook.Exclusion `json:"excluded,omitempty"`
}

func newListCommand(a *app) *cobra.Command {
	var (
		flags config.HarnessFlags
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the notebooks that would be executed",
		Example: `  nbcheck list
  nbcheck list --root examples --all
  nbcheck list --exclude-tag slow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := helpers.ResolveConfig(cmd, a.configPath, &flags)
			if err != nil {
				return err
			}

			runnable, excluded, err := notebook.Runnable(cfg.Root, cfg.ExcludeTags)
			if err != nil {
				return err
			}
			a.logger.Debug("discovered notebooks",
				zap.String("root", cfg.Root),
				zap.Int("runnable", len(runnable)),
				zap.Int("excluded", len(excluded)))

			out := listing{Root: cfg.Root, Runnable: runnable}
			if out.Runnable == nil {
				out.Runnable = []string{}
			}
			if all {
				out.Excluded = excluded
			}
			return helpers.OutputJSON(cmd.OutOrStdout(), out)
		},
	}

	helpers.SetupRootFlag(cmd, &flags)
	cmd.Flags().BoolVar(&all, "all", false, "Also list excluded notebooks with the tag that excluded them")

	return cmd
}
