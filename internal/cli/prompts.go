package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/prompts"
)

// promptsCommand groups the illustration prompt commands.
func (c *CLI) promptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Illustration prompts per event type",
		Long: `Illustration prompts per event type.

Illustrations are generated outside eventcards from these prompts and saved
as <illustrations_dir>/<type>_illustration.png, where 'render --type' finds them.`,
	}

	cmd.AddCommand(c.promptsListCommand())
	cmd.AddCommand(c.promptsShowCommand())
	cmd.AddCommand(c.promptsPlaceholderCommand())

	return cmd
}

func (c *CLI) promptsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List event types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, p := range prompts.Default().All() {
				status := StyleDim.Render("missing")
				if fileExists(prompts.IllustrationPath(c.cfg.IllustrationsDir, p.Type)) {
					status = StyleSuccess.Render("cached")
				}
				rows = append(rows, []string{p.Type, p.Title, status})
			}
			printTable([]string{"Type", "Title", "Illustration"}, rows)
			printDetail("Directory: %s", c.cfg.IllustrationsDir)
			return nil
		},
	}
}

func (c *CLI) promptsShowCommand() *cobra.Command {
	var custom string

	cmd := &cobra.Command{
		Use:   "show <type>",
		Short: "Print the full illustration prompt for an event type",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return prompts.Default().Types(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := prompts.Default()
			if _, ok := cat.Get(args[0]); !ok {
				c.Logger.Warn("unknown event type, using generic", "type", args[0])
			}
			fmt.Fprint(stdout, cat.Build(args[0], custom))
			return nil
		},
	}
	cmd.Flags().StringVar(&custom, "custom", "", "extra elements to incorporate")
	return cmd
}

func (c *CLI) promptsPlaceholderCommand() *cobra.Command {
	var all, force bool

	cmd := &cobra.Command{
		Use:   "placeholder [type...]",
		Short: "Write faint placeholder illustrations",
		Long:  `Write faint gray placeholder illustrations for event types that have none yet. Existing files are kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := args
			if all {
				types = prompts.Default().Types()
			}
			if len(types) == 0 {
				return fmt.Errorf("name at least one event type or pass --all")
			}
			dir := c.cfg.IllustrationsDir
			for _, t := range types {
				if !force && fileExists(prompts.IllustrationPath(dir, t)) {
					printDetail("%s: kept existing illustration", t)
					continue
				}
				path, err := prompts.WritePlaceholder(dir, t)
				if err != nil {
					return err
				}
				printSuccess("Wrote %s", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every event type in the catalog")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing illustrations")
	return cmd
}
