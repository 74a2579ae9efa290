package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/render/layout"
)

// formatInfo is the JSON shape of a format in 'formats --json' and the API.
type formatInfo struct {
	ID          string   `json:"id"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
}

func formatInfos() []formatInfo {
	all := layout.All()
	out := make([]formatInfo, len(all))
	for i, f := range all {
		out[i] = formatInfo{
			ID:          string(f.ID),
			Width:       f.BaseWidth,
			Height:      f.BaseHeight,
			Aliases:     layout.AliasesOf(f.ID),
			Description: f.Description,
		}
	}
	return out
}

// formatsCommand lists the registered output formats.
func (c *CLI) formatsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List output formats and their base sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := formatInfos()
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			rows := make([][]string, len(infos))
			for i, f := range infos {
				rows[i] = []string{
					f.ID,
					fmt.Sprintf("%dx%d", f.Width, f.Height),
					strings.Join(f.Aliases, ", "),
					f.Description,
				}
			}
			printTable([]string{"Format", "Base size", "Aliases", "Description"}, rows)
			printDetail("Output size is the base size times --scale.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
