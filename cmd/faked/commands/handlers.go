package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/faked/errors"
	"github.com/teranos/faked/host"
	"github.com/teranos/faked/version"
)

// HandlersCmd lists the registered annotation handlers
var HandlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "List annotation handlers",
	Long:  `List the annotations faked understands, with the declarations each one produces.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := host.NewDefaultRegistry(version.Version)
		if err != nil {
			return errors.Wrap(err, "failed to register handlers")
		}

		data := pterm.TableData{{"Annotation", "Version", "Requires", "Produces", "Description"}}
		for _, m := range reg.Metadata() {
			requires := m.Requires
			if requires == "" {
				requires = "any"
			}
			produces := strings.Join(m.Produces, ", ")
			if produces == "" {
				produces = "-"
			}
			data = append(data, []string{"@" + m.Name, m.Version, requires, produces, m.Description})
		}
		return pterm.DefaultTable.
			WithHasHeader().
			WithWriter(cmd.OutOrStdout()).
			WithData(data).
			Render()
	},
}
