package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/swdee/go-smartcam"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the class ids and names of the labels file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {

		labels, err := smartcam.LoadLabels(conf.Labels)

		if err != nil {
			return err
		}

		return printLabels(cmd, labels)
	},
}

// printLabels writes one "<class id>\t<name>" line per class, the
// placeholder first line of the file has no class id
func printLabels(cmd *cobra.Command, labels *smartcam.Labels) error {

	out := cmd.OutOrStdout()

	for id := 0; id < labels.Len()-1; id++ {
		if _, err := fmt.Fprintf(out, "%d\t%s\n", id, labels.Lookup(id)); err != nil {
			return err
		}
	}

	return nil
}
