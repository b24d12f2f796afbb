package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/chebot/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print which kind is posted at each hour",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Times are %s (UTC-3)\n", schedule.Location)
		for _, s := range schedule.Table() {
			fmt.Fprintf(out, "%02d:00  %s\n", s.Hour, s.Kind)
		}
	},
}
