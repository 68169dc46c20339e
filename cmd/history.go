package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/advancer/internal/i18n"
	"github.com/abhisek/advancer/internal/summary"
)

var historyCmd = &cobra.Command{
	Use:   "history <character>",
	Short: "Show a character's completed sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		c, err := st.CharacterByName(ctx, args[0])
		if err != nil {
			return err
		}
		hist, err := st.History(ctx, c.ID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(hist) == 0 {
			fmt.Fprintf(out, "%s has no recorded sessions.\n", c.Name)
			return nil
		}

		p := i18n.Printer(settings.Language)
		for _, h := range hist {
			if full {
				fmt.Fprintln(out, summary.EntryMarkdown(p, h.Payload))
				continue
			}
			stats := summary.Summarize(h.Payload.Results)
			fmt.Fprintf(out, "Session %d  %s  %d rolled, %d advanced\n",
				h.SessionNumber, h.RecordedAt.Local().Format(summary.DateLayout), stats.Used, stats.Advanced)
			var moved []string
			for _, o := range h.Payload.Advanced() {
				moved = append(moved, summary.Transition(p, o))
			}
			if len(moved) > 0 {
				fmt.Fprintf(out, "  %s\n", strings.Join(moved, ", "))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("full", false, "Print each session as a full journal entry")
}
