package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/advancer/internal/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal [character]",
	Short: "List journal documents or print one character's log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		docs, err := st.Documents(ctx, settings.JournalFolder)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if len(docs) == 0 {
				fmt.Fprintf(out, "No documents in %q yet.\n", settings.JournalFolder)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DOCUMENT\tCHARACTER ID")
			for _, d := range docs {
				fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.CharacterID)
			}
			return tw.Flush()
		}

		c, err := st.CharacterByName(ctx, args[0])
		if err != nil {
			return err
		}
		for _, d := range docs {
			if d.CharacterID != c.ID {
				continue
			}
			page, err := st.Page(ctx, d.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, page.Content)
			return nil
		}
		return fmt.Errorf("journal for %s: %w", c.Name, store.ErrNotFound)
	},
}
