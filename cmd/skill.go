package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/store"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage a character's skills",
}

var skillAddCmd = &cobra.Command{
	Use:   "add <character> <skill>",
	Short: "Add a skill to a character",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetInt("level")
		marked, _ := cmd.Flags().GetBool("marked")
		if level < 0 || level > character.MaxLevel {
			return fmt.Errorf("level must be between 0 and %d", character.MaxLevel)
		}

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
		sk, err := st.AddSkill(ctx, c.ID, character.Skill{Name: args[1], Level: level, Marked: marked})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d) to %s\n", sk.Name, sk.Level, c.Name)
		return nil
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list <character>",
	Short: "List a character's skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		skills, err := st.Skills(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no skills.\n", c.Name)
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tLEVEL\tMARKED\tNOTE")
		for _, sk := range skills {
			mark := ""
			if sk.Marked {
				mark = "✓"
			}
			note := ""
			if sk.AtMaximum() {
				note = "max level"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", sk.Name, sk.Level, mark, note)
		}
		return tw.Flush()
	},
}

var skillMarkCmd = &cobra.Command{
	Use:   "mark <character> <skill>",
	Short: "Mark a skill during play so it is rolled at the end of the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unmark, _ := cmd.Flags().GetBool("clear")

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
		skills, err := st.Skills(ctx, c.ID)
		if err != nil {
			return err
		}
		sk, err := findSkill(skills, args[1])
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		if !unmark && sk.AtMaximum() {
			return fmt.Errorf("%s is already at level %d", sk.Name, character.MaxLevel)
		}
		return st.UpdateSkill(ctx, c.ID, sk.ID, character.SetMarked(!unmark))
	},
}

// findSkill looks a skill up by name, ignoring case.
func findSkill(skills []character.Skill, name string) (character.Skill, error) {
	for _, sk := range skills {
		if strings.EqualFold(sk.Name, name) {
			return sk, nil
		}
	}
	return character.Skill{}, fmt.Errorf("skill %q: %w", name, store.ErrNotFound)
}

func init() {
	skillAddCmd.Flags().Int("level", 0, "Starting level (0-18)")
	skillAddCmd.Flags().Bool("marked", false, "Add the skill already marked")
	skillMarkCmd.Flags().Bool("clear", false, "Remove the mark instead")

	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillMarkCmd)
}
