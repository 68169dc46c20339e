package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/advancer/internal/character"
)

var characterCmd = &cobra.Command{
	Use:     "character",
	Aliases: []string{"char"},
	Short:   "Manage characters",
}

var characterAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a character (prompts for details when the name is omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := character.Character{}
		c.Weakness, _ = cmd.Flags().GetString("weakness")
		c.Owner, _ = cmd.Flags().GetString("owner")

		if len(args) == 1 {
			c.Name = args[0]
		} else {
			var err error
			c, err = promptCharacter(cmd.InOrStdin(), cmd.OutOrStdout(), c)
			if err != nil {
				return err
			}
		}
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return errors.New("character name is required")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		created, err := st.CreateCharacter(cmd.Context(), c)
		if err != nil {
			return err
		}
		logger.Debug("character created", "id", created.ID, "name", created.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", created.Name, created.ID)
		return nil
	},
}

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		chars, err := st.Characters(ctx)
		if err != nil {
			return err
		}
		if len(chars) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No characters found.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tOWNER\tWEAKNESS\tSKILLS\tMARKED")
		for _, c := range chars {
			skills, err := st.Skills(ctx, c.ID)
			if err != nil {
				return err
			}
			marked := character.MarkedIDs(skills).Len()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", c.Name, dash(c.Owner), dash(c.Weakness), len(skills), marked)
		}
		return tw.Flush()
	},
}

var characterWeaknessCmd = &cobra.Command{
	Use:   "weakness <name> [text]",
	Short: "Set or clear a character's weakness",
	Args:  cobra.RangeArgs(1, 2),
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
		text := ""
		if len(args) == 2 {
			text = args[1]
		}
		return st.SetWeakness(ctx, c.ID, text)
	},
}

// promptCharacter asks for the character details with a form. Piped input
// uses huh's accessible mode.
func promptCharacter(in io.Reader, out io.Writer, c character.Character) (character.Character, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Character name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Weakness").
				Description("Leave empty if the character has none").
				Value(&c.Weakness),
			huh.NewInput().
				Title("Player").
				Description("Participant id that advances this character").
				Value(&c.Owner),
		),
	).
		WithInput(in).
		WithOutput(out)

	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return c, fmt.Errorf("character form: %w", err)
	}
	return c, nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func init() {
	characterAddCmd.Flags().String("weakness", "", "Weakness text")
	characterAddCmd.Flags().String("owner", "", "Participant id of the player")

	characterCmd.AddCommand(characterAddCmd)
	characterCmd.AddCommand(characterListCmd)
	characterCmd.AddCommand(characterWeaknessCmd)
}
