package main

import (
	"fmt"

	"github.com/5w1tchy/passforge/internal/history"
	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/spf13/cobra"
)

func newGenerateCmd(src password.RandomSource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random passwords",
		Long: `Generate passwords from the selected character classes. Every selected
class appears at least once when the length allows it.

Classes: uppercase, lowercase, digit, symbol (aliases: upper, lower, numbers, special).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			length, _ := cmd.Flags().GetInt("length")
			classesCSV, _ := cmd.Flags().GetString("classes")
			count, _ := cmd.Flags().GetInt("count")
			noHistory, _ := cmd.Flags().GetBool("no-history")
			analyze, _ := cmd.Flags().GetBool("analyze")

			classes, err := password.ParseClassesCSV(classesCSV)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("classes") && classes == nil {
				classes = []password.Class{}
			}
			var excludeSimilar *bool
			if cmd.Flags().Changed("exclude-similar") {
				v, _ := cmd.Flags().GetBool("exclude-similar")
				excludeSimilar = &v
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			d := password.LoadDefaultsFromEnv()
			policy := d.Policy(0, classes, excludeSimilar)
			if cmd.Flags().Changed("length") {
				policy.Length = length
			}

			out := cmd.OutOrStdout()
			hist := history.New(history.DefaultCapacity)
			for i := 0; i < count; i++ {
				pwd, err := password.Generate(policy, src)
				if err != nil {
					return err
				}
				hist.Add(pwd)
				if analyze {
					r := password.Analyze(pwd)
					fmt.Fprintf(out, "%s\t%s (%d/100)\n", pwd, r.Tier, r.Score)
				} else {
					fmt.Fprintln(out, pwd)
				}
			}

			if !noHistory && hist.Len() > 1 {
				fmt.Fprintf(out, "\nRecent (last %d):\n", hist.Cap())
				for _, e := range hist.Display(history.DisplayLen) {
					fmt.Fprintf(out, "  %s\n", e)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntP("length", "l", 16, "password length (default from PASSWORD_DEFAULT_LENGTH)")
	cmd.Flags().StringP("classes", "c", "", "comma-separated character classes (default: all)")
	cmd.Flags().Bool("exclude-similar", false, "leave out look-alike characters (iIl1oO0)")
	cmd.Flags().IntP("count", "n", 1, "how many passwords to generate")
	cmd.Flags().Bool("no-history", false, "do not print the recent list")
	cmd.Flags().Bool("analyze", false, "print the strength of each password")
	return cmd
}
