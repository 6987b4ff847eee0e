package main

import (
	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd(src password.RandomSource) *cobra.Command {
	root := &cobra.Command{
		Use:   "pwtool",
		Short: "Score and generate passwords",
		Long: `pwtool runs the passforge engine locally:
  - analyze: strength tier, score, rules and suggestions for a password
  - generate: random passwords that contain every selected character class

Generator defaults come from PASSWORD_DEFAULT_LENGTH, PASSWORD_MAX_LENGTH and
PASSWORD_EXCLUDE_SIMILAR (a .env file in the working directory is honoured).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(newAnalyzeCmd(), newGenerateCmd(src))
	return root
}
