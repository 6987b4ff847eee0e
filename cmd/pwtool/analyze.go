package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [password]",
		Short: "Score a password",
		Long: `Score a password and list what would make it stronger.
Without an argument the first line of stdin is read, which keeps the password
out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			var pwd string
			if len(args) == 1 {
				pwd = args[0]
			} else {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				pwd = line
			}

			report := password.Analyze(pwd)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printReport(w io.Writer, r password.Report) {
	fmt.Fprintf(w, "Strength: %s (%d/100)\n", r.Tier, r.Score)
	if !r.Empty {
		fmt.Fprintln(w, "Requirements:")
		for _, rule := range password.Rules {
			mark := " "
			if r.Rules[rule] {
				mark = "x"
			}
			fmt.Fprintf(w, "  [%s] %s\n", mark, rule)
		}
	}
	fmt.Fprintln(w, "Suggestions:")
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
