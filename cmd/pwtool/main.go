// Command pwtool scores and generates passwords from the terminal.
package main

import (
	"os"

	"github.com/5w1tchy/passforge/internal/security/password"
)

func main() {
	root := newRootCmd(password.CryptoSource{})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
