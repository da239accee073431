// Package main is the entry point for the rsa-vault-cli application.
// It registers the RSA key generation, encryption, decryption and validation
// sub-commands and executes the command-line interface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	commands "github.com/MGTheTrain/rsa-vault/cmd/rsa-vault-cli/internal/commands"
	"github.com/MGTheTrain/rsa-vault/internal/pkg/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "rsa-vault-cli",
		Short: "Textbook RSA command-line tool",
		Long: `rsa-vault-cli generates RSA key pairs and encrypts or decrypts files with them.

No padding scheme is applied. Identical plaintexts encrypt to identical
ciphertexts, so do not use this tool to protect data against a real adversary.`,
		SilenceUsage: true,
	}

	if err := commands.InitRSACommands(rootCmd, config.NewDefaultKeyGenSettings()); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}
