package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "blingctl",
		Short:         "Herramientas de operación para la ingesta de webhooks de Bling",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(signCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
