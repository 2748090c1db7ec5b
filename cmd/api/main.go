package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

var envFile string

// NewRootCmd crea el comando raiz del servicio de cuentas.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barter-auth",
		Short: "Account registration and login service",
		Long: `barter-auth serves account registration, login, email verification
and profile details over HTTP, and runs the background side-effect workers.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
