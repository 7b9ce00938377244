package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/benedevries-code/lea-kalender/cmd/api/commands"
)

// @title Bruno Kalender API
// @version 1.0
// @description Shared family calendar for coordinating who takes Bruno when

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "bruno-kalender",
		Short: "Bruno Kalender API Server",
		Long:  `Bruno Kalender is a small shared calendar for family coordination of childcare duties: who takes Bruno when.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewResetCommand())
	rootCmd.AddCommand(commands.NewCleanupCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
