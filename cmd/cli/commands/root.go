package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Priyanshusingh0818/GORUS/config"
	"github.com/Priyanshusingh0818/GORUS/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbFile  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "goras",
	Short: "GORAS store administration",
	Long: `Operator commands for the GORAS store database.

Configuration is read from .env and the environment, exactly as the server
reads it. Use --db-file to point at a different SQLite file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFile, "db-file", "", "SQLite database file (overrides DB_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(addAdminCmd, promoteCmd, seedProductsCmd)
}

// openDB loads configuration and connects, quietly unless --verbose is set.
func openDB() (*config.Config, *gorm.DB, error) {
	if !verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if dbFile != "" {
		cfg.Database.File = dbFile
	}
	db, err := database.Connect(cfg.Database, verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
