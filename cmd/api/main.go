package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/georgemunganga/retailops-backend/internal/modules/product"
	"github.com/georgemunganga/retailops-backend/internal/modules/recommendation"
	"github.com/georgemunganga/retailops-backend/internal/platform/config"
	"github.com/georgemunganga/retailops-backend/internal/platform/database"
	"github.com/georgemunganga/retailops-backend/internal/platform/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "RetailOps API server",
	Long: `RetailOps serves the supermarket inventory dashboard: products, checkout,
sales history, recommendations, notifications and the chat assistant.

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		_, err = logging.Init(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan inventory once and store new recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		svc := recommendation.NewService(recommendation.NewPostgresRepository(db), product.NewPostgresRepository(db), loc)
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()
		n, err := svc.ScanInventory(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d recommendations\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, scanCmd)
}

// openDB connects and brings the schema up to date.
func openDB(ctx context.Context) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	zap.S().Info("successfully connected to the database")
	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
