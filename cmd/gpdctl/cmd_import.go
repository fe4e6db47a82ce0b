package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/populism-atlas/internal/config"
	"github.com/mind-engage/populism-atlas/internal/db"
	"github.com/mind-engage/populism-atlas/internal/gpd"
	syncx "github.com/mind-engage/populism-atlas/internal/sync"
)

var importCmd = &cobra.Command{
	Use:   "import <gpd.csv>",
	Short: "Replace the stored dataset with a GPD wide CSV",
	Long:  "Reads DB_DRIVER/DB_DSN from the environment and swaps the whole dataset in one transaction.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	ctx := cmd.Context()

	h, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer h.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	svc := gpd.NewService(gpd.NewSQLStore(h, cfg.DBDriver), syncx.NewEventRepo(h))
	res, err := svc.Import(ctx, f, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows (%d countries) batch=%s\n", res.Rows, res.Countries, res.BatchID)
	return nil
}
