package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"folio/internal/database"
	"folio/internal/slug"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Connect(cmd.Context(), cfg.DSN(), cfg.DBConnectAttempts)
		if err != nil {
			return err
		}
		defer db.Close()
		return database.Migrate(db)
	},
}

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the template catalog",
	Long:  `seed inserts the built-in templates. With --demo it also creates the demo account when no profiles exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Connect(cmd.Context(), cfg.DSN(), cfg.DBConnectAttempts)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Seed(db); err != nil {
			return err
		}
		if seedDemo {
			return database.SeedDemo(db)
		}
		return nil
	},
}

var slugAt int64

var slugCmd = &cobra.Command{
	Use:   "slug NAME",
	Short: "Print the slug a portfolio with NAME would get",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if slugAt > 0 {
			at = time.UnixMilli(slugAt)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), slug.WithTimestamp(args[0], at))
		return err
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create the demo account")
	slugCmd.Flags().Int64Var(&slugAt, "at", 0, "creation time in unix milliseconds (default now)")
}
