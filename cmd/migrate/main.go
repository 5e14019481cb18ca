package main

import (
	"flag"
	"fmt"
	"os"

	"concert-storefront/internal/config"
	"concert-storefront/internal/database"
	"concert-storefront/internal/log"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		statusFlag = flag.Bool("status", false, "Show migration status")
		upFlag     = flag.Bool("up", false, "Run pending migrations")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log.InitFromString(cfg.Log.Level)

	db, err := database.NewConnection(database.Config{Path: cfg.Storage.Path})
	if err != nil {
		logrus.Fatalf("Failed to open storage: %v", err)
	}
	defer db.Close()

	switch {
	case *statusFlag:
		pending, err := database.NewMigrator(db.DB).PendingMigrations()
		if err != nil {
			logrus.Fatalf("Failed to get migration status: %v", err)
		}
		if len(pending) == 0 {
			fmt.Printf("%s is up to date\n", cfg.Storage.Path)
			return
		}
		for _, m := range pending {
			fmt.Printf("pending: %03d_%s\n", m.Version, m.Name)
		}
	case *upFlag:
		if err := db.RunMigrations(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("All migrations completed successfully!")
	default:
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate -status   # Show migration status")
		fmt.Println("  go run ./cmd/migrate -up       # Run pending migrations")
		os.Exit(1)
	}
}
