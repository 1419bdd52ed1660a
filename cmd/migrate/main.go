package main

import (
	"flag"
	"os"

	"github.com/geocoder89/userservice/internal/config"
	"github.com/geocoder89/userservice/internal/db"
	"github.com/geocoder89/userservice/internal/observability"
)

func main() {
	direction := flag.String("direction", "up", "up, down or version")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -direction=down")
	flag.Parse()

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	switch *direction {
	case "up":
		log.Info("applying migrations")
		if err := db.MigrateUp(cfg.DBURL); err != nil {
			log.Error("migrate up failed", "err", err)
			os.Exit(1)
		}

	case "down":
		log.Info("rolling back migrations", "steps", *steps)
		if err := db.MigrateDown(cfg.DBURL, *steps); err != nil {
			log.Error("migrate down failed", "err", err)
			os.Exit(1)
		}

	case "version":
	default:
		log.Error("unknown direction", "direction", *direction)
		os.Exit(2)
	}

	version, dirty, err := db.MigrationVersion(cfg.DBURL)
	if err != nil {
		log.Error("read migration version failed", "err", err)
		os.Exit(1)
	}

	log.Info("migrations done", "version", version, "dirty", dirty)
}
