package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tanakritw/officestock-backend/pkg/config"
	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/logger"
	"github.com/tanakritw/officestock-backend/pkg/migrate"
)

const usage = `usage: migrate [-dir <path>] <command> [arg]

commands:
  up               apply all pending migrations
  down             roll back the most recent migration
  status           print migration status
  version <v>      migrate up or down to version v (YYYYMMDDHHMMSS)
  create <name>    create a new SQL migration file
  validate         check migration filenames and goose markers
`

func main() {
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	cmd := args[0]

	_ = godotenv.Load()

	cfg, err := config.Load()
	fatalIf("loading config", err)

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": cmd,
		"dir": *dir,
	})

	// create and validate work without a database.
	switch cmd {
	case "create":
		if len(args) < 2 {
			fatalIf("create", fmt.Errorf("missing migration name"))
		}
		path, err := migrate.CreateSQLMigration(*dir, args[1])
		fatalIf("creating migration", err)
		fmt.Println("created", path)
		return
	case "validate":
		fatalIf("validating migrations", migrate.ValidateDir(*dir))
		fmt.Println("migrations ok")
		return
	}

	client, err := db.New(ctx, cfg.DB, logg)
	fatalIf("connecting to database", err)
	defer client.Close()

	sqlDB, err := client.DB().DB()
	fatalIf("getting sql handle", err)

	switch cmd {
	case "up", "down", "status":
		fatalIf("goose "+cmd, migrate.Run(ctx, sqlDB, *dir, cmd))
	case "version":
		if len(args) < 2 {
			fatalIf("version", fmt.Errorf("missing target version"))
		}
		fatalIf("migrating to version", migrate.MigrateToVersion(ctx, sqlDB, *dir, args[1]))
	default:
		flag.Usage()
		os.Exit(1)
	}
}

func fatalIf(what string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "migrate: %s: %v\n", what, err)
	os.Exit(1)
}
