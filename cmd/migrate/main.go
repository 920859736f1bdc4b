package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medschedule-api/internal/config"
	"github.com/jwalitptl/medschedule-api/internal/repository/postgres"
	"github.com/jwalitptl/medschedule-api/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	flag.Usage = func() {
		os.Stderr.WriteString("usage: migrate [-config file] up|down|version|steps N|force V\n")
	}
	flag.Parse()

	logger.NewLogger(&logger.Config{Level: logger.InfoLevel, ServiceName: "medschedule-migrate"}).SetGlobal()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m, err := postgres.NewMigrator(db.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise migrations")
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = withNumber(args, func(n int) error { return m.Steps(n) })
	case "force":
		err = withNumber(args, func(n int) error { return m.Force(n) })
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatal().Err(verr).Msg("failed to read version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migration failed")
	}
	log.Info().Str("command", args[0]).Msg("migrations applied")
}

func withNumber(args []string, fn func(int) error) error {
	if len(args) < 2 {
		return errors.New("missing argument")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	return fn(n)
}
