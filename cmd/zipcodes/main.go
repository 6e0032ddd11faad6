// Command zipcodes seeds the eligible postal code table from a YAML file:
//
//	zipcodes --database-url postgres://... --file zipcodes.yaml
//
// Existing codes are kept; the command only adds.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"residency/internal/platform/logger"
	"residency/internal/platform/postgres"
	"residency/internal/zipcode"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "zipcodes: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("zipcodes", pflag.ContinueOnError)
	databaseURL := fs.String("database-url", os.Getenv("RESIDENCY_STORAGE_DATABASE_URL"), "PostgreSQL connection URL")
	file := fs.String("file", "", "YAML seed file with a top-level zipcodes list")
	migrate := fs.Bool("migrate", true, "apply database migrations first")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *databaseURL == "" {
		return errors.New("--database-url is required")
	}
	if *file == "" {
		return errors.New("--file is required")
	}
	log := logger.New("development", *logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	codes, err := zipcode.FileSource{Path: *file}.Codes(ctx)
	if err != nil {
		return err
	}
	set := zipcode.NewSet(codes...)

	db, err := postgres.Open(ctx, *databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if *migrate {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
	}

	added, err := zipcode.NewPostgresStore(db).Upsert(ctx, set.Codes())
	if err != nil {
		return err
	}
	log.Info("zipcodes seeded",
		"file", *file,
		"codes", set.Len(),
		"added", added,
	)
	return nil
}
