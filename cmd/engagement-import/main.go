// Command engagement-import loads a CSV export into the SQLite store used by
// DATA_SOURCE=sqlite and optionally announces the import over AMQP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"engagement/internal/amqp"
	"engagement/internal/cli"
	"engagement/internal/config"
	"engagement/internal/core"
	"engagement/internal/dataset"
	applog "engagement/internal/log"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Load()
	csvPath := flag.String("csv", cfg.DatasetPath, "CSV file to import")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database to replace the posts of")
	delimiter := flag.String("delimiter", cfg.DatasetDelimiter, `CSV field delimiter (use \t for tabs)`)
	publish := flag.Bool("publish", true, "publish a dataset.imported message when AMQP_URL is set")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall import timeout")
	flag.Parse()

	cfg.DatasetPath = *csvPath
	cfg.SQLiteDBPath = *dbPath
	cfg.DatasetDelimiter = *delimiter
	cfg.DataSource = "sqlite"

	logger := cli.SetupLogger(cfg).WithComponent(applog.ComponentImport)
	cli.ValidateConfig(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, logger, cfg, *publish); err != nil {
		logger.Error("Import failed", applog.FieldOperation, applog.OpImport, applog.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *applog.Logger, cfg *config.Config, publish bool) error {
	start := time.Now()

	source := dataset.NewCSVFile(cfg.DatasetPath, cfg.Delimiter())
	data, err := dataset.NewLoader(source).Load(ctx)
	if err != nil {
		var loadErr *core.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("Dataset rejected",
				applog.FieldSource, loadErr.Source,
				"row", loadErr.Row,
				"column", loadErr.Column)
		}
		return err
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	rows, err := repo.ReplacePosts(ctx, source.Name(), data.Posts())
	if err != nil {
		return fmt.Errorf("replace posts: %w", err)
	}
	logger.Info("Dataset imported",
		applog.FieldSource, source.Name(),
		applog.FieldRows, rows,
		"db_path", cfg.SQLiteDBPath,
		applog.FieldDuration, time.Since(start).Milliseconds())

	if !publish || cfg.AMQPURL == "" {
		return nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
	if err != nil {
		return fmt.Errorf("rows imported but AMQP is unavailable: %w", err)
	}
	defer client.Close()

	if err := client.PublishDatasetImported(ctx, amqp.NewDatasetImportedMessage(source.Name(), rows)); err != nil {
		return fmt.Errorf("rows imported but notification failed: %w", err)
	}
	return nil
}
