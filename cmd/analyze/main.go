// Package main прогоняет файл с потоком детекций через конвейер анализа без Telegram.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"road-vision/config"
	app "road-vision/internal/application"
	"road-vision/internal/container"
	"road-vision/internal/domain/port"
	"road-vision/internal/infrastructure/storage"
	"road-vision/internal/infrastructure/stream"
	"road-vision/internal/logger"
)

const (
	flagInput  = "input"
	flagConfig = "config"
	flagOut    = "out"
	flagStore  = "store"
	flagUser   = "user-id"
	flagDebug  = "debug"
)

func main() {
	cliApp := &cli.App{
		Name:  "road-analyze",
		Usage: "build a road defect report from a detection stream",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  flagStore,
				Usage: "sqlite database `PATH` for reports; empty disables storage",
			},
			&cli.Int64Flag{
				Name:  flagUser,
				Usage: "owner id recorded with stored reports",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "analyze a detection stream file",
				UsageText: "road-analyze run --input frames.json [--out report.json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagInput,
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "detection stream `FILE`",
					},
					&cli.StringFlag{
						Name:    flagOut,
						Aliases: []string{"o"},
						Usage:   "write report to `FILE` instead of stdout",
					},
				},
				Action: runAction,
			},
			{
				Name:   "last",
				Usage:  "print the latest stored report for --user-id",
				Action: lastAction,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runAction(c *cli.Context) error {
	cfg, lg, err := setup(c)
	if err != nil {
		return err
	}
	defer lg.Sync()

	reports, closeStore, err := openStore(c.String(flagStore))
	if err != nil {
		return err
	}
	defer closeStore()

	src, err := stream.OpenFile(c.String(flagInput))
	if err != nil {
		return err
	}

	svc := app.NewAnalysisService(container.SessionConfig(cfg), reports, lg)
	stored, err := svc.AnalyzeStream(c.Context, c.Int64(flagUser), filepath.Base(c.String(flagInput)), src)
	if err != nil {
		return err
	}

	return writeJSON(c.String(flagOut), stored.Report)
}

func lastAction(c *cli.Context) error {
	cfg, lg, err := setup(c)
	if err != nil {
		return err
	}
	defer lg.Sync()

	path := c.String(flagStore)
	if path == "" {
		path = cfg.Storage.DBPath
	}
	reports, closeStore, err := openStore(path)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := app.NewAnalysisService(container.SessionConfig(cfg), reports, lg)
	stored, err := svc.LastReport(c.Context, c.Int64(flagUser))
	if errors.Is(err, port.ErrReportNotFound) {
		return cli.Exit(fmt.Sprintf("no reports for user %d", c.Int64(flagUser)), 1)
	}
	if err != nil {
		return err
	}

	return writeJSON("", stored)
}

func setup(c *cli.Context) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if c.Bool(flagDebug) {
		level = "debug"
	}
	// stdout занят отчётом
	lg, err := logger.New(logger.Config{Level: level, Format: cfg.Log.Format, Output: "stderr"})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, lg, nil
}

func openStore(path string) (port.ReportRepository, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	repo, err := storage.NewSQLiteReportRepository(path)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { _ = repo.Close() }, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
