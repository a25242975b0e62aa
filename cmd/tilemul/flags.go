package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/salehjg/tilemul/internal/logger"
)

var (
	order      int64
	tile       int64
	deviceName string
	lanes      int64
	workers    int64
	logLevel   string
	logFormat  string
	debug      bool
)

func commonDeviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "n",
			Aliases:     []string{"size"},
			Usage:       "matrix order N",
			Value:       256,
			Destination: &order,
		},
		&cli.Int64Flag{
			Name:        "tile",
			Aliases:     []string{"t"},
			Usage:       "tile width T (need not divide N)",
			Value:       16,
			Destination: &tile,
		},
		&cli.StringFlag{
			Name:        "device",
			Usage:       "compute device (auto, grid, cpu)",
			Value:       "auto",
			Destination: &deviceName,
		},
		&cli.Int64Flag{
			Name:        "lanes",
			Usage:       "cooperating lanes per workgroup",
			Value:       1,
			Destination: &lanes,
		},
		&cli.Int64Flag{
			Name:        "workers",
			Usage:       "workgroup scheduling workers (0 = GOMAXPROCS)",
			Destination: &workers,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func newLog() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = logger.ParseLevel("debug")
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Text(os.Stderr, level)
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
