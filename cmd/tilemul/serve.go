package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/salehjg/tilemul/internal/api"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	flags := append([]cli.Flag{}, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the multiply REST API",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr)
			log := newLog()

			server := api.NewServer(api.NewJobStore(), api.NewService(log))
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
