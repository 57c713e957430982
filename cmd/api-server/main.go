package main

import (
	"Bingo/config"
	"Bingo/pkg/database"
	"Bingo/pkg/log"
	"Bingo/pkg/server"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)

	cliApp := &cli.App{
		Name: "api-server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: path, Usage: "config file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					app, err := initApp(ctx)
					if err != nil {
						return err
					}
					return server.Run(ctx, app)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update tables",
				Action: func(ctx *cli.Context) error {
					app, err := initApp(ctx)
					if err != nil {
						return err
					}
					if err := database.Migrate(ctx.Context, app.DB); err != nil {
						return err
					}
					log.L.Info("migrate done")
					return nil
				},
			},
			{
				Name:  "sweep",
				Usage: "remove expired stories and deactivated accounts once",
				Action: func(ctx *cli.Context) error {
					app, err := initApp(ctx)
					if err != nil {
						return err
					}
					res, err := app.Sweeper.RunOnce(ctx.Context)
					if res != nil {
						log.L.Info("sweep done",
							zap.Int64("stories_deleted", res.StoriesDeleted),
							zap.Int64("accounts_erased", res.AccountsErased),
							zap.Int64("accounts_failed", res.AccountsFailed),
						)
					}
					return err
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}

func initApp(ctx *cli.Context) (*server.AppProvider, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	log.Setup(cfg.App.LogLevel, cfg.App.IsDev())
	return InitServer(cfg)
}
