package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tourist-hub-api/internal/container"
	"tourist-hub-api/internal/server"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	app := fx.New(
		container.Module,
		fx.Invoke(func(lc fx.Lifecycle, srv *server.Server) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						if err := srv.Start(context.Background()); err != nil {
							log.Printf("Server error: %v", err)
						}
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return srv.Stop()
				},
			})
		}),
	)

	app.Run()
}
