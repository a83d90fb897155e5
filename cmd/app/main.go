package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/app"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "bettertender",
		Usage: "Procurement backend with sealed bids and a signed audit ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "HTTP listen address",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Value: "./bettertender.sqlite",
				Usage: "SQLite file path",
			},
			&cli.StringFlag{
				Name:  "uploads-dir",
				Value: "./uploads",
				Usage: "Directory for uploaded documents",
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Sources: cli.EnvVars("BETTERTENDER_JWT_SECRET"),
				Usage:   "HMAC signing secret for access tokens",
			},
			&cli.DurationFlag{
				Name:  "token-ttl",
				Value: 12 * time.Hour,
				Usage: "Access token lifetime",
			},
			&cli.DurationFlag{
				Name:  "lock-wait",
				Value: 2 * time.Second,
				Usage: "Maximum wait for a contended tender lock",
			},
			&cli.StringFlag{
				Name:    "webhook-url",
				Sources: cli.EnvVars("BETTERTENDER_WEBHOOK_URL"),
				Usage:   "Outbox event webhook target URL",
			},
			&cli.StringFlag{
				Name:    "webhook-secret",
				Sources: cli.EnvVars("BETTERTENDER_WEBHOOK_SECRET"),
				Usage:   "HMAC-SHA256 signing secret for outbound webhook requests",
			},
			&cli.BoolFlag{
				Name:  "seed-users",
				Usage: "Create default admin, issuer, and bidder accounts on an empty database",
			},
			&cli.StringFlag{
				Name:    "seed-password",
				Sources: cli.EnvVars("BETTERTENDER_SEED_PASSWORD"),
				Usage:   "Password for seeded accounts",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := app.Config{
				Addr:             c.String("addr"),
				DBPath:           c.String("db-path"),
				UploadsDir:       c.String("uploads-dir"),
				JWTSecret:        c.String("jwt-secret"),
				TokenTTL:         c.Duration("token-ttl"),
				LockWait:         c.Duration("lock-wait"),
				WebhookURL:       c.String("webhook-url"),
				WebhookSecret:    c.String("webhook-secret"),
				SeedUsers:        c.Bool("seed-users"),
				SeedUserPassword: c.String("seed-password"),
			}

			server, closer, err := app.NewServer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					log.Printf("close resources: %v", closeErr)
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s", cfg.Addr)
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case sig := <-sigCh:
				log.Printf("received signal %s", sig)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
