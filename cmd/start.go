package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"boardgame-sync/core/loader"
	"boardgame-sync/core/logger"
	"boardgame-sync/core/metrics"
	"boardgame-sync/core/middleware/auth"
	"boardgame-sync/core/middleware/rayid"
	"boardgame-sync/feature/collection"
	"boardgame-sync/feature/integrity"
	"boardgame-sync/feature/matches"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "boardgame-sync/docs/swagger"
)

// @title Board Game Sync API
// @version 1.0
// @description Reconciles board game collections between two services.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(matches.NewFeature(rt.db, rt.engine.Scope(), logg))
		mgr.Register(collection.NewFeature(rt.engine, rt.store, rt.archive, logg))
		mgr.Register(integrity.NewFeature(rt.client, rt.cfg.Storage.Bucket, rt.db, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

		if !rt.cfg.Server.AuthEnabled() {
			logg.Warn("No server.api_key configured, the API is unauthenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server",
				zap.String("address", rt.cfg.Server.Address()),
				zap.String("account_a", rt.cfg.Sync.AccountA),
				zap.String("account_b", rt.cfg.Sync.AccountB),
			)
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
