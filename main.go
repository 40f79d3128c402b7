package main

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/collections"
	"rapbuilder/commands"
	"rapbuilder/config"
	"rapbuilder/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	deps, err := handlers.NewDeps(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewDistributeCommand(logger))

	// Create the session collection and drop abandoned workflows on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		n, err := collections.PurgeExpiredSessions(app, cfg.SessionTTL, time.Now())
		if err != nil {
			config.LogError(logger, "main", "PurgeExpiredSessions", "startup", map[string]any{"ttl": cfg.SessionTTL.String()}, err)
		} else if n > 0 {
			logger.WithField("sessions", n).Info("purged expired sessions")
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Load the workflow for every request
		se.Router.BindFunc(handlers.SessionMiddleware(app, deps))

		se.Router.GET("/", handlers.HandleHome(app, deps))

		// ── Upload ───────────────────────────────────────────────
		se.Router.GET("/upload", handlers.HandleUploadPage(app, deps))
		se.Router.POST("/upload", handlers.HandleUpload(app, deps))

		// ── Category review ──────────────────────────────────────
		se.Router.GET("/review", handlers.HandleReviewPage(app, deps))
		se.Router.POST("/review/reclassify", handlers.HandleReclassify(app, deps))
		se.Router.POST("/review/continue", handlers.HandleReviewContinue(app, deps))

		// ── Pricing ──────────────────────────────────────────────
		se.Router.GET("/pricing", handlers.HandlePricingPage(app, deps))
		se.Router.POST("/pricing", handlers.HandlePricingSave(app, deps))
		se.Router.POST("/pricing/back", handlers.HandlePricingBack(app, deps))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/export", handlers.HandleExportPage(app, deps))
		se.Router.POST("/export", handlers.HandleExport(app, deps))
		se.Router.POST("/export/back", handlers.HandleExportBack(app, deps))

		se.Router.POST("/start-over", handlers.HandleStartOver(app, deps))
		se.Router.GET("/api/session", handlers.HandleSessionAPI(app, deps))

		logger.WithField("parser", cfg.ParserURL).Info("RAP builder routes registered")
		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
