package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mfgledger/config"
	"mfgledger/controllers"
	"mfgledger/ledger"
	"mfgledger/logger"
	"mfgledger/middleware"
	"mfgledger/routes"
	"mfgledger/store"
	"mfgledger/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log().WithError(err).Fatal("loading config")
	}
	if err := logger.Init(cfg.Log); err != nil {
		logger.Log().WithError(err).Fatal("initializing logger")
	}
	log := logger.Log()
	utils.InitJWT(cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s store.Store
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using the in-memory store, data is lost on restart")
		s = store.NewMemoryStore()
	default:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			log.WithError(err).Fatal("connecting to MongoDB")
		}
		defer config.DisconnectDatabase()
		s = store.NewMongoStore(db, cfg.PollInterval)
	}

	middleware.InitMetrics()
	repo := ledger.NewRepository(s, cfg.SeedSampleAgent)
	repo.OnDrop = func(string, error) { middleware.MalformedRecordsTotal.Inc() }
	ctl := controllers.New(s, repo, cfg)

	gin.SetMode(cfg.GinMode)
	log.Infof("Running in %s mode", gin.Mode())

	r := gin.New()
	r.Use(gin.Recovery(), middleware.PrometheusMiddleware())
	r.GET("/metrics", middleware.AllowIPs(cfg.MetricsIPs()), gin.WrapH(promhttp.Handler()))
	r.Use(cors.New(corsConfig(cfg.Origins())))
	routes.InitializeRoutes(r, ctl)

	scheduler, err := utils.StartReminderScheduler(cfg.Location(), &utils.BillingReminder{
		Ledger:   repo,
		Statuses: ctl.Tracker,
		SMTP:     cfg.SMTP,
	})
	if err != nil {
		log.WithError(err).Fatal("starting scheduler")
	}
	defer scheduler.Stop()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return repo.Run(ctx)
	})
	g.Go(func() error {
		log.Infof("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped")
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}
