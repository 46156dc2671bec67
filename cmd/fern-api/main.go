package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/abbrev"
	"github.com/Ramsey-B/fern/pkg/comparator"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/graph"
	fernkafka "github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/matcher"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/orchestrator"
	comparisonroutes "github.com/Ramsey-B/fern/pkg/routes/comparison"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/similarity"
	"github.com/Ramsey-B/fern/pkg/standard"
	"github.com/Ramsey-B/fern/pkg/startup"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	client, err := graph.NewClient(graph.Config{
		Host:     cfg.GraphDBHost,
		Port:     cfg.GraphDBPort,
		Username: cfg.GraphDBUser,
		Password: cfg.GraphDBPassword,
		Database: cfg.GraphDBName,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create graph client")
		os.Exit(1)
	}

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&graphDependency{client: client})
	if err := boot.Start(context.Background()); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}

	var embedder similarity.Embedder = similarity.DisabledEmbedder{}
	if cfg.EmbeddingEnabled {
		embedder = similarity.NewHTTPEmbedder(cfg.EmbeddingURL, cfg.EmbeddingModel,
			time.Duration(cfg.EmbeddingTimeoutSecs)*time.Second)
	}

	composite, err := similarity.NewComposite(similarity.CompositeConfig{
		Embedder: embedder,
		Expander: abbrev.NewExpander(abbrev.DefaultDictionary()),
	})
	if err != nil {
		logger.WithError(err).Error("Failed to build similarity engine")
		os.Exit(1)
	}

	fieldMatcher := matcher.New(logger, composite, matcher.Config{
		Threshold:       cfg.SimilarityThreshold,
		UseAdaptive:     cfg.UseAdaptiveWeights,
		TrackCandidates: cfg.TrackCandidates,
	})
	comp := comparator.New(logger, fieldMatcher)

	provider := standard.NewHTTPProvider(cfg.StandardModelURL,
		time.Duration(cfg.StandardModelTimeoutSeconds)*time.Second, logger)

	var emitter orchestrator.LifecycleEmitter
	if cfg.KafkaEnabled {
		producer := fernkafka.NewProducer(fernkafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		emitter = events.NewEmitter(producer, logger)
	}

	orch := orchestrator.New(logger, graph.NewExtractor(client, logger), provider, comp, emitter, cfg.GraphDBName)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	comparisonroutes.NewHandler(orch, logger).Register(e.Group("/api/v1/comparison"))

	checker := health.NewChecker(client, version)
	checker.RegisterRoutes(e)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		checker.SetReady(true)
		logger.WithFields(map[string]any{
			"app":  cfg.AppName,
			"port": cfg.Port,
		}).Info("Starting server")
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	checker.SetReady(false)
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	if err := boot.Stop(ctx); err != nil {
		logger.WithError(err).Error("Dependency shutdown failed")
	}
}

// graphDependency gates readiness on graph database connectivity
type graphDependency struct {
	client *graph.Client
}

func (d *graphDependency) GetName() string {
	return "graph-database"
}

func (d *graphDependency) DependsOn() []string {
	return nil
}

func (d *graphDependency) Start(ctx context.Context) error {
	return d.client.VerifyConnectivity(ctx)
}

func (d *graphDependency) Stop(ctx context.Context) error {
	return d.client.Close(ctx)
}

// newLogger builds the process logger writing structured JSON to stdout
func newLogger(cfg config.Config) ectologger.Logger {
	encoder := json.NewEncoder(os.Stdout)
	if cfg.PrettyLogs {
		encoder.SetIndent("", "  ")
	}
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		_ = encoder.Encode(msg)
	})
}
