package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loadsmile/AIchatbot/internal/archive"
	"github.com/loadsmile/AIchatbot/internal/cache"
	"github.com/loadsmile/AIchatbot/internal/config"
	"github.com/loadsmile/AIchatbot/internal/handler"
	"github.com/loadsmile/AIchatbot/internal/history"
	"github.com/loadsmile/AIchatbot/internal/hub"
	"github.com/loadsmile/AIchatbot/internal/registry"
	"github.com/loadsmile/AIchatbot/internal/router"
	"github.com/loadsmile/AIchatbot/internal/suggest"
	"github.com/loadsmile/AIchatbot/internal/translate"
	"github.com/loadsmile/AIchatbot/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting chat relay")

	// Core state
	reg := registry.New()
	hist := history.NewLog()

	// Translation cache: redis when configured, in-memory otherwise.
	var translationCache cache.TranslationCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisTranslationCache(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect translation cache")
		}
		translationCache = redisCache
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis translation cache")
	} else {
		translationCache = cache.NewMemoryTranslationCache()
	}
	defer translationCache.Close()

	translator := translate.NewCachedTranslator(
		translate.NewAzureTranslator(cfg.Translator),
		translationCache,
		cfg.Translator.CacheTTL,
	)

	var suggester suggest.Suggester
	if cfg.Suggester.Enabled {
		suggester = suggest.NewHTTPSuggester(cfg.Suggester)
		logger.Info().Str("endpoint", cfg.Suggester.Endpoint).Msg("reply suggestions enabled")
	}

	var archiver archive.RecordArchiver
	if cfg.Kafka.Enabled {
		kafkaArchiver, err := archive.NewKafkaArchiver(cfg.Kafka)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize kafka archiver")
		}
		archiver = kafkaArchiver
		logger.Info().Str("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("connected to kafka archive")
	} else {
		archiver = archive.NewNoopArchiver()
	}
	defer archiver.Close()

	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()
	defer wsHub.Close()

	rt := router.New(reg, hist, translator, suggester, archiver, wsHub, router.Config{
		QueueSize:        cfg.Router.QueueSize,
		TranslateTimeout: cfg.Translator.Timeout,
		SuggestTimeout:   cfg.Suggester.Timeout,
	})
	defer rt.Close()

	wsHandler := handler.NewWSHandler(wsHub, rt, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(reg, hist)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(log.GinMiddleware(logger), gin.Recovery())
	httpHandler.RegisterRoutes(engine)
	engine.GET("/ws", gin.WrapF(wsHandler.HandleWebSocket))

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("chat relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down chat relay")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("chat relay stopped")
}
