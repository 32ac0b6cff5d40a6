package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ri4re/linebot/internal/config"
	"github.com/ri4re/linebot/internal/controllers/http"
	"github.com/ri4re/linebot/internal/infra/line"
	mmysql "github.com/ri4re/linebot/internal/infra/mysql"
	"github.com/ri4re/linebot/internal/infra/notion"
	"github.com/ri4re/linebot/internal/infra/rabbitmq"
	"github.com/ri4re/linebot/internal/observability"
	"github.com/ri4re/linebot/internal/parser"
	"github.com/ri4re/linebot/internal/render"
	"github.com/ri4re/linebot/internal/repository"
	"github.com/ri4re/linebot/internal/repository/cached"
	mysqlrepo "github.com/ri4re/linebot/internal/repository/mysql"
	notionrepo "github.com/ri4re/linebot/internal/repository/notion"
	"github.com/ri4re/linebot/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	notionClient := notion.NewClient(cfg.Notion.APIKey,
		notion.WithBaseURL(cfg.Notion.BaseURL),
		notion.WithVersion(cfg.Notion.Version),
		notion.WithTimeout(cfg.Notion.Timeout),
	)
	var repo repository.OrderRepository = notionrepo.NewOrderRepository(
		notionClient, cfg.Notion.DatabaseID, cfg.Fields, cfg.Logistics.Initial, logger)

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			DB:           0,
			PoolSize:     20,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer rdb.Close()
		repo = cached.NewOrderRepository(repo, cached.NewRedisStore(rdb), cfg.Redis.TTL, logger)
		logger.Info("short id cache enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.Rabbit.Enabled() {
		p, err := rabbitmq.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange, logger)
		if err != nil {
			logger.Fatal("failed to init publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	var journal repository.JournalRepository
	if cfg.MySQL.Enabled() {
		db, err := mmysql.Open(cfg.MySQL.DSN(), observability.NewPrintfAdapter(logger))
		if err != nil {
			logger.Fatal("db: connect", zap.Error(err))
		}
		journal = mysqlrepo.NewJournalRepository(db)
	}

	messenger, err := line.NewMessenger(cfg.Line.ChannelAccessToken, "")
	if err != nil {
		logger.Fatal("line client", zap.Error(err))
	}

	renderer := render.New(cfg.Fields)
	svc := services.NewOrderService(repo, renderer, publisher, services.LogisticsLabels{
		Arrived: cfg.Logistics.Arrived,
		Closed:  cfg.Logistics.Closed,
	}, logger)
	dispatcher := services.NewDispatcher(parser.New(cfg.Parser), svc, renderer, messenger, journal, logger)

	handler := http.NewHandler(dispatcher, journal, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), observability.RequestLogger(logger))
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting order bot", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("server run", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
