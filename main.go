package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/chuyenmonc1nhuhan/nls/api"
	"github.com/chuyenmonc1nhuhan/nls/config"
	"github.com/chuyenmonc1nhuhan/nls/handler/lesson"
	"github.com/chuyenmonc1nhuhan/nls/internal/ai"
	"github.com/chuyenmonc1nhuhan/nls/internal/ai/gemini"
	"github.com/chuyenmonc1nhuhan/nls/internal/ai/gpt"
	"github.com/chuyenmonc1nhuhan/nls/internal/ai/openrouter"
	"github.com/chuyenmonc1nhuhan/nls/internal/cache"
	"github.com/chuyenmonc1nhuhan/nls/internal/catalog"
	"github.com/chuyenmonc1nhuhan/nls/internal/db"
	"github.com/chuyenmonc1nhuhan/nls/internal/httputil"
	"github.com/chuyenmonc1nhuhan/nls/internal/kafka"
	"github.com/chuyenmonc1nhuhan/nls/internal/logz"
	"github.com/chuyenmonc1nhuhan/nls/internal/nls"
	"github.com/chuyenmonc1nhuhan/nls/internal/scramkafka"
	"github.com/chuyenmonc1nhuhan/nls/internal/tracing"
	"github.com/chuyenmonc1nhuhan/nls/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	versionDeploy := time.Now().Unix()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app := initFiber()
	config.InitTimeZone()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(errors.New("unable to initial config"))
	}

	logz.Init(cfg.LogConfig.Level, cfg.Server.Name)
	defer logz.Drop()

	logger := zap.L()
	logger.Info("version " + strconv.FormatInt(versionDeploy, 10))

	shutdown, err := tracing.Init(ctx, *cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = shutdown(context.Background()) }()
	logger.Info("Otel initialized", zap.Bool("exporter", cfg.OtelConfig.Endpoint != ""))

	loadLookup, closeCatalog := initCatalog(ctx, cfg, logger)
	defer closeCatalog()

	httpClient := httputil.InitHttpClient(
		cfg.HTTP.TimeOut,
		cfg.HTTP.MaxIdleConn,
		cfg.HTTP.MaxIdleConnPerHost,
		cfg.HTTP.MaxConnPerHost,
	)

	generator, model := initGenerator(ctx, cfg, httpClient, logger)
	dispatcher := nls.New(generator, nls.Options{
		Model:        model,
		Temperature:  &cfg.GeminiConfig.Temperature,
		EnableSearch: cfg.GeminiConfig.EnableSearch && cfg.Provider == ai.ProviderGemini,
	})

	deps := lesson.Deps{
		Dispatcher: dispatcher,
		LoadLookup: loadLookup,
	}

	if cfg.EnableKafka {
		kafkaProducer, err := scramkafka.NewSyncProducer(cfg.KafkaConfig)
		if err != nil {
			logger.Fatal("Fail Create NewSyncProducer", zap.Error(err))
		}
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.Error("Fail Close SyncProducer", zap.Error(err))
			}
		}()
		deps.Publish = kafka.NewSyncSendMessage(kafkaProducer, cfg.KafkaConfig.Topic.GenerationTopic)
		logger.Info("Kafka SyncProducer Connected !!")
	}

	app.Use(middleware.OTelFiberMiddleware(cfg.Server.Name))
	app.Use(middleware.AuditLogger())

	group := app.Group(fmt.Sprintf("/%s/api/v1", cfg.Server.Name))
	group.Get("/health", func(c *fiber.Ctx) error {
		return api.Ok(c, versionDeploy)
	})

	group.Post("/nls/suggestion", lesson.NewSuggestionHandler(deps))
	group.Post("/nls/lesson-plan", lesson.NewLessonPlanHandler(deps))
	group.Post("/nls/integrate", lesson.NewIntegrationHandler(deps))
	group.Post("/nls/assessment", lesson.NewAssessmentHandler(deps))
	group.Get("/nls/competencies", lesson.NewCompetencyListHandler(deps))

	logger.Info(fmt.Sprintf("/%s/api/v1", cfg.Server.Name))
	if err = app.Listen(fmt.Sprintf(":%v", cfg.Server.Port)); err != nil {
		logger.Fatal(err.Error())
	}
}

// initGenerator returns a nil generator when no key is configured so requests
// answer with a configuration error instead of the process refusing to start.
func initGenerator(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *zap.Logger) (ai.Generator, string) {
	switch cfg.Provider {
	case ai.ProviderOpenAi:
		if cfg.OpenAiConfig.ApiKey == "" {
			logger.Warn("openai api key is not configured")
			return nil, cfg.OpenAiConfig.Model
		}
		return gpt.NewGenerator(gpt.Open(cfg.OpenAiConfig.ApiKey, httpClient)), cfg.OpenAiConfig.Model
	case ai.ProviderOpenRouter:
		if cfg.OpenRouterConfig.ApiKey == "" {
			logger.Warn("openrouter api key is not configured")
			return nil, cfg.OpenRouterConfig.Model
		}
		client := openrouter.Open(cfg.OpenRouterConfig.ApiKey, cfg.OpenRouterConfig.BaseURL, httpClient)
		return openrouter.NewGenerator(client), cfg.OpenRouterConfig.Model
	}

	apiKey, err := config.ResolveApiKey(cfg.GeminiConfig.ApiKey)
	if err != nil {
		logger.Warn("gemini disabled", zap.Error(err))
		return nil, cfg.GeminiConfig.Model
	}
	clientGemini, err := gemini.Open(ctx, apiKey, httpClient)
	if err != nil {
		logger.Fatal("gemini CONNECT", zap.Error(err))
	}
	logger.Info("gemini CONNECT", zap.String("model", cfg.GeminiConfig.Model))
	return gemini.NewGenerator(clientGemini), cfg.GeminiConfig.Model
}

// initCatalog wires the competency catalogue when postgres and redis are both
// reachable. Otherwise it returns a nil loader and callers must send their own lookup.
func initCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (catalog.LoadLookupFunc, func()) {
	dbPool, err := db.Open(ctx, cfg.DBConfig)
	if err != nil {
		logger.Warn("competency catalogue disabled: db", zap.Error(err))
		return nil, func() {}
	}
	logger.Info("DB CONNECT")

	redisClient, err := cache.Initialize(ctx, cfg.RedisConfig)
	if err != nil {
		dbPool.Close()
		logger.Warn("competency catalogue disabled: redis", zap.Error(err))
		return nil, func() {}
	}
	redisCMD := redisClient.UniversalClient()
	logger.Info("Redis Connected")

	closeFunc := func() {
		if err := redisCMD.Close(); err != nil {
			logger.Error("closing redis connection error", zap.Error(err))
		}
		dbPool.Close()
	}
	return catalog.NewLoadLookup(
		db.ListCompetency(dbPool),
		cache.GetRedis(redisCMD),
		cache.SetRedis(redisCMD),
		cfg.CatalogTTL,
	), closeFunc
}

func initFiber() *fiber.App {
	app := fiber.New(
		fiber.Config{
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          150 * time.Second,
			IdleTimeout:           30 * time.Second,
			BodyLimit:             8 * 1024 * 1024,
			DisableStartupMessage: true,
			CaseSensitive:         true,
			StrictRouting:         true,
		},
	)
	app.Use(cors.New(cors.ConfigDefault))
	app.Use(SetHeaderID())
	return app
}

func SetHeaderID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceId := c.Get("traceId")
		reqId := c.Get("requestId")
		if traceId == "" {
			traceId = uuid.New().String()
		}
		if reqId == "" {
			return api.BadRequest(c, "requestId is required")
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		c.Request().Header.Set("traceId", traceId)
		return c.Next()
	}
}
