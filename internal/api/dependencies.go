package api

import (
	"flightwatch/internal/clock"
	"flightwatch/internal/common"
	"flightwatch/internal/config"
	"flightwatch/internal/constants"
	"flightwatch/internal/db/repositories"
	"flightwatch/internal/engine"
	"flightwatch/internal/logging"
	"flightwatch/internal/metrics"
	"flightwatch/internal/notify"
	"flightwatch/internal/providers"

	"gorm.io/gorm"
)

// Repositories groups the persistence layer
type Repositories struct {
	Flights       *repositories.TrackedFlightRepo
	Alerts        *repositories.AlertRepo
	Rules         *repositories.RuleRepo
	Notifications *repositories.NotificationRepo
	Users         *repositories.UserRepo
}

// Dependencies wires repositories, cache, providers and the engine
// together once per process.
type Dependencies struct {
	Cfg     *config.Config
	Repo    Repositories
	Cache   common.CacheInterface
	Engine  *engine.Engine
	Metrics *metrics.MetricsRegistry
}

// InitDependencies builds the full dependency graph. Redis is optional:
// without it the in-memory cache is used and the notification queue
// transport is skipped.
func InitDependencies(cfg *config.Config, db *gorm.DB, reg *metrics.MetricsRegistry) (*Dependencies, error) {
	repo := Repositories{
		Flights:       repositories.NewTrackedFlightRepo(db),
		Alerts:        repositories.NewAlertRepo(db),
		Rules:         repositories.NewRuleRepo(db),
		Notifications: repositories.NewNotificationRepo(db),
		Users:         repositories.NewUserRepo(db),
	}

	var cache common.CacheInterface
	var transports notify.MultiTransport

	if cfg.RedisAddr != "" {
		client, err := common.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		cache = common.NewRedisCacheService(client)
		transports = append(transports, notify.NewQueueTransport(client, cfg.NotifyStream))
		logging.Info("Using Redis cache and notification queue", "addr", cfg.RedisAddr)
	} else {
		cache = common.NewCacheService(constants.FlightCacheTTLScheduled, constants.CacheCleanupInterval)
		logging.Info("Using in-memory cache")
	}

	if cfg.WebhookEndpoint != "" {
		transports = append(transports, notify.NewWebhookTransport(cfg.WebhookEndpoint))
	}

	var transport notify.Transport
	if len(transports) > 0 {
		transport = transports
	}

	dispatcher := notify.NewDispatcher(repo.Notifications, repo.Users, transport, reg)

	provs := []providers.FlightProvider{}
	if cfg.AviationStackKey != "" {
		provs = append(provs, providers.NewAviationStackProvider(cfg.AviationStackBaseURL, cfg.AviationStackKey, cfg.FetchTimeout))
	}
	if cfg.AeroDataBoxKey != "" {
		provs = append(provs, providers.NewAeroDataBoxProvider(cfg.AeroDataBoxBaseURL, cfg.AeroDataBoxKey, cfg.FetchTimeout))
	}
	if len(provs) == 0 {
		logging.Warn("No flight data provider configured; polling will find no data")
	}

	gateway := engine.NewGateway(cache, reg, provs...)
	fetcher := engine.NewBatchFetcher(gateway, cfg.BatchSize, cfg.InterBatchDelay)

	realClock := clock.RealClock{}
	eng := engine.NewEngine(
		realClock,
		fetcher,
		engine.NewPollScheduler(realClock),
		engine.NewPollScheduler(realClock),
		repo.Flights,
		repo.Alerts,
		repo.Rules,
		dispatcher,
		reg,
	)

	return &Dependencies{
		Cfg:     cfg,
		Repo:    repo,
		Cache:   cache,
		Engine:  eng,
		Metrics: reg,
	}, nil
}
