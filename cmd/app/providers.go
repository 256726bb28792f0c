package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/internal/infra/calendarrepo"
	"github.com/yanqian/bazi/internal/infra/config"
	"github.com/yanqian/bazi/internal/infra/profilecache"
	httpiface "github.com/yanqian/bazi/internal/interface/http"
	"github.com/yanqian/bazi/pkg/metrics"
)

func provideBaziConfig(cfg *config.Config) bazi.Config {
	return bazi.Config{
		StrongThreshold: cfg.Bazi.StrongThreshold,
		Years:           bazi.YearRange{Min: cfg.Bazi.MinYear, Max: cfg.Bazi.MaxYear},
		BatchWorkers:    cfg.Bazi.BatchWorkers,
		CacheTTL:        cfg.Bazi.CacheTTL,
	}
}

func provideResolutionStats() *metrics.ResolutionStats {
	return metrics.NewResolutionStats()
}

func provideTokenVerifier(cfg *config.Config) *httpiface.TokenVerifier {
	return httpiface.NewTokenVerifier(cfg)
}

func provideHandler(svc bazi.Service, stats *metrics.ResolutionStats, cfg *config.Config, logger *slog.Logger) *httpiface.Handler {
	return httpiface.NewHandler(svc, stats, cfg.Bazi.MaxBatchSize, logger)
}

// provideCalendarLookup opens the configured calendar store. Any failure falls
// back to the in-memory store, which resolves every pillar analytically.
func provideCalendarLookup(cfg *config.Config, logger *slog.Logger) bazi.CalendarLookup {
	fallback := func(reason string, err error) bazi.CalendarLookup {
		logger.Error(reason+", using analytic calendar", "driver", cfg.Calendar.Driver, "error", err)
		return memoryCalendar(cfg, logger)
	}

	switch cfg.Calendar.Driver {
	case config.CalendarDriverSQLite:
		db, err := calendarrepo.OpenSQLite(cfg.Calendar.SQLite.Path)
		if err != nil {
			return fallback("failed to open sqlite calendar", err)
		}
		repo := calendarrepo.NewSQLiteRepository(db)
		if err := repo.Migrate(); err != nil {
			_ = repo.Close()
			return fallback("failed to migrate sqlite calendar", err)
		}
		logger.Info("sqlite calendar enabled", "path", cfg.Calendar.SQLite.Path)
		return repo
	case config.CalendarDriverPostgres:
		pool, err := openPostgres(cfg.Calendar.Postgres)
		if err != nil {
			return fallback("postgres calendar unavailable", err)
		}
		logger.Info("postgres calendar enabled")
		return calendarrepo.NewPostgresRepository(pool)
	case config.CalendarDriverObject:
		store := cfg.Calendar.ObjectStore
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		repo, err := calendarrepo.LoadObjectSnapshot(ctx, calendarrepo.ObjectSnapshotSource{
			Endpoint:  store.Endpoint,
			AccessKey: store.AccessKey,
			SecretKey: store.SecretKey,
			Bucket:    store.Bucket,
			Key:       store.Key,
			Region:    store.Region,
			UseSSL:    store.UseSSL,
		}, logger)
		if err != nil {
			return fallback("failed to load calendar snapshot from object storage", err)
		}
		logger.Info("object storage calendar snapshot loaded", "bucket", store.Bucket, "key", store.Key, "records", repo.Len())
		return repo
	default:
		return memoryCalendar(cfg, logger)
	}
}

func memoryCalendar(cfg *config.Config, logger *slog.Logger) *calendarrepo.MemoryRepository {
	path := strings.TrimSpace(cfg.Calendar.SnapshotPath)
	if path == "" {
		logger.Info("calendar snapshot not set, pillars resolve analytically")
		return calendarrepo.NewMemoryRepository()
	}
	repo, err := calendarrepo.LoadSnapshotFile(path)
	if err != nil {
		logger.Error("failed to load calendar snapshot, pillars resolve analytically", "path", path, "error", err)
		return calendarrepo.NewMemoryRepository()
	}
	logger.Info("calendar snapshot loaded", "path", path, "records", repo.Len())
	return repo
}

func openPostgres(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideProfileCache(cfg *config.Config, logger *slog.Logger) bazi.ProfileCache {
	if !cfg.Cache.Valkey.Enabled {
		return profilecache.NewMemoryCache()
	}
	opt, err := buildValkeyOptions(cfg.Cache.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return profilecache.NewMemoryCache()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return profilecache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return profilecache.NewMemoryCache()
	}
	logger.Info("valkey profile cache enabled", "addr", cfg.Cache.Valkey.Addr)
	return profilecache.NewValkeyCache(client, "bazi")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
