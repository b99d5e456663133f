package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/limoonouo/Haoshi-Fruits/config"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
	"github.com/limoonouo/Haoshi-Fruits/internal/infrastructure/dataset"
	"github.com/limoonouo/Haoshi-Fruits/internal/infrastructure/storage"
	"github.com/limoonouo/Haoshi-Fruits/internal/usecase"
)

// Table names used in logs and metrics
const (
	TablePrice  = "price"
	TableSeason = "season"
)

// TableObserver receives row counts after loading
type TableObserver interface {
	SetTableRows(table string, rows int)
}

// TableReport load outcome of one table
type TableReport struct {
	Name     string
	Location string
	Stats    dataset.LoadStats
	Schema   entity.PriceSchema
	Err      error
}

// Tables loaded reference tables; a table that failed to load is empty, never nil
type Tables struct {
	Prices  *storage.PriceTable
	Seasons *storage.SeasonTable
	Reports []TableReport
}

// Ready both tables have rows
func (t *Tables) Ready() bool {
	return len(t.Prices.Records()) > 0 && len(t.Seasons.Records()) > 0
}

// LoadTables loads both tables once. Failures are logged and leave an empty table,
// so lookups against it answer with the unavailable apology.
func LoadTables(ctx context.Context, cfg *config.Config, observer TableObserver, log zerolog.Logger) *Tables {
	opts := dataset.Options{Encoding: cfg.TableEncoding}
	tables := &Tables{}

	prices, stats, err := dataset.LoadPriceTable(ctx, cfg.PriceTable, opts)
	if err != nil {
		prices = storage.NewPriceTable(entity.SchemaUnknown, nil)
	}
	tables.Prices = prices
	tables.Reports = append(tables.Reports, report(log, observer, TableReport{
		Name: TablePrice, Location: cfg.PriceTable, Stats: stats, Schema: prices.Schema(), Err: err,
	}))

	seasons, stats, err := dataset.LoadSeasonTable(ctx, cfg.SeasonTable, opts)
	if err != nil {
		seasons = storage.NewSeasonTable(nil)
	}
	tables.Seasons = seasons
	tables.Reports = append(tables.Reports, report(log, observer, TableReport{
		Name: TableSeason, Location: cfg.SeasonTable, Stats: stats, Err: err,
	}))

	return tables
}

func report(log zerolog.Logger, observer TableObserver, r TableReport) TableReport {
	if r.Err != nil {
		log.Warn().Err(r.Err).Str("table", r.Name).Str("location", r.Location).Msg("table unavailable")
	} else {
		log.Info().
			Str("table", r.Name).
			Str("location", r.Location).
			Int("rows", r.Stats.Rows).
			Int("skipped", r.Stats.Skipped).
			Int("recovered", r.Stats.Recovered).
			Msg("table loaded")
	}
	if observer != nil {
		observer.SetTableRows(r.Name, r.Stats.Rows)
	}
	return r
}

// NewSessionStore memory or Redis per SESSION_STORE; close is never nil
func NewSessionStore(ctx context.Context, cfg *config.Config) (repository.SessionStore, func() error, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		store, closeFn, err := storage.NewRedisSessionStore(ctx, storage.RedisSessionConfig{
			URL: cfg.RedisURL,
			TTL: cfg.SessionTTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis session store: %w", err)
		}
		return store, closeFn, nil
	default:
		return storage.NewMemorySessionStore(), func() error { return nil }, nil
	}
}

// NewEngine query engine configured from cfg
func NewEngine(
	cfg *config.Config,
	aliases entity.AliasConfig,
	tables *Tables,
	sessions repository.SessionStore,
	observer usecase.Observer,
	log zerolog.Logger,
) usecase.QueryUseCase {
	return usecase.NewQueryUseCase(
		tables.Prices,
		tables.Seasons,
		sessions,
		aliases,
		usecase.QueryOptions{
			ChunkLimit:         cfg.ReplyChunkLimit,
			GroupItemCap:       cfg.GroupItemCap,
			ExactMonth:         cfg.SeasonMonthExact,
			UnavailablePhrases: cfg.UnavailablePhrases,
			TypeOrder:          constants.PreferredTypeOrder,
		},
		observer,
		log,
	)
}
