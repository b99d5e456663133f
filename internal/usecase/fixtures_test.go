package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

type stubPrices struct {
	schema  entity.PriceSchema
	records []entity.PriceRecord
}

func (s *stubPrices) Schema() entity.PriceSchema     { return s.schema }
func (s *stubPrices) Records() []entity.PriceRecord { return s.records }
func (s *stubPrices) Products() []entity.ProductLabel {
	seen := map[string]bool{}
	var out []entity.ProductLabel
	for _, r := range s.records {
		if !seen[r.Product] {
			seen[r.Product] = true
			out = append(out, entity.NewProductLabel(r))
		}
	}
	return out
}

type stubSeasons struct {
	records []entity.SeasonalRecord
}

func (s *stubSeasons) Records() []entity.SeasonalRecord { return s.records }

type stubSessionStore struct {
	mu     sync.Mutex
	modes  map[string]entity.SessionMode
	getErr error
	setErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{modes: map[string]entity.SessionMode{}}
}

func (s *stubSessionStore) GetMode(ctx context.Context, userID string) (entity.SessionMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return entity.ModeIdle, s.getErr
	}
	return s.modes[userID], nil
}

func (s *stubSessionStore) SetMode(ctx context.Context, userID string, mode entity.SessionMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.modes[userID] = mode
	return nil
}

type stubObserver struct {
	mu      sync.Mutex
	intents []entity.Intent
	status  []entity.LookupStatus
}

func (o *stubObserver) ObserveQuery(intent entity.Intent, status entity.LookupStatus, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.intents = append(o.intents, intent)
	o.status = append(o.status, status)
}

func tradeDay(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func bananaPrices() *stubPrices {
	return &stubPrices{
		schema: entity.SchemaCurrent,
		records: []entity.PriceRecord{
			entity.NewPriceRecord(tradeDay(2025, 10, 14), "114/10/14", "台北一", "A1 香蕉", 30, 2.5, 1200),
			entity.NewPriceRecord(tradeDay(2025, 10, 15), "114/10/15", "台北二", "A1 香蕉", 32, -1.2, 900),
			entity.NewPriceRecord(tradeDay(2025, 10, 15), "114/10/15", "台北一", "A1 香蕉", 31, 0, 1100),
			entity.NewPriceRecord(tradeDay(2025, 10, 15), "114/10/15", "台北一", "P1 芭樂-珍珠芭", 45.5, 3, 800),
			entity.NewPriceRecord(tradeDay(2025, 10, 15), "114/10/15", "三重區", "T1 鳳梨-金鑽鳳梨", 28, 0, 600),
		},
	}
}

func seasonRecords() []entity.SeasonalRecord {
	return []entity.SeasonalRecord{
		{Type: "水果", Item: "香蕉", Variety: "北蕉", County: "屏東縣", Month: "3"},
		{Type: "水果", Item: "香蕉", Variety: "北蕉", County: "屏東縣", Month: "1"},
		{Type: "水果", Item: "香蕉", Variety: "北蕉", County: "屏東縣", Month: "3"},
		{Type: "水果", Item: "香蕉", Variety: "北蕉", County: "屏東縣", Month: "12"},
		{Type: "水果", Item: "番石榴", Variety: "珍珠芭樂", County: "臺南市", Month: "7"},
		{Type: "蔬菜", Item: "番茄", Variety: "", County: "嘉義市", Month: "12"},
		{Type: "水果", Item: "柳丁", Variety: "", County: "嘉義縣", Month: "11"},
		{Type: "水果", Item: "芒果", Variety: "愛文", County: "台南市", Month: "7"},
		{Type: "花卉", Item: "蝴蝶蘭", Variety: "", County: "臺南市", Month: "3"},
		{Type: "雜糧", Item: "落花生", Variety: "", County: "雲林縣", Month: "17"},
		{Type: "菇類", Item: "香菇", Variety: "", County: "南投縣", Month: "7"},
	}
}

func newTestEngine(prices *stubPrices, seasons *stubSeasons, store *stubSessionStore, obs Observer) QueryUseCase {
	return NewQueryUseCase(prices, seasons, store, constants.DefaultAliases(), QueryOptions{}, obs, zerolog.Nop())
}
