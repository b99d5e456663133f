package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
)

// QueryUseCase agricultural query engine. It never performs transport I/O;
// callers deliver the returned chunks themselves.
type QueryUseCase interface {
	// Respond is pure: same (text, mode) gives the same reply and next mode
	Respond(userID, text string, mode entity.SessionMode) (entity.SessionMode, []string)

	// Handle loads the user's mode from the session store, responds and stores the next mode
	Handle(ctx context.Context, userID, text string) ([]string, error)
}

// Observer receives one call per answered message
type Observer interface {
	ObserveQuery(intent entity.Intent, status entity.LookupStatus, elapsed time.Duration)
}

// QueryOptions engine settings; zero values fall back to defaults
type QueryOptions struct {
	ChunkLimit         int
	GroupItemCap       int
	ExactMonth         bool
	PriceTrigger       string
	UnavailablePhrases []string
	HelpKeywords       []string
	TypeOrder          []string
}

type queryUseCase struct {
	classifier *IntentClassifier
	prices     *PriceLookup
	seasons    *SeasonLookup
	sessions   repository.SessionStore
	locks      *userLocks
	chunkLimit int
	observer   Observer
	logger     zerolog.Logger
}

// NewQueryUseCase wires the engine. prices/seasons may be nil; the affected lookups then answer with an apology.
func NewQueryUseCase(
	prices repository.PriceRepository,
	seasons repository.SeasonRepository,
	sessions repository.SessionStore,
	aliases entity.AliasConfig,
	opts QueryOptions,
	observer Observer,
	logger zerolog.Logger,
) QueryUseCase {
	if opts.ChunkLimit <= 0 {
		opts.ChunkLimit = constants.DefaultReplyChunkLimit
	}
	if opts.PriceTrigger == "" {
		opts.PriceTrigger = constants.PriceTriggerPhrase
	}
	if opts.UnavailablePhrases == nil {
		opts.UnavailablePhrases = constants.UnavailableTriggerPhrases
	}
	if opts.HelpKeywords == nil {
		opts.HelpKeywords = constants.HelpKeywords
	}

	resolver := NewAliasResolver(aliases)
	return &queryUseCase{
		classifier: NewIntentClassifier(resolver, opts.PriceTrigger, opts.UnavailablePhrases, opts.HelpKeywords),
		prices:     NewPriceLookup(prices, NewFuzzyMatcher(constants.FuzzyMaxCandidates, constants.FuzzyCutoff)),
		seasons: NewSeasonLookup(seasons, resolver, SeasonLookupOptions{
			TypeOrder:  opts.TypeOrder,
			ItemCap:    opts.GroupItemCap,
			ExactMonth: opts.ExactMonth,
		}),
		sessions:   sessions,
		locks:      newUserLocks(),
		chunkLimit: opts.ChunkLimit,
		observer:   observer,
		logger:     logger.With().Str("component", "query").Logger(),
	}
}

// Respond classifies text against mode and renders the reply
func (u *queryUseCase) Respond(userID, text string, mode entity.SessionMode) (entity.SessionMode, []string) {
	return u.respond(u.logger.With().Str("user_id", userID).Logger(), text, mode)
}

func (u *queryUseCase) respond(log zerolog.Logger, text string, mode entity.SessionMode) (entity.SessionMode, []string) {
	started := time.Now()
	decision := u.classifier.Classify(text, mode)
	result := u.execute(log, decision)

	if u.observer != nil {
		u.observer.ObserveQuery(decision.Intent, result.Status, time.Since(started))
	}
	log.Debug().
		Str("intent", decision.Intent.String()).
		Str("status", result.Status.String()).
		Str("next_mode", decision.NextMode.String()).
		Dur("elapsed", time.Since(started)).
		Msg("query answered")

	return decision.NextMode, SplitReply(result.Text, u.chunkLimit)
}

func (u *queryUseCase) execute(log zerolog.Logger, d entity.Decision) entity.LookupResult {
	switch d.Intent {
	case entity.IntentSessionTrigger:
		return entity.LookupResult{Status: entity.LookupFound, Text: constants.MsgNotAvailable}
	case entity.IntentPriceTrigger:
		return entity.LookupResult{Status: entity.LookupFound, Text: constants.MsgPricePrompt}
	case entity.IntentHelp, entity.IntentPassthrough:
		return entity.LookupResult{Status: entity.LookupFound, Text: constants.MsgUsageHint}
	case entity.IntentPriceQuery:
		result, tier := u.prices.Lookup(d.CropTerm)
		log.Debug().Str("term", d.CropTerm).Str("tier", tier.String()).Msg("price match")
		if result.Status == entity.LookupUnavailable {
			log.Warn().Str("term", d.CropTerm).Msg("price table unavailable")
		}
		return result
	case entity.IntentMonthQuery:
		return u.warnUnavailable(log, u.seasons.ByMonth(d.Month, d.Type))
	case entity.IntentRegionQuery:
		return u.warnUnavailable(log, u.seasons.ByRegion(d.Regions, d.Type))
	case entity.IntentCropPeriodQuery:
		return u.warnUnavailable(log, u.seasons.CropPeriods(d.Terms))
	default:
		return entity.LookupResult{Status: entity.LookupFound, Text: constants.MsgUsageHint}
	}
}

func (u *queryUseCase) warnUnavailable(log zerolog.Logger, result entity.LookupResult) entity.LookupResult {
	if result.Status == entity.LookupUnavailable {
		log.Warn().Msg("seasonality table unavailable")
	}
	return result
}

// Handle serializes messages of one user so the read-modify-write of the mode cannot interleave
func (u *queryUseCase) Handle(ctx context.Context, userID, text string) ([]string, error) {
	unlock := u.locks.lock(userID)
	defer unlock()

	log := u.logger.With().
		Str("request_id", uuid.NewString()).
		Str("user_id", userID).
		Logger()

	mode, err := u.sessions.GetMode(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	next, chunks := u.respond(log, text, mode)

	if err := u.sessions.SetMode(ctx, userID, next); err != nil {
		return chunks, fmt.Errorf("save session: %w", err)
	}
	return chunks, nil
}
