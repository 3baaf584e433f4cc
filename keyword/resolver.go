// Package keyword resolves keyword market data through a prioritized chain
// of data sources: a search-results provider, the keyword's own ranking
// history, and a static estimate that can never fail. Resolution degrades
// gracefully: every failure short of a programming error is absorbed and
// the next stage tried.
package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/seo-intel/backend/stats"
)

// HistoryProvider reads persisted ranking samples for a keyword, ordered by
// observation time. An empty slice means "no internal data"; the resolver
// then falls through to estimation.
type HistoryProvider interface {
	GetRankingHistory(ctx context.Context, keyword string) ([]RankingSample, error)
}

// Resolver runs the fallback chain. It holds only injected collaborators and
// no mutable state, so one Resolver serves concurrent callers.
type Resolver struct {
	serp    SERPSearcher
	history HistoryProvider
	logger  *slog.Logger
	stats   *stats.Storage
}

// NewResolver wires a resolver. serp, history and st may each be nil; a nil
// collaborator simply disables its stage (the estimated stage needs nothing).
func NewResolver(serp SERPSearcher, history HistoryProvider, logger *slog.Logger, st *stats.Storage) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{serp: serp, history: history, logger: logger, stats: st}
}

// stage is one step of the fallback chain. A nil result with a nil error
// means "nothing here, keep going"; an error is logged and treated the same.
type stage struct {
	name string
	run  func(ctx context.Context, kw string) (*Result, error)
}

// chain builds the ordered stage list for a query. The external stage only
// runs for auto/external preference; the internal stage runs for everything
// except an explicit estimated preference, so an external-preferred query
// still degrades through history before estimation.
func (r *Resolver) chain(preferred Source) []stage {
	var stages []stage
	if (preferred == SourceAuto || preferred == SourceExternal) && r.serp != nil {
		stages = append(stages, stage{name: "external", run: r.resolveExternal})
	}
	if preferred != SourceEstimated && r.history != nil {
		stages = append(stages, stage{name: "internal", run: r.resolveInternal})
	}
	stages = append(stages, stage{name: "estimated", run: r.resolveEstimated})
	return stages
}

// Resolve runs the chain and returns the first stage's result. It never
// returns an error: the estimated stage always produces a usable, if
// low-confidence, answer.
func (r *Resolver) Resolve(ctx context.Context, q Query) Result {
	kw := strings.TrimSpace(q.Keyword)
	preferred := q.PreferredSource
	if preferred == "" {
		preferred = SourceAuto
	}

	for _, s := range r.chain(preferred) {
		res, err := s.run(ctx, kw)
		if err != nil {
			r.logger.Warn("resolution stage failed, falling through",
				slog.String("keyword", kw),
				slog.String("stage", s.name),
				slog.Any("error", err),
			)
			continue
		}
		if res == nil {
			continue
		}
		res.Keyword = kw
		res.ResolvedAt = time.Now()
		if r.stats != nil {
			r.stats.RecordResolution(string(res.Source))
		}
		return *res
	}

	// Unreachable: the estimated stage cannot fail.
	return Result{Keyword: kw, Source: SourceEstimated, Confidence: ConfidenceLow, ResolvedAt: time.Now()}
}

// resolveExternal derives market data from one results-page snapshot.
func (r *Resolver) resolveExternal(ctx context.Context, kw string) (*Result, error) {
	snap, err := r.serp.Search(ctx, kw)
	if err != nil {
		return nil, err
	}
	if len(snap.Organic) == 0 {
		return nil, fmt.Errorf("empty results page")
	}

	authorityHits := 0
	for i, o := range snap.Organic {
		if i >= 10 {
			break
		}
		if isAuthorityHost(hostOf(o.URL)) {
			authorityHits++
		}
	}

	// Hand-tuned difficulty formula; the constants are load-bearing and
	// changing any of them is a behavior change.
	difficulty := 20.0
	if authorityHits > 0 {
		difficulty += 25
	}
	difficulty += math.Min(float64(snap.AdCount)*5, 25)
	if len(snap.Organic) >= 10 {
		difficulty += 15
	}
	if snap.Organic[0].Featured {
		difficulty += 15
	}

	competition := CompetitionLow
	switch {
	case snap.AdCount > 5:
		competition = CompetitionHigh
	case snap.AdCount > 2:
		competition = CompetitionMedium
	}

	// Volume proxy: more ads, recognized domains and related searches all
	// point at a busier keyword.
	estimate := 100*float64(len(snap.Organic)) +
		1000*float64(snap.AdCount) +
		1500*float64(authorityHits) +
		500*float64(len(snap.Related))

	competitors := make([]Competitor, 0, 10)
	for i, o := range snap.Organic {
		if i >= 10 {
			break
		}
		competitors = append(competitors, Competitor{
			Rank:   i + 1,
			Domain: hostOf(o.URL),
			URL:    o.URL,
			Title:  o.Title,
		})
	}

	return &Result{
		SearchVolume:    bucketVolume(estimate),
		Difficulty:      clampScore(difficulty),
		Competition:     competition,
		Trend:           TrendStable,
		TopCompetitors:  competitors,
		RelatedKeywords: snap.Related,
		Source:          SourceExternal,
		Confidence:      ConfidenceHigh,
	}, nil
}

// resolveInternal infers market data from the keyword's own ranking history.
func (r *Resolver) resolveInternal(ctx context.Context, kw string) (*Result, error) {
	samples, err := r.history.GetRankingHistory(ctx, kw)
	if err != nil {
		return nil, fmt.Errorf("reading ranking history: %w", err)
	}
	if len(samples) == 0 {
		return nil, nil
	}

	var sumPos, sumImpr, sumCTR float64
	for _, s := range samples {
		sumPos += s.Position
		sumImpr += s.Impressions
		sumCTR += s.CTR
	}
	n := float64(len(samples))
	meanPos := sumPos / n

	var variance float64
	for _, s := range samples {
		d := s.Position - meanPos
		variance += d * d
	}
	volatility := math.Sqrt(variance / n)

	current := samples[len(samples)-1].Position
	expected := ExpectedCTR(int(math.Round(current)))
	actualCTR := sumCTR / n

	positionScore := 0.4 * math.Min(meanPos, 40)
	volatilityScore := 0.3 * math.Min(volatility*10, 30)
	ctrPenalty := 0.0
	if actualCTR < 0.7*expected {
		ctrPenalty = 30
	}
	difficulty := clampScore(positionScore + volatilityScore + ctrPenalty)

	avgImpressions := sumImpr / n
	volume := avgImpressions / math.Max(expected, 0.01)

	confidence := ConfidenceMedium
	if len(samples) >= 30 {
		confidence = ConfidenceHigh
	}

	return &Result{
		SearchVolume: bucketVolume(volume),
		Difficulty:   difficulty,
		Competition:  CompetitionMedium,
		Trend:        historyTrend(samples),
		Source:       SourceInternal,
		Confidence:   confidence,
	}, nil
}

// historyTrend compares the mean position of the most recent seven samples
// against the prior seven. A two-position improvement (lower is better) is
// rising, a two-position slide is declining. Fewer than fourteen samples is
// not enough signal and reads as stable.
func historyTrend(samples []RankingSample) Trend {
	if len(samples) < 14 {
		return TrendStable
	}
	recent := samples[len(samples)-7:]
	prior := samples[len(samples)-14 : len(samples)-7]

	mean := func(ss []RankingSample) float64 {
		var sum float64
		for _, s := range ss {
			sum += s.Position
		}
		return sum / float64(len(ss))
	}

	diff := mean(prior) - mean(recent)
	switch {
	case diff >= 2:
		return TrendRising
	case diff <= -2:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// resolveEstimated is the final fallback: a static classification on word
// count alone. Long-tail keywords are assumed cheap, short heads contested.
func (r *Resolver) resolveEstimated(_ context.Context, kw string) (*Result, error) {
	res := &Result{
		Trend:      TrendStable,
		Source:     SourceEstimated,
		Confidence: ConfidenceLow,
	}
	if len(strings.Fields(kw)) >= 3 {
		res.SearchVolume = VolumeLow
		res.Difficulty = 30
		res.Competition = CompetitionLow
	} else {
		res.SearchVolume = VolumeMedium
		res.Difficulty = 60
		res.Competition = CompetitionMedium
	}
	return res, nil
}
