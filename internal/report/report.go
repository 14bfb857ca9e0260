package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fplmate/fplmate/internal/analysis"
	"github.com/fplmate/fplmate/internal/captaincy"
	"github.com/fplmate/fplmate/internal/chips"
	"github.com/fplmate/fplmate/internal/differentials"
	"github.com/fplmate/fplmate/internal/logger"
	"github.com/fplmate/fplmate/internal/metrics"
	"github.com/fplmate/fplmate/internal/seasonstats"
	"github.com/fplmate/fplmate/internal/store"
	"github.com/fplmate/fplmate/internal/teamperf"
	"github.com/fplmate/fplmate/internal/transfers"
)

// Component names, as used in Report.Errors and metrics labels.
const (
	CompAnalysis      = "analysis"
	CompTransfers     = "transfers"
	CompCaptaincy     = "captaincy"
	CompChips         = "chips"
	CompDifferentials = "differentials"
	CompFixtures      = "fixtures"
	CompSeasonStats   = "season_stats"
)

type Report struct {
	ID          string         `json:"id"`
	TeamID      int            `json:"team_id"`
	TeamName    string         `json:"team_name"`
	Manager     string         `json:"manager"`
	Gameweek    int            `json:"gameweek"`
	GeneratedAt time.Time      `json:"generated_at"`
	Risk        captaincy.Risk `json:"risk"`

	Analysis      *analysis.Result                      `json:"analysis,omitempty"`
	Transfers     []transfers.Suggestion                `json:"transfers,omitempty"`
	Captaincy     map[captaincy.Risk]captaincy.Analysis `json:"captaincy,omitempty"`
	Chips         []chips.Recommendation                `json:"chips,omitempty"`
	Differentials []differentials.Option                `json:"differentials,omitempty"`
	Edges         *Edges                                `json:"edges,omitempty"`
	Fixtures      []teamperf.PlayerFixtures             `json:"fixtures,omitempty"`
	SeasonStats   []seasonstats.Stat                    `json:"season_stats,omitempty"`

	// Errors maps a failed component to its error text.
	Errors map[string]string `json:"errors,omitempty"`
}

type Builder struct {
	Log     zerolog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewBuilder(log zerolog.Logger, m *metrics.Metrics) *Builder {
	return &Builder{Log: log, Metrics: m, Now: time.Now}
}

// Build prepares the team and runs every component in turn. A component
// that errors or panics is recorded in Report.Errors; the rest still run.
// Only a snapshot that cannot be turned into a squad fails the whole report.
func (b *Builder) Build(snap *store.Snapshot, opts Options) (*Report, error) {
	start := b.now()
	team, err := Prepare(snap, opts)
	if err != nil {
		return nil, err
	}
	r := &Report{
		ID:          uuid.NewString(),
		TeamID:      snap.Entry.ID,
		TeamName:    snap.Entry.Name,
		Manager:     strings.TrimSpace(snap.Entry.PlayerFirstName + " " + snap.Entry.PlayerLastName),
		Gameweek:    snap.Gameweek,
		GeneratedAt: start.UTC(),
		Risk:        team.Options.Risk,
		Errors:      map[string]string{},
	}
	log := b.Log.With().Str("report_id", r.ID).Int("team", r.TeamID).Int("gw", r.Gameweek).Logger()

	b.run(log, r, CompAnalysis, func() error {
		res := team.Analysis()
		r.Analysis = &res
		return nil
	})
	b.run(log, r, CompTransfers, func() error {
		s, err := team.Transfers()
		r.Transfers = s
		return err
	})
	b.run(log, r, CompCaptaincy, func() error {
		r.Captaincy = team.CaptaincyByRisk()
		return nil
	})
	b.run(log, r, CompChips, func() error {
		r.Chips = team.Chips()
		return nil
	})
	b.run(log, r, CompDifferentials, func() error {
		r.Differentials = team.Differentials()
		edges := team.Edges()
		r.Edges = &edges
		return nil
	})
	b.run(log, r, CompFixtures, func() error {
		r.Fixtures = team.FixtureGrid()
		return nil
	})
	b.run(log, r, CompSeasonStats, func() error {
		r.SeasonStats = team.SeasonStats()
		return nil
	})

	elapsed := b.now().Sub(start)
	b.Metrics.ObserveReport(elapsed)
	log.Info().Dur("took", elapsed).Int("failed", len(r.Errors)).Msg("report built")
	return r, nil
}

func (b *Builder) run(log zerolog.Logger, r *Report, name string, fn func() error) {
	clog := logger.Component(log, "report", name)
	err := guard(fn)
	if err != nil {
		r.Errors[name] = err.Error()
		b.Metrics.ComponentFailed(name)
		clog.Error().Err(err).Msg("component failed")
		return
	}
	clog.Debug().Msg("component done")
}

// guard runs fn, turning a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}
