// Package report prepares one manager's squad from a stored snapshot and
// runs the analysis components over it.
package report

import (
	"errors"
	"fmt"

	"github.com/fplmate/fplmate/internal/analysis"
	"github.com/fplmate/fplmate/internal/captaincy"
	"github.com/fplmate/fplmate/internal/chips"
	"github.com/fplmate/fplmate/internal/differentials"
	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
	"github.com/fplmate/fplmate/internal/seasonstats"
	"github.com/fplmate/fplmate/internal/store"
	"github.com/fplmate/fplmate/internal/teamperf"
	"github.com/fplmate/fplmate/internal/transfers"
)

var ErrNoTemplate = errors.New("chip has no squad template")

// Options are the per-request preferences. Zero values take defaults,
// except Risk whose zero value is Safe.
type Options struct {
	Risk          captaincy.Risk
	FreeTransfers int
	Position      fpl.Position
	MaxOwnership  float64
	FixtureWindow int
	GridFixtures  int
	Budget        int
	TeamPerf      *teamperf.Params
}

func (o Options) withDefaults() Options {
	if o.FreeTransfers < 0 {
		o.FreeTransfers = 0
	}
	if o.Position == 0 {
		o.Position = fpl.Midfielder
	}
	if o.MaxOwnership <= 0 {
		o.MaxOwnership = differentials.DefaultMaxOwnership
	}
	if o.FixtureWindow <= 0 {
		o.FixtureWindow = enrich.DefaultWindow
	}
	if o.GridFixtures <= 0 {
		o.GridFixtures = 5
	}
	if o.TeamPerf == nil {
		p := teamperf.DefaultParams()
		o.TeamPerf = &p
	}
	return o
}

// Team is a manager's enriched squad plus everything the components share.
type Team struct {
	Snapshot *store.Snapshot
	Enricher *enrich.Enricher
	Squad    enrich.Squad
	Perf     teamperf.Table
	Bank     int
	Value    int
	Options  Options
}

// Prepare enriches the snapshot's picks. It fails only on structural
// problems such as a pick for a player the bootstrap does not list.
func Prepare(snap *store.Snapshot, opts Options) (*Team, error) {
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	opts = opts.withDefaults()
	e := enrich.NewEnricher(snap.Bootstrap.Teams, snap.Fixtures).WithWindow(opts.FixtureWindow)
	squad, err := enrich.BuildSquad(snap.Picks.Picks, fpl.PlayerIndex(snap.Players), e, snap.Gameweek)
	if err != nil {
		return nil, fmt.Errorf("build squad: %w", err)
	}
	value := snap.Picks.EntryHistory.Value
	if value == 0 {
		value = snap.Entry.LastDeadlineValue
	}
	return &Team{
		Snapshot: snap,
		Enricher: e,
		Squad:    squad,
		Perf:     opts.TeamPerf.Calculate(snap.Fixtures, snap.Bootstrap.Teams),
		Bank:     snap.Picks.EntryHistory.Bank,
		Value:    value,
		Options:  opts,
	}, nil
}

func (t *Team) Analysis() analysis.Result {
	return analysis.Analyze(t.Squad.Starting, t.Squad.Bench, t.Snapshot.Bootstrap.Teams, t.Bank, t.Value)
}

func (t *Team) Transfers() ([]transfers.Suggestion, error) {
	return transfers.Suggest(transfers.Input{
		Starting:      t.Squad.Starting,
		Bench:         t.Squad.Bench,
		Pool:          t.Snapshot.Players,
		Enricher:      t.Enricher,
		CurrentGW:     t.Snapshot.Gameweek,
		Bank:          t.Bank,
		FreeTransfers: t.Options.FreeTransfers,
	})
}

func (t *Team) Captaincy(risk captaincy.Risk) captaincy.Analysis {
	return captaincy.Analyze(t.Squad.Starting, risk)
}

func (t *Team) CaptaincyByRisk() map[captaincy.Risk]captaincy.Analysis {
	return captaincy.AnalyzeByRisk(t.Squad.Starting)
}

func (t *Team) Chips() []chips.Recommendation {
	return chips.Recommend(chips.Input{
		Starting:  t.Squad.Starting,
		Bench:     t.Squad.Bench,
		Gameweeks: t.Snapshot.Bootstrap.Events,
		Fixtures:  t.Snapshot.Fixtures,
		History:   t.Snapshot.History.Chips,
		CurrentGW: t.Snapshot.Gameweek,
	})
}

// ChipTemplate builds the squad template for chip at gw (0 = snapshot
// gameweek). Triple captain has none.
func (t *Team) ChipTemplate(chip chips.Chip, gw int) (chips.Template, error) {
	if gw <= 0 {
		gw = t.Snapshot.Gameweek
	}
	switch chip {
	case chips.Wildcard:
		return chips.WildcardTemplate(t.Snapshot.Players, t.Enricher, gw, t.Options.Budget), nil
	case chips.BenchBoost:
		return chips.BenchBoostTemplate(t.Squad.All(), t.Snapshot.Players, t.Enricher, gw), nil
	case chips.FreeHit:
		return chips.FreeHitTemplate(t.Snapshot.Players, t.Enricher, gw), nil
	case chips.TripleCaptain:
		return chips.Template{}, fmt.Errorf("%w: %s", ErrNoTemplate, chip.DisplayName())
	}
	return chips.Template{}, fmt.Errorf("%w: %s", ErrNoTemplate, chip)
}

func (t *Team) Differentials() []differentials.Option {
	q := differentials.Query{
		Position:     t.Options.Position,
		MaxOwnership: t.Options.MaxOwnership,
		CurrentGW:    t.Snapshot.Gameweek,
		Bank:         t.Bank,
	}
	return differentials.Find(q, t.Snapshot.Players, t.Squad.All(), t.Enricher)
}

// Edges is the ownership picture of the current squad.
type Edges struct {
	Players   []differentials.EdgeInfo `json:"players"`
	Ownership differentials.Ownership  `json:"ownership"`
}

func (t *Team) Edges() Edges {
	all := t.Squad.All()
	return Edges{Players: differentials.SquadEdges(all), Ownership: differentials.SquadOwnership(all)}
}

func (t *Team) FixtureGrid() []teamperf.PlayerFixtures {
	return t.Options.TeamPerf.Grid(t.Perf, t.Squad.All(), t.Options.GridFixtures)
}

func (t *Team) SeasonStats() []seasonstats.Stat {
	all := t.Squad.All()
	squad := make([]fpl.Player, 0, len(all))
	for _, p := range all {
		squad = append(squad, p.Player)
	}
	return seasonstats.Calculate(seasonstats.Input{
		Entry:     t.Snapshot.Entry,
		History:   t.Snapshot.History,
		Gameweeks: t.Snapshot.Bootstrap.Events,
		Squad:     squad,
	})
}
