package chips

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

type Chip int

const (
	Wildcard Chip = iota
	FreeHit
	BenchBoost
	TripleCaptain
)

// All lists every chip in recommendation order.
var All = []Chip{Wildcard, FreeHit, BenchBoost, TripleCaptain}

func (c Chip) String() string {
	switch c {
	case Wildcard:
		return "wildcard"
	case FreeHit:
		return "freehit"
	case BenchBoost:
		return "benchboost"
	case TripleCaptain:
		return "triplecaptain"
	}
	return fmt.Sprintf("chip(%d)", int(c))
}

func (c Chip) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Code is the identifier used in upstream entry history.
func (c Chip) Code() string {
	switch c {
	case Wildcard:
		return fpl.ChipWildcard
	case FreeHit:
		return fpl.ChipFreeHit
	case BenchBoost:
		return fpl.ChipBenchBoost
	case TripleCaptain:
		return fpl.ChipTripleCaptain
	}
	return ""
}

func (c Chip) DisplayName() string {
	switch c {
	case Wildcard:
		return "Wildcard"
	case FreeHit:
		return "Free Hit"
	case BenchBoost:
		return "Bench Boost"
	case TripleCaptain:
		return "Triple Captain"
	}
	return c.String()
}

// ParseChip accepts both our names and upstream codes.
func ParseChip(s string) (Chip, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "wildcard", "wc":
		return Wildcard, true
	case "freehit", "free_hit", "fh":
		return FreeHit, true
	case "benchboost", "bench_boost", "bboost", "bb":
		return BenchBoost, true
	case "triplecaptain", "triple_captain", "3xc", "tc":
		return TripleCaptain, true
	default:
		return 0, false
	}
}

type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type Recommendation struct {
	Chip                Chip     `json:"chip"`
	Available           bool     `json:"available"`
	AlreadyUsed         bool     `json:"already_used"`
	UsedInGameweek      *int     `json:"used_in_gameweek"`
	RecommendedGameweek *int     `json:"recommended_gameweek"`
	Reason              string   `json:"reason"`
	Priority            Priority `json:"priority"`
	SeasonContext       string   `json:"season_context"`
}

type Input struct {
	Starting  []enrich.Player
	Bench     []enrich.Player
	Gameweeks []fpl.Gameweek
	Fixtures  []fpl.Fixture
	History   []fpl.ChipUsage
	CurrentGW int
}

const (
	// SecondHalfStart is the first gameweek of the second wildcard window.
	SecondHalfStart = 20
	scanWindow      = 6
	lateSeason      = 8
)

type season struct {
	current   int
	length    int
	remaining int
	upcoming  []fpl.Gameweek
}

func (s season) secondHalf() bool { return s.current >= SecondHalfStart }

func (s season) late() bool { return s.secondHalf() && s.remaining <= lateSeason }

// Recommend evaluates every chip independently from the usage history.
func Recommend(in Input) []Recommendation {
	length := fpl.SeasonLength(in.Gameweeks)
	s := season{
		current:   in.CurrentGW,
		length:    length,
		remaining: length - in.CurrentGW,
		upcoming:  fpl.GameweeksInWindow(in.Gameweeks, in.CurrentGW, scanWindow),
	}
	out := make([]Recommendation, 0, len(All))
	for _, c := range All {
		switch c {
		case Wildcard:
			out = append(out, wildcard(in, s))
		case FreeHit:
			out = append(out, freeHit(in, s))
		case BenchBoost:
			out = append(out, benchBoost(in, s))
		case TripleCaptain:
			out = append(out, tripleCaptain(in, s))
		}
	}
	return out
}

// WildcardAvailable reports whether another wildcard can be played at gw.
// The first half allows one, and from SecondHalfStart the season total may
// reach two regardless of when the first was played.
func WildcardAvailable(history []fpl.ChipUsage, gw int) bool {
	n := len(usages(history, Wildcard))
	if gw >= SecondHalfStart {
		return n < 2
	}
	return n < 1
}

// AvailableChips lists the chips still playable at gw.
func AvailableChips(history []fpl.ChipUsage, gw int) []Chip {
	var out []Chip
	for _, c := range All {
		switch c {
		case Wildcard:
			if WildcardAvailable(history, gw) {
				out = append(out, c)
			}
		case FreeHit, BenchBoost, TripleCaptain:
			if len(usages(history, c)) == 0 {
				out = append(out, c)
			}
		}
	}
	return out
}

func usages(history []fpl.ChipUsage, c Chip) []fpl.ChipUsage {
	var out []fpl.ChipUsage
	for _, u := range history {
		if chip, ok := ParseChip(u.Name); ok && chip == c {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Event < out[j].Event })
	return out
}

func gwPtr(gw int) *int { return &gw }

func wildcard(in Input, s season) Recommendation {
	used := usages(in.History, Wildcard)
	rec := Recommendation{Chip: Wildcard, Available: WildcardAvailable(in.History, s.current)}
	rec.AlreadyUsed = !rec.Available
	if len(used) > 0 {
		rec.UsedInGameweek = gwPtr(used[len(used)-1].Event)
	}

	if !rec.Available {
		rec.Priority = PriorityNone
		if s.secondHalf() {
			rec.Reason = "Both wildcards already used this season."
		} else {
			rec.Reason = fmt.Sprintf("First half wildcard already used. Second available from GW%d.", SecondHalfStart)
		}
		return rec
	}

	poorForm, unavailable := 0, 0
	for _, p := range in.Starting {
		if p.Form < 3 {
			poorForm++
		}
		if !p.Available() {
			unavailable++
		}
	}

	switch {
	case s.secondHalf() && s.remaining <= 10:
		rec.SeasonContext = fmt.Sprintf("%d GWs remaining - consider using soon.", s.remaining)
	case s.secondHalf():
		rec.SeasonContext = fmt.Sprintf("Second half wildcard available for GW%d-%d.", SecondHalfStart, s.length)
	default:
		rec.SeasonContext = fmt.Sprintf("First half wildcard expires after GW%d.", SecondHalfStart-1)
	}

	switch {
	case poorForm >= 4 || unavailable >= 3:
		rec.Priority = PriorityHigh
		rec.RecommendedGameweek = gwPtr(s.current)
		rec.Reason = fmt.Sprintf("%d players in poor form and %d with availability issues. Consider rebuilding your squad.", poorForm, unavailable)
	case poorForm >= 3:
		rec.Priority = PriorityMedium
		rec.RecommendedGameweek = gwPtr(s.current + 1)
		rec.Reason = "Several underperforming players. May want to restructure soon."
	case s.secondHalf() && s.remaining <= 5:
		rec.Priority = PriorityMedium
		rec.RecommendedGameweek = gwPtr(s.current)
		rec.Reason = "Only a few gameweeks left. Use it or lose it!"
	default:
		rec.Priority = PriorityLow
		rec.Reason = "Team is performing adequately. Save for fixture swings or emergencies."
	}
	return rec
}

// single fills the usage fields shared by the once-per-season chips and
// reports whether the chip is still available.
func single(in Input, s season, c Chip) (Recommendation, bool) {
	rec := Recommendation{Chip: c}
	used := usages(in.History, c)
	if len(used) > 0 {
		rec.AlreadyUsed = true
		rec.UsedInGameweek = gwPtr(used[0].Event)
		rec.Priority = PriorityNone
		rec.Reason = fmt.Sprintf("%s already used in GW%d.", c.DisplayName(), used[0].Event)
		return rec, false
	}
	rec.Available = true
	rec.SeasonContext = fmt.Sprintf("Available for GW%d-%d", s.current, s.length)
	return rec, true
}

func freeHit(in Input, s season) Recommendation {
	rec, ok := single(in, s, FreeHit)
	if !ok {
		return rec
	}
	if blanks := BlankGameweeks(s.upcoming, in.Fixtures, in.Starting); len(blanks) > 0 {
		rec.Priority = PriorityHigh
		rec.RecommendedGameweek = gwPtr(blanks[0])
		rec.Reason = fmt.Sprintf("Blank Gameweek %d detected. Perfect opportunity for Free Hit.", blanks[0])
		return rec
	}
	if gw, ok := FixtureSwingGameweek(s.upcoming, in.Fixtures, in.Starting); ok {
		rec.Priority = PriorityMedium
		rec.RecommendedGameweek = gwPtr(gw)
		rec.Reason = fmt.Sprintf("GW%d has significant fixture difficulty. Consider Free Hit.", gw)
		return rec
	}
	if s.late() {
		rec.Priority = PriorityMedium
		rec.Reason = fmt.Sprintf("%d GWs remaining. Look for upcoming DGW/BGW to maximize value.", s.remaining)
		return rec
	}
	rec.Priority = PriorityLow
	rec.Reason = "No immediate need. Save for blank gameweeks or emergency situations."
	return rec
}

func benchBoost(in Input, s season) Recommendation {
	rec, ok := single(in, s, BenchBoost)
	if !ok {
		return rec
	}
	benchForm := 0.0
	if len(in.Bench) > 0 {
		for _, p := range in.Bench {
			benchForm += p.Form
		}
		benchForm /= float64(len(in.Bench))
	}

	squad := append(append([]enrich.Player{}, in.Starting...), in.Bench...)
	dgw, hasDGW := DoubleGameweek(s.upcoming, in.Fixtures, squad)

	switch {
	case hasDGW && benchForm > 3:
		rec.Priority = PriorityHigh
		rec.RecommendedGameweek = gwPtr(dgw)
		rec.Reason = fmt.Sprintf("Double Gameweek %d with decent bench (%.1f avg form). Ideal for Bench Boost.", dgw, benchForm)
	case benchForm > 4:
		rec.Priority = PriorityMedium
		rec.RecommendedGameweek = gwPtr(s.current)
		rec.Reason = fmt.Sprintf("Strong bench with %.1f average form. Good opportunity.", benchForm)
	case s.late():
		rec.Priority = PriorityMedium
		rec.Reason = fmt.Sprintf("%d GWs remaining. Look for DGW to use with a strong bench.", s.remaining)
	default:
		rec.Priority = PriorityLow
		rec.Reason = fmt.Sprintf("Bench quality is low (%.1f avg form). Improve bench before using.", benchForm)
	}
	return rec
}

func tripleCaptain(in Input, s season) Recommendation {
	rec, ok := single(in, s, TripleCaptain)
	if !ok {
		return rec
	}
	best, found := BestTripleCaptain(in.Starting, s.current)
	switch {
	case !found:
		rec.Priority = PriorityLow
		rec.Reason = "No premium captaincy options identified."
	case best.Score > 15:
		rec.Priority = PriorityHigh
		rec.RecommendedGameweek = gwPtr(best.Gameweek)
		rec.Reason = fmt.Sprintf("%s in GW%d - excellent fixtures and form (%.1f).", best.Player.Name, best.Gameweek, best.Player.Form)
	case best.Score > 10:
		rec.Priority = PriorityMedium
		rec.RecommendedGameweek = gwPtr(best.Gameweek)
		rec.Reason = fmt.Sprintf("%s in GW%d could be a good option.", best.Player.Name, best.Gameweek)
	case s.late():
		rec.Priority = PriorityMedium
		rec.Reason = fmt.Sprintf("%d GWs remaining. Look for DGW to maximize value.", s.remaining)
	default:
		rec.Priority = PriorityLow
		rec.Reason = "No standout TC opportunity. Wait for better fixtures or double gameweek."
	}
	return rec
}

func squadTeams(players []enrich.Player) []int {
	seen := map[int]bool{}
	var out []int
	for _, p := range players {
		if !seen[p.TeamID] {
			seen[p.TeamID] = true
			out = append(out, p.TeamID)
		}
	}
	return out
}

func fixturesIn(fixtures []fpl.Fixture, gw int) []fpl.Fixture {
	var out []fpl.Fixture
	for _, f := range fixtures {
		if g, ok := f.GW(); ok && g == gw {
			out = append(out, f)
		}
	}
	return out
}

// BlankGameweeks returns the gameweeks in which at least three of the
// players' teams have no fixture.
func BlankGameweeks(gameweeks []fpl.Gameweek, fixtures []fpl.Fixture, players []enrich.Player) []int {
	teams := squadTeams(players)
	var out []int
	for _, gw := range gameweeks {
		playing := map[int]bool{}
		for _, f := range fixturesIn(fixtures, gw.ID) {
			playing[f.TeamH] = true
			playing[f.TeamA] = true
		}
		blanks := 0
		for _, id := range teams {
			if !playing[id] {
				blanks++
			}
		}
		if blanks >= 3 {
			out = append(out, gw.ID)
		}
	}
	return out
}

// FixtureSwingGameweek returns the first gameweek where the players' average
// difficulty reaches 4.
func FixtureSwingGameweek(gameweeks []fpl.Gameweek, fixtures []fpl.Fixture, players []enrich.Player) (int, bool) {
	for _, gw := range gameweeks {
		gwFixtures := fixturesIn(fixtures, gw.ID)
		total, count := 0, 0
		for _, p := range players {
			for _, f := range gwFixtures {
				if !f.Involves(p.TeamID) {
					continue
				}
				if f.TeamH == p.TeamID {
					total += f.TeamHDifficulty
				} else {
					total += f.TeamADifficulty
				}
				count++
				break
			}
		}
		avg := enrich.NeutralDifficulty
		if count > 0 {
			avg = float64(total) / float64(count)
		}
		if avg >= 4 {
			return gw.ID, true
		}
	}
	return 0, false
}

// DoubleGameweek returns the first gameweek in which any of the players'
// teams has two or more fixtures.
func DoubleGameweek(gameweeks []fpl.Gameweek, fixtures []fpl.Fixture, players []enrich.Player) (int, bool) {
	teams := squadTeams(players)
	for _, gw := range gameweeks {
		count := map[int]int{}
		for _, f := range fixturesIn(fixtures, gw.ID) {
			count[f.TeamH]++
			count[f.TeamA]++
		}
		for _, id := range teams {
			if count[id] >= 2 {
				return gw.ID, true
			}
		}
	}
	return 0, false
}

type TripleCaptainPick struct {
	Player   enrich.Player
	Gameweek int
	Score    float64
}

// BestTripleCaptain searches premium attacking starters over the scan window
// for the highest scoring gameweek. Ties keep the earliest find.
func BestTripleCaptain(starting []enrich.Player, currentGW int) (TripleCaptainPick, bool) {
	var best TripleCaptainPick
	found := false
	for _, p := range starting {
		if !p.Position.Attacking() || p.Price < 90 || p.Form < 4 {
			continue
		}
		for gw := currentGW; gw < currentGW+scanWindow; gw++ {
			fx := p.FixturesIn(gw)
			if len(fx) == 0 {
				continue
			}
			score := p.Form*2 + p.PointsPerGame*1.5
			for _, f := range fx {
				score += float64(5-f.Difficulty) * 2
				if f.IsHome {
					score++
				}
			}
			if len(fx) >= 2 {
				score += 5
			}
			if score > best.Score {
				best = TripleCaptainPick{Player: p, Gameweek: gw, Score: score}
				found = true
			}
		}
	}
	return best, found
}
