package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fplmate/fplmate/internal/captaincy"
	"github.com/fplmate/fplmate/internal/chips"
	"github.com/fplmate/fplmate/internal/fpl"
	"github.com/fplmate/fplmate/internal/metrics"
	"github.com/fplmate/fplmate/internal/report"
	"github.com/fplmate/fplmate/internal/store"
)

type TeamArgs struct {
	TeamID int `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW     int `json:"gw,omitempty" jsonschema:"Gameweek (0 = current)"`
}

type TransferArgs struct {
	TeamID        int  `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW            int  `json:"gw,omitempty" jsonschema:"Gameweek (0 = current)"`
	FreeTransfers *int `json:"free_transfers,omitempty" jsonschema:"Free transfers available (default from server config)"`
}

type CaptaincyArgs struct {
	TeamID int    `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW     int    `json:"gw,omitempty" jsonschema:"Gameweek (0 = current)"`
	Risk   string `json:"risk,omitempty" jsonschema:"Risk level: safe|balanced|aggressive (default from server config)"`
}

type ChipTemplateArgs struct {
	TeamID int    `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW     int    `json:"gw,omitempty" jsonschema:"Gameweek the template targets (0 = current); the squad is always the latest fetched one"`
	Chip   string `json:"chip" jsonschema:"Chip: wildcard|freehit|benchboost (required)"`
	Budget int    `json:"budget,omitempty" jsonschema:"Wildcard budget in tenths of a million (default 1000)"`
}

type DifferentialArgs struct {
	TeamID       int     `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW           int     `json:"gw,omitempty" jsonschema:"Gameweek (0 = current)"`
	Position     string  `json:"position,omitempty" jsonschema:"Position: GK|DEF|MID|FWD (default MID)"`
	MaxOwnership float64 `json:"max_ownership,omitempty" jsonschema:"Ownership ceiling in percent (default 30)"`
}

type FixtureArgs struct {
	TeamID   int `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW       int `json:"gw,omitempty" jsonschema:"Gameweek (0 = current)"`
	Fixtures int `json:"fixtures,omitempty" jsonschema:"Fixtures per player (default 5)"`
}

type ReportArgs struct {
	TeamID        int    `json:"team_id" jsonschema:"FPL entry id (required)"`
	GW            int    `json:"gw,omitempty" jsonschema:"Gameweek (0 = current)"`
	Risk          string `json:"risk,omitempty" jsonschema:"Headline risk level: safe|balanced|aggressive"`
	FreeTransfers *int   `json:"free_transfers,omitempty" jsonschema:"Free transfers available"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// toolset serves every tool from the raw store. Each call loads its own
// snapshot, so calls never share state.
type toolset struct {
	store   *store.JSONStore
	opts    report.Options
	builder *report.Builder
}

func (t *toolset) team(teamID, gw int, opts report.Options) (*report.Team, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team_id is required")
	}
	snap, err := t.store.LoadSnapshot(teamID, gw)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return report.Prepare(snap, opts)
}

func (t *toolset) register(server *mcp.Server, registry *[]toolInfo, m *metrics.Metrics) {
	addTool(server, registry, m, &mcp.Tool{
		Name:        "squad_analysis",
		Description: "Strengths, weaknesses and overall rating of the starting XI",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		team, err := t.team(args.TeamID, args.GW, t.opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(team.Analysis(), "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "transfer_suggestions",
		Description: "Three transfer suggestions (form, fixtures, value) with replacement options",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TransferArgs) (*mcp.CallToolResult, any, error) {
		opts := t.opts
		if args.FreeTransfers != nil {
			opts.FreeTransfers = *args.FreeTransfers
		}
		team, err := t.team(args.TeamID, args.GW, opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		s, err := team.Transfers()
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(s, "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "captaincy",
		Description: "Ranked captain and vice-captain picks for a risk level",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CaptaincyArgs) (*mcp.CallToolResult, any, error) {
		team, err := t.team(args.TeamID, args.GW, t.opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		risk := t.opts.Risk
		if args.Risk != "" {
			risk = captaincy.ParseRisk(args.Risk)
		}
		return toolJSON(json.MarshalIndent(team.Captaincy(risk), "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "chip_strategy",
		Description: "Timing advice for each chip still available",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		team, err := t.team(args.TeamID, args.GW, t.opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(team.Chips(), "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "chip_template",
		Description: "Suggested squad for wildcard, free hit or bench boost. Built from the latest fetched picks; gw only picks the fixtures the template targets",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ChipTemplateArgs) (*mcp.CallToolResult, any, error) {
		chip, ok := chips.ParseChip(args.Chip)
		if !ok {
			return toolError(fmt.Errorf("unknown chip %q", args.Chip)), nil, nil
		}
		opts := t.opts
		opts.Budget = args.Budget
		// picks exist only for fetched gameweeks, so a future gw cannot load
		team, err := t.team(args.TeamID, 0, opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		tpl, err := team.ChipTemplate(chip, args.GW)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(tpl, "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "differentials",
		Description: "Low-ownership players worth a look at one position, plus squad ownership edges",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DifferentialArgs) (*mcp.CallToolResult, any, error) {
		opts := t.opts
		if args.Position != "" {
			pos, ok := fpl.ParsePosition(args.Position)
			if !ok {
				return toolError(fmt.Errorf("unknown position %q", args.Position)), nil, nil
			}
			opts.Position = pos
		}
		opts.MaxOwnership = args.MaxOwnership
		team, err := t.team(args.TeamID, args.GW, opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		out := map[string]any{
			"position":      team.Options.Position.Short(),
			"max_ownership": team.Options.MaxOwnership,
			"options":       team.Differentials(),
			"edges":         team.Edges(),
		}
		return toolJSON(json.MarshalIndent(out, "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "fixture_difficulty",
		Description: "Upcoming fixtures per squad player with form-adjusted difficulty",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FixtureArgs) (*mcp.CallToolResult, any, error) {
		opts := t.opts
		opts.GridFixtures = args.Fixtures
		team, err := t.team(args.TeamID, args.GW, opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(team.FixtureGrid(), "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "season_stats",
		Description: "Season records, achievements and comparisons for the manager",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
		team, err := t.team(args.TeamID, args.GW, t.opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(team.SeasonStats(), "", "  "))
	})

	addTool(server, registry, m, &mcp.Tool{
		Name:        "full_report",
		Description: "Every analysis in one report; failed sections are listed under errors",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ReportArgs) (*mcp.CallToolResult, any, error) {
		if args.TeamID <= 0 {
			return toolError(fmt.Errorf("team_id is required")), nil, nil
		}
		opts := t.opts
		if args.Risk != "" {
			opts.Risk = captaincy.ParseRisk(args.Risk)
		}
		if args.FreeTransfers != nil {
			opts.FreeTransfers = *args.FreeTransfers
		}
		snap, err := t.store.LoadSnapshot(args.TeamID, args.GW)
		if err != nil {
			return toolError(fmt.Errorf("load snapshot: %w", err)), nil, nil
		}
		r, err := t.builder.Build(snap, opts)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(json.MarshalIndent(r, "", "  "))
	})
}

// addTool registers handler and counts its outcomes.
func addTool[T any](server *mcp.Server, registry *[]toolInfo, m *metrics.Metrics, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	name := tool.Name
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		res, out, err := handler(ctx, req, args)
		m.ToolCalled(name, err != nil || (res != nil && res.IsError))
		return res, out, err
	})
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(res), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
