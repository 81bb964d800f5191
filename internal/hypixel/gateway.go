// Package hypixel assembles derived player statistics from the upstream
// stats API: active-profile selection, dungeon level derivation and the
// inputs for networth appraisal.
package hypixel

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ChickenIQ/GuildLink/internal/fault"
	"github.com/ChickenIQ/GuildLink/internal/leveling"
)

// NetworthCalculator appraises a member's assets. The gateway only assembles
// profile-consistent inputs; the valuation arithmetic lives elsewhere.
type NetworthCalculator interface {
	Networth(ctx context.Context, member, museum json.RawMessage, bankBalance float64) (float64, error)
}

type Gateway struct {
	fetch    Fetcher
	networth NetworthCalculator
	log      *zap.Logger
}

func NewGateway(fetch Fetcher, networth NetworthCalculator, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{fetch: fetch, networth: networth, log: log}
}

// profile returns the currently active save profile for a player.
func (g *Gateway) profile(ctx context.Context, playerID string) (*Profile, error) {
	var resp profilesResponse
	if err := g.fetch.FetchJSON(ctx, "/skyblock/profiles?uuid="+playerID, &resp); err != nil {
		return nil, err
	}
	for _, p := range resp.Profiles {
		if p != nil && p.Selected {
			return p, nil
		}
	}
	return nil, fault.NotFound("no active profile for %s", playerID)
}

func (g *Gateway) museum(ctx context.Context, profileID string) (*museumResponse, error) {
	var resp museumResponse
	if err := g.fetch.FetchJSON(ctx, "/skyblock/museum?profile="+profileID, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// member parses the gateway-relevant fields out of a profile member.
func (g *Gateway) member(p *Profile, playerID string) (json.RawMessage, *Member, error) {
	raw, ok := p.Members[playerID]
	if !ok {
		return nil, nil, fault.DataIntegrity("profile %s has no member %s", p.ProfileID, playerID)
	}
	var m Member
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fault.DataIntegrity("profile %s: malformed member %s", p.ProfileID, playerID)
	}
	return raw, &m, nil
}

// OverallLevel is experience/100. The overall tier does not use the dungeon
// experience curve.
func (g *Gateway) OverallLevel(ctx context.Context, playerID string) (float64, error) {
	p, err := g.profile(ctx, playerID)
	if err != nil {
		return 0, err
	}
	_, m, err := g.member(p, playerID)
	if err != nil {
		return 0, err
	}
	if m.Leveling == nil {
		return 0, fault.DataIntegrity("no leveling data for %s", playerID)
	}
	return m.Leveling.Experience / 100, nil
}

func (g *Gateway) CatacombsLevel(ctx context.Context, playerID string) (float64, error) {
	p, err := g.profile(ctx, playerID)
	if err != nil {
		return 0, err
	}
	_, m, err := g.member(p, playerID)
	if err != nil {
		return 0, err
	}
	return dungeonStatsOf(m).CatacombsLevel, nil
}

func (g *Gateway) DungeonStats(ctx context.Context, playerID string) (*DungeonStats, error) {
	p, err := g.profile(ctx, playerID)
	if err != nil {
		return nil, err
	}
	_, m, err := g.member(p, playerID)
	if err != nil {
		return nil, err
	}
	ds := dungeonStatsOf(m)
	return &ds, nil
}

func (g *Gateway) Networth(ctx context.Context, playerID string) (float64, error) {
	p, err := g.profile(ctx, playerID)
	if err != nil {
		return 0, err
	}
	rawMember, _, err := g.member(p, playerID)
	if err != nil {
		return 0, err
	}
	mus, err := g.museum(ctx, p.ProfileID)
	if err != nil {
		return 0, err
	}

	var bank float64
	if p.Banking != nil {
		bank = p.Banking.Balance
	}
	nw, err := g.networth.Networth(ctx, rawMember, mus.Museum.Members[playerID], bank)
	if err != nil {
		return 0, fault.Computation(err, "networth for %s", playerID)
	}
	return nw, nil
}

// DiscordHandle returns the Discord name linked on the player's profile.
func (g *Gateway) DiscordHandle(ctx context.Context, playerID string) (string, error) {
	var resp playerResponse
	if err := g.fetch.FetchJSON(ctx, "/player?uuid="+playerID, &resp); err != nil {
		return "", err
	}
	if resp.Player == nil || resp.Player.SocialMedia == nil {
		return "", fault.NotFound("no linked Discord for %s", playerID)
	}
	handle, ok := resp.Player.SocialMedia.Links["DISCORD"]
	if !ok || handle == "" {
		return "", fault.NotFound("no linked Discord for %s", playerID)
	}
	return handle, nil
}

// Stats composes the full aggregate from one profile fetch plus the museum
// call. The URL cache absorbs the repeat fetches the independent accessors
// would otherwise issue.
func (g *Gateway) Stats(ctx context.Context, playerID string) (*SkyBlockStats, error) {
	p, err := g.profile(ctx, playerID)
	if err != nil {
		return nil, err
	}
	rawMember, m, err := g.member(p, playerID)
	if err != nil {
		return nil, err
	}
	if m.Leveling == nil {
		return nil, fault.DataIntegrity("no leveling data for %s", playerID)
	}

	mus, err := g.museum(ctx, p.ProfileID)
	if err != nil {
		return nil, err
	}
	var bank float64
	if p.Banking != nil {
		bank = p.Banking.Balance
	}
	nw, err := g.networth.Networth(ctx, rawMember, mus.Museum.Members[playerID], bank)
	if err != nil {
		return nil, fault.Computation(err, "networth for %s", playerID)
	}

	return &SkyBlockStats{
		OverallLevel: m.Leveling.Experience / 100,
		Dungeons:     dungeonStatsOf(m),
		Networth:     nw,
	}, nil
}

// dungeonStatsOf derives every dungeon figure from raw experience counters.
// Absent counters count as zero experience, not as errors.
func dungeonStatsOf(m *Member) DungeonStats {
	ds := DungeonStats{
		ClassLevels:   make(map[string]float64, len(ClassNames)),
		SelectedClass: NoSelectedClass,
	}

	d := m.Dungeons
	if d == nil {
		d = &Dungeons{}
	}

	ds.CatacombsLevel = leveling.LevelFor(d.DungeonTypes["catacombs"].Experience)
	ds.SecretsFound = int(d.Secrets)

	var sum float64
	for _, name := range ClassNames {
		lvl := leveling.LevelFor(d.PlayerClasses[name].Experience)
		ds.ClassLevels[name] = lvl
		sum += lvl
	}
	ds.ClassAverage = round2(sum / float64(len(ClassNames)))

	if d.SelectedClass != "" {
		ds.SelectedClass = d.SelectedClass
		ds.SelectedClassLevel = ds.ClassLevels[d.SelectedClass]
	}

	master := d.DungeonTypes["master_catacombs"]
	ds.MasterSeven.Completions = int(master.TierCompletions["7"])
	if ms, ok := master.FastestTimeSPlus["7"]; ok && ms > 0 {
		pb := time.Duration(ms) * time.Millisecond
		ds.MasterSeven.BestTime = &pb
	}

	return ds
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
