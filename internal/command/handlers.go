package command

import (
	"context"

	"github.com/ChickenIQ/GuildLink/internal/domain"
	"github.com/ChickenIQ/GuildLink/internal/hypixel"
	"github.com/ChickenIQ/GuildLink/internal/msgcat"
)

// StatsProvider is the slice of the stats gateway the handlers consume.
type StatsProvider interface {
	Networth(ctx context.Context, playerID string) (float64, error)
	OverallLevel(ctx context.Context, playerID string) (float64, error)
	DungeonStats(ctx context.Context, playerID string) (*hypixel.DungeonStats, error)
	Stats(ctx context.Context, playerID string) (*hypixel.SkyBlockStats, error)
	DiscordHandle(ctx context.Context, playerID string) (string, error)
}

// IdentityResolver maps a chat name to a player identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, name string) (domain.PlayerIdentity, error)
}

// Deps wires the stats commands. Check* are the guild requirement gate.
type Deps struct {
	Stats    StatsProvider
	Identity IdentityResolver
	Messages *msgcat.Catalog

	CheckMinLevel     float64
	CheckMinCatacombs float64
	CheckMinNetworth  float64
}

// RegisterStats installs the full command table on the router.
func RegisterStats(r *Router, d Deps) error {
	type entry struct {
		handler Handler
		aliases []string
	}
	for _, e := range []entry{
		{d.networthCmd, []string{"nw", "networth"}},
		{d.catacombsCmd, []string{"cata", "catacombs"}},
		{d.levelCmd, []string{"lvl", "level"}},
		{d.checkCmd, []string{"check", "gcheck"}},
		{d.statsCmd, []string{"stats", "stat"}},
		{d.discordCmd, []string{"discord", "dc"}},
		{d.helpCmd, []string{"help", "commands"}},
	} {
		if err := r.Register(e.handler, e.aliases...); err != nil {
			return err
		}
	}
	return nil
}

// target resolves the player a command is about: args[0] when given,
// otherwise the invoker's own name.
func (d Deps) target(ctx context.Context, invoker string, args []string) (domain.PlayerIdentity, error) {
	name := invoker
	if len(args) > 0 && args[0] != "" {
		name = args[0]
	}
	return d.Identity.Resolve(ctx, name)
}

func (d Deps) networthCmd(ctx context.Context, invoker string, args []string) (string, error) {
	id, err := d.target(ctx, invoker, args)
	if err != nil {
		return "", err
	}
	nw, err := d.Stats.Networth(ctx, id.PlayerID)
	if err != nil {
		return "", err
	}
	return d.Messages.Render("commands.networth", map[string]any{
		"Name":     id.DisplayName,
		"Networth": FormatNumber(nw),
	})
}

func (d Deps) catacombsCmd(ctx context.Context, invoker string, args []string) (string, error) {
	id, err := d.target(ctx, invoker, args)
	if err != nil {
		return "", err
	}
	ds, err := d.Stats.DungeonStats(ctx, id.PlayerID)
	if err != nil {
		return "", err
	}
	return d.Messages.Render("commands.catacombs", map[string]any{
		"Name":               id.DisplayName,
		"CataLevel":          FormatLevel(ds.CatacombsLevel),
		"SelectedClass":      ds.SelectedClass,
		"SelectedClassLevel": FormatLevel(ds.SelectedClassLevel),
		"ClassAverage":       FormatLevel(ds.ClassAverage),
		"PB":                 FormatPB(ds.MasterSeven.BestTime),
		"Completions":        ds.MasterSeven.Completions,
	})
}

func (d Deps) levelCmd(ctx context.Context, invoker string, args []string) (string, error) {
	id, err := d.target(ctx, invoker, args)
	if err != nil {
		return "", err
	}
	lvl, err := d.Stats.OverallLevel(ctx, id.PlayerID)
	if err != nil {
		return "", err
	}
	return d.Messages.Render("commands.level", map[string]any{
		"Name":  id.DisplayName,
		"Level": FormatLevel(lvl),
	})
}

func (d Deps) checkCmd(ctx context.Context, invoker string, args []string) (string, error) {
	id, err := d.target(ctx, invoker, args)
	if err != nil {
		return "", err
	}
	st, err := d.Stats.Stats(ctx, id.PlayerID)
	if err != nil {
		return "", err
	}
	summary, err := d.Messages.Render("commands.check_summary", map[string]any{
		"Level":     FormatLevel(st.OverallLevel),
		"CataLevel": FormatLevel(st.Dungeons.CatacombsLevel),
		"Networth":  FormatNumber(st.Networth),
	})
	if err != nil {
		return "", err
	}

	key := "commands.check_fail"
	if st.OverallLevel >= d.CheckMinLevel ||
		st.Dungeons.CatacombsLevel >= d.CheckMinCatacombs ||
		st.Networth >= d.CheckMinNetworth {
		key = "commands.check_pass"
	}
	return d.Messages.Render(key, map[string]any{
		"Name":    id.DisplayName,
		"Summary": summary,
	})
}

func (d Deps) statsCmd(ctx context.Context, invoker string, args []string) (string, error) {
	id, err := d.target(ctx, invoker, args)
	if err != nil {
		return "", err
	}
	st, err := d.Stats.Stats(ctx, id.PlayerID)
	if err != nil {
		return "", err
	}
	return d.Messages.Render("commands.stats", map[string]any{
		"Name":         id.DisplayName,
		"Level":        FormatLevel(st.OverallLevel),
		"Networth":     FormatNumber(st.Networth),
		"CataLevel":    FormatLevel(st.Dungeons.CatacombsLevel),
		"ClassAverage": FormatLevel(st.Dungeons.ClassAverage),
		"PB":           FormatPB(st.Dungeons.MasterSeven.BestTime),
		"Completions":  st.Dungeons.MasterSeven.Completions,
	})
}

func (d Deps) discordCmd(ctx context.Context, invoker string, args []string) (string, error) {
	id, err := d.target(ctx, invoker, args)
	if err != nil {
		return "", err
	}
	handle, err := d.Stats.DiscordHandle(ctx, id.PlayerID)
	if err != nil {
		return "", err
	}
	return d.Messages.Render("commands.discord", map[string]any{
		"Name":   id.DisplayName,
		"Handle": handle,
	})
}

func (d Deps) helpCmd(_ context.Context, _ string, _ []string) (string, error) {
	return d.Messages.Render("commands.help", nil)
}
