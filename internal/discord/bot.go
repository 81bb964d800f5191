// Package discord is the platform-chat transport: a gateway session for
// inbound channel messages and a webhook for outbound delivery under
// per-message display identities.
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ChickenIQ/GuildLink/internal/bridge"
)

type Config struct {
	Token      string
	GuildID    string
	ChannelID  string
	WebhookURL string
}

type Bot struct {
	session   *discordgo.Session
	guildID   string
	channelID string

	webhookID    string
	webhookToken string

	log     *zap.Logger
	handler func(msg bridge.PlatformMessage)
}

func New(cfg Config, log *zap.Logger) (*Bot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	id, token, err := parseWebhookURL(cfg.WebhookURL)
	if err != nil {
		return nil, err
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Bot{
		session:      session,
		guildID:      cfg.GuildID,
		channelID:    cfg.ChannelID,
		webhookID:    id,
		webhookToken: token,
		log:          log,
	}, nil
}

// parseWebhookURL splits .../api/webhooks/{id}/{token}.
func parseWebhookURL(raw string) (id, token string, err error) {
	parts := strings.Split(strings.TrimRight(strings.TrimSpace(raw), "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("malformed webhook URL")
	}
	id = parts[len(parts)-2]
	token = parts[len(parts)-1]
	if id == "" || token == "" {
		return "", "", fmt.Errorf("malformed webhook URL")
	}
	return id, token, nil
}

// OnMessage sets the inbound handler. Must be called before Start.
func (b *Bot) OnMessage(fn func(msg bridge.PlatformMessage)) {
	b.handler = fn
}

func (b *Bot) Start() error {
	b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Ready) {
		b.log.Info("discord session ready")
	})
	b.session.AddHandler(b.onMessageCreate)
	return b.session.Open()
}

func (b *Bot) Close() error { return b.session.Close() }

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.ChannelID != b.channelID || m.Author == nil || m.Author.Bot {
		return
	}
	if b.handler == nil {
		return
	}

	msg := bridge.PlatformMessage{
		Author:  messageAuthorName(m.Member, m.Author),
		Content: b.renderMentions(m),
	}
	if ref := m.MessageReference; ref != nil && ref.MessageID != "" {
		msg.ReplyToAuthor = b.referencedAuthorName(ref)
	}

	// handlers suspend on upstream calls; never block the gateway loop
	go b.handler(msg)
}

// renderMentions rewrites raw mention tokens into readable @names before the
// bridge strips whatever is left.
func (b *Bot) renderMentions(m *discordgo.MessageCreate) string {
	content := m.Content
	for _, u := range m.Mentions {
		if u == nil {
			continue
		}
		name := b.memberDisplayName(u)
		content = strings.ReplaceAll(content, "<@"+u.ID+">", "@"+name)
		content = strings.ReplaceAll(content, "<@!"+u.ID+">", "@"+name)
	}
	return content
}

func (b *Bot) memberDisplayName(u *discordgo.User) string {
	if member, err := b.session.State.Member(b.guildID, u.ID); err == nil && member != nil && member.Nick != "" {
		return member.Nick
	}
	if member, err := b.session.GuildMember(b.guildID, u.ID); err == nil && member.Nick != "" {
		return member.Nick
	}
	return userDisplayName(u)
}

func (b *Bot) referencedAuthorName(ref *discordgo.MessageReference) string {
	channelID := ref.ChannelID
	if channelID == "" {
		channelID = b.channelID
	}
	msg, err := b.session.ChannelMessage(channelID, ref.MessageID)
	if err != nil || msg == nil || msg.Author == nil {
		return ""
	}
	return messageAuthorName(msg.Member, msg.Author)
}

func messageAuthorName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	return userDisplayName(user)
}

func userDisplayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// SendAsUser forwards a game-side message through the webhook. The display
// identity prefers the matching guild member's nickname and avatar and falls
// back to the raw game name with a head-render avatar.
func (b *Bot) SendAsUser(_ context.Context, author, content string) error {
	content = strings.TrimSpace(bridge.StripMentions(content))
	if content == "" {
		return nil
	}

	username := author
	avatarURL := "https://mc-heads.net/avatar/" + author + "/128"
	if member := b.findMemberByUsername(author); member != nil {
		username = memberDisplayName(member)
		avatarURL = member.User.AvatarURL("128")
	}

	_, err := b.session.WebhookExecute(b.webhookID, b.webhookToken, false, &discordgo.WebhookParams{
		Username:        username,
		AvatarURL:       avatarURL,
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	})
	return err
}

// SendNotice posts under the webhook's own configured identity.
func (b *Bot) SendNotice(_ context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	_, err := b.session.WebhookExecute(b.webhookID, b.webhookToken, false, &discordgo.WebhookParams{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	})
	return err
}

func memberDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	return userDisplayName(member.User)
}

func (b *Bot) findMemberByUsername(username string) *discordgo.Member {
	after := ""
	for {
		members, err := b.session.GuildMembers(b.guildID, after, 1000)
		if err != nil || len(members) == 0 {
			return nil
		}
		for _, member := range members {
			if member.User != nil && strings.EqualFold(member.User.Username, username) {
				return member
			}
		}
		after = members[len(members)-1].User.ID
		if len(members) < 1000 {
			return nil
		}
	}
}
