// Package bridge relays chat between the game-side guild channel and the
// platform channel, and feeds command-shaped lines to the router.
package bridge

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ChickenIQ/GuildLink/internal/command"
)

// GameConnection is one live game-chat connection.
type GameConnection interface {
	ID() string
	Username() string
	SendCommand(ctx context.Context, cmd string) error
}

// PlatformSender delivers messages to the platform channel. SendAsUser posts
// under a per-message display identity; SendNotice posts as the bridge
// itself (command replies).
type PlatformSender interface {
	SendAsUser(ctx context.Context, author, content string) error
	SendNotice(ctx context.Context, content string) error
}

// PlatformMessage is one sanitized inbound platform event. ReplyToAuthor is
// set when the message replied to an earlier one.
type PlatformMessage struct {
	Author        string
	Content       string
	ReplyToAuthor string
}

type Bridge struct {
	log      *zap.Logger
	router   *command.Router
	platform PlatformSender

	mu    sync.RWMutex
	conns []GameConnection
	names map[string]struct{} // connected bot identities, lowercased
}

func New(router *command.Router, platform PlatformSender, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{
		log:      log,
		router:   router,
		platform: platform,
		names:    make(map[string]struct{}),
	}
}

// AttachGame registers a game connection for relaying and echo suppression.
func (b *Bridge) AttachGame(conn GameConnection) {
	b.mu.Lock()
	b.conns = append(b.conns, conn)
	b.names[strings.ToLower(conn.Username())] = struct{}{}
	b.mu.Unlock()
}

func (b *Bridge) isOwnIdentity(author string) bool {
	b.mu.RLock()
	_, ok := b.names[strings.ToLower(author)]
	b.mu.RUnlock()
	return ok
}

// HandleGameLine processes one raw chat line from a game connection:
// classify, suppress echoes, then either dispatch a command or fan the
// message out to every other connection and the platform side.
func (b *Bridge) HandleGameLine(ctx context.Context, conn GameConnection, raw string) {
	author, content, ok := ClassifyGuildLine(raw)
	if !ok {
		return
	}
	// own lines come back on the source connection and, in multi-connection
	// deployments, on every sibling connection
	if b.isOwnIdentity(author) {
		return
	}

	if b.router.IsCommand(content) {
		b.router.Dispatch(ctx, author, content, func(ctx context.Context, text string) error {
			return b.sendToGame(ctx, conn, conn.Username(), text)
		})
		return
	}

	b.mu.RLock()
	conns := append([]GameConnection(nil), b.conns...)
	b.mu.RUnlock()

	var wg sync.WaitGroup
	for _, other := range conns {
		if other.ID() == conn.ID() {
			continue
		}
		wg.Add(1)
		go func(c GameConnection) {
			defer wg.Done()
			if err := b.sendToGame(ctx, c, author, content); err != nil {
				b.log.Warn("game fanout failed", zap.String("conn", c.ID()), zap.Error(err))
			}
		}(other)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := b.platform.SendAsUser(ctx, author, StripMentions(content)); err != nil {
			b.log.Warn("platform forward failed", zap.String("author", author), zap.Error(err))
		}
	}()
	wg.Wait()
}

// HandlePlatformMessage processes one inbound platform message: sanitize,
// rebuild the author for reply context, then dispatch or fan out to every
// game connection.
func (b *Bridge) HandlePlatformMessage(ctx context.Context, msg PlatformMessage) {
	content := strings.TrimSpace(StripMentions(msg.Content))
	if content == "" {
		return
	}

	if b.router.IsCommand(content) {
		b.router.Dispatch(ctx, msg.Author, content, func(ctx context.Context, text string) error {
			return b.platform.SendNotice(ctx, text)
		})
		return
	}

	author := msg.Author
	if msg.ReplyToAuthor != "" {
		author = msg.ReplyToAuthor + "➡" + msg.Author
	}

	b.mu.RLock()
	conns := append([]GameConnection(nil), b.conns...)
	b.mu.RUnlock()

	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(c GameConnection) {
			defer wg.Done()
			if err := b.sendToGame(ctx, c, author, content); err != nil {
				b.log.Warn("game forward failed", zap.String("conn", c.ID()), zap.Error(err))
			}
		}(conn)
	}
	wg.Wait()
}

// sendToGame wraps a message as `author: content` and ships it as a guild
// chat command. The transport enforces the hard length cap.
func (b *Bridge) sendToGame(ctx context.Context, conn GameConnection, author, content string) error {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\n", " "))
	if content == "" {
		return nil
	}
	return conn.SendCommand(ctx, "/gc "+author+": "+content)
}
