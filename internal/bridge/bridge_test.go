package bridge

import (
	"context"
	"sync"
	"testing"

	"github.com/ChickenIQ/GuildLink/internal/command"
)

type fakeConn struct {
	id       string
	username string

	mu   sync.Mutex
	sent []string
}

func (f *fakeConn) ID() string       { return f.id }
func (f *fakeConn) Username() string { return f.username }

func (f *fakeConn) SendCommand(_ context.Context, cmd string) error {
	f.mu.Lock()
	f.sent = append(f.sent, cmd)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type forwarded struct{ author, content string }

type fakePlatform struct {
	mu      sync.Mutex
	asUser  []forwarded
	notices []string
}

func (f *fakePlatform) SendAsUser(_ context.Context, author, content string) error {
	f.mu.Lock()
	f.asUser = append(f.asUser, forwarded{author, content})
	f.mu.Unlock()
	return nil
}

func (f *fakePlatform) SendNotice(_ context.Context, content string) error {
	f.mu.Lock()
	f.notices = append(f.notices, content)
	f.mu.Unlock()
	return nil
}

func newTestBridge(t *testing.T, conns ...*fakeConn) (*Bridge, *fakePlatform, *command.Router) {
	t.Helper()
	router := command.NewRouter("!", nil)
	platform := &fakePlatform{}
	b := New(router, platform, nil)
	for _, c := range conns {
		b.AttachGame(c)
	}
	return b, platform, router
}

func TestGameLineFanout(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	c2 := &fakeConn{id: "2", username: "BotTwo"}
	c3 := &fakeConn{id: "3", username: "BotThree"}
	b, platform, _ := newTestBridge(t, c1, c2, c3)

	b.HandleGameLine(context.Background(), c1, "Guild > [MVP+] Alice: hello world")

	if got := c1.commands(); len(got) != 0 {
		t.Fatalf("source connection must not receive its own fanout: %v", got)
	}
	want := "/gc Alice: hello world"
	for _, c := range []*fakeConn{c2, c3} {
		got := c.commands()
		if len(got) != 1 || got[0] != want {
			t.Fatalf("conn %s got %v, want [%q]", c.id, got, want)
		}
	}
	if len(platform.asUser) != 1 || platform.asUser[0] != (forwarded{"Alice", "hello world"}) {
		t.Fatalf("platform forward = %v", platform.asUser)
	}
}

func TestGameLineSelfEchoSuppressed(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	c2 := &fakeConn{id: "2", username: "BotTwo"}
	b, platform, _ := newTestBridge(t, c1, c2)

	b.HandleGameLine(context.Background(), c1, "Guild > BotOne: relayed text")
	// a sibling bot's relay arriving on this connection is an echo too
	b.HandleGameLine(context.Background(), c1, "Guild > BotTwo: relayed text")

	if len(c2.commands()) != 0 || len(platform.asUser) != 0 {
		t.Fatalf("echo lines must not be forwarded: conns=%v platform=%v", c2.commands(), platform.asUser)
	}
}

func TestGameLineNonGuildDiscarded(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	c2 := &fakeConn{id: "2", username: "BotTwo"}
	b, platform, _ := newTestBridge(t, c1, c2)

	b.HandleGameLine(context.Background(), c1, "[System] Server restarting")

	if len(c2.commands()) != 0 || len(platform.asUser) != 0 {
		t.Fatalf("non-guild lines must be dropped")
	}
}

func TestGameCommandRepliesOnSameConnection(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	c2 := &fakeConn{id: "2", username: "BotTwo"}
	b, platform, router := newTestBridge(t, c1, c2)
	_ = router.Register(func(_ context.Context, invoker string, _ []string) (string, error) {
		return "pong " + invoker, nil
	}, "ping")

	b.HandleGameLine(context.Background(), c1, "Guild > Alice: !ping")

	got := c1.commands()
	if len(got) != 1 || got[0] != "/gc BotOne: pong Alice" {
		t.Fatalf("command reply = %v", got)
	}
	if len(c2.commands()) != 0 || len(platform.asUser) != 0 {
		t.Fatalf("command must not be relayed as chat")
	}
}

func TestPlatformMessageFanout(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	c2 := &fakeConn{id: "2", username: "BotTwo"}
	b, _, _ := newTestBridge(t, c1, c2)

	b.HandlePlatformMessage(context.Background(), PlatformMessage{Author: "Dave", Content: "hi @everyone\nsecond line"})

	want := "/gc Dave: hi  second line"
	for _, c := range []*fakeConn{c1, c2} {
		got := c.commands()
		if len(got) != 1 || got[0] != want {
			t.Fatalf("conn %s got %v, want [%q]", c.id, got, want)
		}
	}
}

func TestPlatformMessageReplyContext(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	b, _, _ := newTestBridge(t, c1)

	b.HandlePlatformMessage(context.Background(), PlatformMessage{
		Author:        "Dave",
		Content:       "agreed",
		ReplyToAuthor: "Alice",
	})

	got := c1.commands()
	if len(got) != 1 || got[0] != "/gc Alice➡Dave: agreed" {
		t.Fatalf("reply-context forward = %v", got)
	}
}

func TestPlatformMessageEmptyAfterSanitize(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	b, _, _ := newTestBridge(t, c1)

	b.HandlePlatformMessage(context.Background(), PlatformMessage{Author: "Dave", Content: "@everyone @here"})

	if len(c1.commands()) != 0 {
		t.Fatalf("empty-after-sanitization message must be dropped, got %v", c1.commands())
	}
}

func TestPlatformCommandRepliesAsNotice(t *testing.T) {
	c1 := &fakeConn{id: "1", username: "BotOne"}
	b, platform, router := newTestBridge(t, c1)
	_ = router.Register(func(_ context.Context, _ string, _ []string) (string, error) {
		return "pong", nil
	}, "ping")

	b.HandlePlatformMessage(context.Background(), PlatformMessage{Author: "Dave", Content: "!ping"})

	if len(platform.notices) != 1 || platform.notices[0] != "pong" {
		t.Fatalf("notices = %v", platform.notices)
	}
	if len(c1.commands()) != 0 {
		t.Fatalf("platform command must not be relayed to game chat")
	}
}
