package handle_message

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teaBot/internal/domain"
	"teaBot/internal/usecase/afk"
	"teaBot/internal/usecase/commands"
	"teaBot/internal/usecase/listen"
)

type fakeOut struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeOut) SendMessage(_ context.Context, _ domain.Platform, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeOut) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fakeChannels struct {
	configs map[string]*domain.ChannelConfig
	err     error
}

func (f *fakeChannels) GetChannel(_ context.Context, channelID string) (*domain.ChannelConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.configs[channelID], nil
}

func (f *fakeChannels) SetPrefix(_ context.Context, _ string, _ *string) error { return nil }
func (f *fakeChannels) SetEmote(_ context.Context, _ string, _ *string) error  { return nil }

type fakeUsers struct {
	byName map[string]*domain.UserRecord
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*domain.UserRecord, error) {
	for _, u := range f.byName {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByName(_ context.Context, username string) (*domain.UserRecord, error) {
	return f.byName[strings.ToLower(username)], nil
}

type stubPlayback struct {
	item domain.SpotifyItem
}

func (s *stubPlayback) CurrentItem(_ context.Context, _ string) (domain.SpotifyItem, error) {
	return s.item, nil
}

func (s *stubPlayback) Mirror(_ context.Context, _ string, _ domain.SpotifyItem) error {
	return nil
}

type handlerFunc func(ctx context.Context, c *commands.Context) (string, error)

func (f handlerFunc) Handle(ctx context.Context, c *commands.Context) (string, error) {
	return f(ctx, c)
}

type fixture struct {
	registry *commands.Registry
	afk      *afk.Store
	channels *fakeChannels
	out      *fakeOut
	uc       *Interactor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		registry: commands.NewRegistry(),
		afk: afk.NewStore(map[string]afk.Templates{
			"afk": {
				GoingAway:  "{username} is now afk",
				ComingBack: "{username} is no longer afk: {message} ({duration} ago)",
				Resuming:   "{username} is afk again",
			},
		}, 10*time.Second),
		channels: &fakeChannels{configs: map[string]*domain.ChannelConfig{}},
		out:      &fakeOut{},
	}
	f.uc = NewInteractor(
		f.registry,
		commands.NewPatternBuilder(),
		f.afk,
		f.channels,
		f.out,
		zap.NewNop(),
		"!",
		500,
	)
	return f
}

func (f *fixture) register(t *testing.T, spec *commands.Spec, h commands.Handler) {
	t.Helper()
	require.NoError(t, f.registry.Register(spec, h))
}

func chat(user, text string) domain.Message {
	return domain.Message{
		Platform:  domain.PlatformTwitch,
		ChannelID: "chan1",
		UserID:    "u-" + user,
		Username:  user,
		Text:      text,
	}
}

func TestCommandResponseIsSent(t *testing.T) {
	f := newFixture(t)
	f.register(t, &commands.Spec{ID: "ping", Aliases: []string{"ping"}}, handlerFunc(
		func(_ context.Context, c *commands.Context) (string, error) {
			return c.Message.Username + ", pong!", nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!ping")))
	assert.Equal(t, []string{"alice, pong!"}, f.out.messages())
}

func TestUnmatchedTextStaysSilent(t *testing.T) {
	f := newFixture(t)
	f.register(t, &commands.Spec{ID: "ping", Aliases: []string{"ping"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return "pong", nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "just chatting")))
	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "ping without prefix")))
	assert.Empty(t, f.out.messages())
}

func TestChannelPrefixOverride(t *testing.T) {
	f := newFixture(t)
	prefix := "?"
	f.channels.configs["chan1"] = &domain.ChannelConfig{ChannelID: "chan1", Prefix: &prefix}
	f.register(t, &commands.Spec{ID: "ping", Aliases: []string{"ping"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return "pong", nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!ping")))
	assert.Empty(t, f.out.messages())

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "?ping")))
	assert.Equal(t, []string{"pong"}, f.out.messages())
}

func TestChannelLookupFailureFallsBackToDefaultPrefix(t *testing.T) {
	f := newFixture(t)
	f.channels.err = errors.New("db locked")
	f.register(t, &commands.Spec{ID: "ping", Aliases: []string{"ping"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return "pong", nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!ping")))
	assert.Equal(t, []string{"pong"}, f.out.messages())
}

func TestCommandCooldownSwallowsRepeat(t *testing.T) {
	f := newFixture(t)
	f.register(t, &commands.Spec{ID: "ping", Aliases: []string{"ping"}, Cooldown: time.Minute}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return "pong", nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!ping")))
	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!ping")))
	assert.Equal(t, []string{"pong"}, f.out.messages())

	// Cooldowns are per user, not global.
	require.NoError(t, f.uc.Handle(context.Background(), chat("carol", "!ping")))
	assert.Equal(t, []string{"pong", "pong"}, f.out.messages())
}

func TestHandlerErrorTurnsIntoApology(t *testing.T) {
	f := newFixture(t)
	f.register(t, &commands.Spec{ID: "boom", Aliases: []string{"boom"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return "", errors.New("adapter exploded")
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!boom")))
	assert.Equal(t, []string{"alice, something went wrong"}, f.out.messages())
}

func TestPanickingHandlerTurnsIntoApology(t *testing.T) {
	f := newFixture(t)
	f.register(t, &commands.Spec{ID: "boom", Aliases: []string{"boom"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			panic("nil map write")
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!boom")))
	assert.Equal(t, []string{"alice, something went wrong"}, f.out.messages())
}

func TestEmptyResponseStaysSilent(t *testing.T) {
	f := newFixture(t)
	f.register(t, &commands.Spec{ID: "quiet", Aliases: []string{"quiet"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return "", nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!quiet")))
	assert.Empty(t, f.out.messages())
}

func TestLongResponseIsChunked(t *testing.T) {
	f := newFixture(t)
	long := strings.TrimSpace(strings.Repeat("word ", 200))
	f.register(t, &commands.Spec{ID: "wall", Aliases: []string{"wall"}}, handlerFunc(
		func(_ context.Context, _ *commands.Context) (string, error) {
			return long, nil
		}))

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "!wall")))

	parts := f.out.messages()
	require.Greater(t, len(parts), 1)
	for _, part := range parts {
		assert.LessOrEqual(t, len(part), 500)
	}
	assert.Equal(t, long, strings.Join(parts, " "))
}

func TestComebackNotification(t *testing.T) {
	f := newFixture(t)
	f.afk.GoAfk("u-alice", "alice", "afk", "lunch")

	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "back now")))

	msgs := f.out.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "alice is no longer afk: lunch")
	assert.False(t, f.afk.IsAfk("u-alice"))
}

func TestComebackSuppressedByCooldownStillClearsFlag(t *testing.T) {
	f := newFixture(t)

	f.afk.GoAfk("u-alice", "alice", "afk", "lunch")
	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "back")))
	require.Len(t, f.out.messages(), 1)

	// Within the cooldown window the second notification is swallowed but
	// the flag still comes down.
	f.afk.GoAfk("u-alice", "alice", "afk", "lunch again")
	require.NoError(t, f.uc.Handle(context.Background(), chat("alice", "back again")))
	assert.Len(t, f.out.messages(), 1)
	assert.False(t, f.afk.IsAfk("u-alice"))
}

func TestListenFlow(t *testing.T) {
	f := newFixture(t)
	users := &fakeUsers{byName: map[string]*domain.UserRecord{}}
	playback := &stubPlayback{item: domain.SpotifyTrack{
		Name:    "Never Gonna Give You Up",
		Artists: []domain.SpotifyArtist{{Name: "Rick Astley"}},
		URI:     "spotify:track:4PTG3Z6ehGkBFwjybzWkR8",
	}}
	sessions := listen.NewRegistry(playback, time.Second)
	f.register(t,
		&commands.Spec{ID: "listen", Aliases: []string{"listen"}, Body: commands.BodyWord},
		commands.NewListenCommand(sessions, users))

	ctx := context.Background()

	require.NoError(t, f.uc.Handle(ctx, chat("alice", "!listen bob")))
	msgs := f.out.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice, you can't listen to other users, you have to register first", msgs[0])

	users.byName["alice"] = &domain.UserRecord{ID: "u-alice", Username: "alice", SpotifyLinked: true}
	require.NoError(t, f.uc.Handle(ctx, chat("alice", "!listen bob")))
	msgs = f.out.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice, you can't listen to bob's music, they have to register first", msgs[1])

	users.byName["bob"] = &domain.UserRecord{ID: "u-bob", Username: "bob", SpotifyLinked: true}
	require.NoError(t, f.uc.Handle(ctx, chat("alice", "!listen bob")))
	msgs = f.out.messages()
	require.Len(t, msgs, 3)
	assert.Equal(t,
		"alice, now listening along with b\U000E0000ob and playing Never Gonna Give You Up by Rick Astley || spotify:track:4PTG3Z6ehGkBFwjybzWkR8",
		msgs[2])

	host, ok := sessions.HostOf("alice")
	require.True(t, ok)
	assert.Equal(t, "bob", host)

	// A bare "!listen" has no body token, so the word grammar rejects it and
	// nothing is sent.
	require.NoError(t, f.uc.Handle(ctx, chat("alice", "!listen")))
	assert.Len(t, f.out.messages(), 3)
}
