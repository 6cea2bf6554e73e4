package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/connections"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
)

type notification struct {
	userID uuid.UUID
	event  models.EventType
	msg    models.Message
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event models.EventType, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	msg, _ := payload.(models.Message)
	n.events = append(n.events, notification{userID: userID, event: event, msg: msg})
}

type fixture struct {
	service  *Service
	ledger   *ledger.Ledger
	notifier *recordingNotifier
	alice    uuid.UUID
	bob      uuid.UUID
	carol    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	profiles := profile.NewMemoryStore()

	create := func(name string) uuid.UUID {
		p, err := profiles.Create(ctx, models.UserProfile{
			DisplayName:   name,
			SkillsOffered: []string{"Guitar"},
			SkillsWanted:  []string{"Guitar"},
		})
		require.NoError(t, err)
		return p.ID
	}

	l := ledger.New(ledger.NewMemoryRepository(), profiles)
	n := &recordingNotifier{}
	return &fixture{
		service:  NewService(NewMemoryStore(), connections.NewDeriver(l), n),
		ledger:   l,
		notifier: n,
		alice:    create("Alice"),
		bob:      create("Bob"),
		carol:    create("Carol"),
	}
}

func (f *fixture) connect(t *testing.T, a, b uuid.UUID) *models.SwapRequest {
	t.Helper()
	ctx := context.Background()
	req, err := f.ledger.Submit(ctx, a, b, "Guitar", "Guitar", "jam?")
	require.NoError(t, err)
	_, err = f.ledger.Accept(ctx, req.ID, b)
	require.NoError(t, err)
	return req
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("not connected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Send(ctx, f.alice, f.bob, "hi")
		assert.ErrorIs(t, err, ErrNotConnected)
		assert.Empty(t, f.notifier.events)
	})

	t.Run("pending request is not enough", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ledger.Submit(ctx, f.alice, f.bob, "Guitar", "Guitar", "jam?")
		require.NoError(t, err)

		_, err = f.service.Send(ctx, f.alice, f.bob, "hi")
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("blank text", func(t *testing.T) {
		f := newFixture(t)
		f.connect(t, f.alice, f.bob)
		_, err := f.service.Send(ctx, f.alice, f.bob, "  \n ")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("too long", func(t *testing.T) {
		f := newFixture(t)
		f.connect(t, f.alice, f.bob)
		_, err := f.service.Send(ctx, f.alice, f.bob, strings.Repeat("я", MaxMessageLength+1))
		assert.ErrorIs(t, err, ErrMessageTooLong)
	})

	t.Run("connected both ways and notifies recipient", func(t *testing.T) {
		f := newFixture(t)
		f.connect(t, f.alice, f.bob)

		msg, err := f.service.Send(ctx, f.alice, f.bob, "  hi Bob ")
		require.NoError(t, err)
		assert.Equal(t, "hi Bob", msg.Text)
		assert.Equal(t, f.alice, msg.SenderID)

		_, err = f.service.Send(ctx, f.bob, f.alice, "hi Alice")
		require.NoError(t, err)

		require.Len(t, f.notifier.events, 2)
		assert.Equal(t, f.bob, f.notifier.events[0].userID)
		assert.Equal(t, models.EventNewMessage, f.notifier.events[0].event)
		assert.Equal(t, msg.ID, f.notifier.events[0].msg.ID)
		assert.Equal(t, f.alice, f.notifier.events[1].userID)
	})

	t.Run("deleting the accepted request closes the chat", func(t *testing.T) {
		f := newFixture(t)
		req := f.connect(t, f.alice, f.bob)
		_, err := f.service.Send(ctx, f.alice, f.bob, "hi")
		require.NoError(t, err)

		_, err = f.ledger.Delete(ctx, req.ID, f.bob)
		require.NoError(t, err)

		_, err = f.service.Send(ctx, f.alice, f.bob, "still there?")
		assert.ErrorIs(t, err, ErrNotConnected)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.connect(t, f.alice, f.bob)
	f.connect(t, f.carol, f.alice)

	for i := 0; i < 5; i++ {
		from, to := f.alice, f.bob
		if i%2 == 1 {
			from, to = to, from
		}
		_, err := f.service.Send(ctx, from, to, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}
	_, err := f.service.Send(ctx, f.carol, f.alice, "other chat")
	require.NoError(t, err)

	msgs, err := f.service.History(ctx, f.bob, f.alice, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg %d", i), m.Text)
	}

	last, err := f.service.History(ctx, f.alice, f.bob, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "msg 3", last[0].Text)
	assert.Equal(t, "msg 4", last[1].Text)

	_, err = f.service.History(ctx, f.bob, f.carol, 0)
	assert.ErrorIs(t, err, ErrNotConnected)

	empty := newFixture(t)
	empty.connect(t, empty.alice, empty.bob)
	none, err := empty.service.History(ctx, empty.alice, empty.bob, 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
