package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

func TestMessageService(t *testing.T) {
	accounts := newMemAccounts()
	messages := &memMessages{}
	svc := NewMessageService(messages, accounts, zerolog.Nop())
	ctx := context.Background()

	alice := accounts.seed(domain.Account{Email: "a@x.com", FullName: "Alice", Role: domain.RoleClient})
	bob := accounts.seed(domain.Account{Email: "b@x.com", FullName: "Bob", Role: domain.RoleContractor})
	carol := accounts.seed(domain.Account{Email: "c@x.com", FullName: "Carol", Role: domain.RoleContractor})

	msg, err := svc.Send(ctx, alice, ports.SendMessageInput{RecipientID: bob, Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.False(t, msg.Read)

	_, err = svc.Send(ctx, alice, ports.SendMessageInput{RecipientID: carol, Content: "hi carol"})
	require.NoError(t, err)

	t.Run("conversation filter", func(t *testing.T) {
		all, err := svc.List(ctx, alice, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		withBob, err := svc.List(ctx, alice, bob)
		require.NoError(t, err)
		require.Len(t, withBob, 1)
		assert.Equal(t, msg.ID, withBob[0].ID)

		forCarol, err := svc.List(ctx, carol, "")
		require.NoError(t, err)
		assert.Len(t, forCarol, 1)
	})

	t.Run("only recipient marks read", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, alice, msg.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)

		read, err := svc.MarkRead(ctx, bob, msg.ID)
		require.NoError(t, err)
		assert.True(t, read.Read)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Send(ctx, alice, ports.SendMessageInput{RecipientID: bob, Content: " "})
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Send(ctx, alice, ports.SendMessageInput{RecipientID: alice, Content: "me"})
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Send(ctx, alice, ports.SendMessageInput{RecipientID: bob, Content: strings.Repeat("x", maxMessageLength+1)})
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Send(ctx, alice, ports.SendMessageInput{RecipientID: "acc-404", Content: "anyone?"})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
