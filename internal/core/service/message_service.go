package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillsync/marketplace-api/internal/core/domain"
	"github.com/skillsync/marketplace-api/internal/core/ports"
)

const maxMessageLength = 5000

type MessageService struct {
	messages ports.MessageRepository
	accounts ports.AccountDirectory
	logger   zerolog.Logger
	now      func() time.Time
}

func NewMessageService(messages ports.MessageRepository, accounts ports.AccountDirectory, logger zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, accounts: accounts, logger: logger, now: time.Now}
}

// Send delivers a message to an existing account.
func (s *MessageService) Send(ctx context.Context, senderID string, in ports.SendMessageInput) (*domain.Message, error) {
	content := strings.TrimSpace(in.Content)
	switch {
	case content == "":
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	case len(content) > maxMessageLength:
		return nil, fmt.Errorf("%w: content exceeds %d characters", domain.ErrInvalidInput, maxMessageLength)
	case in.RecipientID == senderID:
		return nil, fmt.Errorf("%w: cannot message yourself", domain.ErrInvalidInput)
	}

	if _, err := s.accounts.FindByID(ctx, in.RecipientID); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	sender, err := s.accounts.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		SenderID:    senderID,
		SenderName:  sender.FullName,
		RecipientID: in.RecipientID,
		Content:     content,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// List returns the account's messages, or only the conversation with peerID when set.
func (s *MessageService) List(ctx context.Context, accountID, peerID string) ([]*domain.Message, error) {
	return s.messages.List(ctx, accountID, strings.TrimSpace(peerID), listLimit)
}

// MarkRead marks a message read; only its recipient may do so.
func (s *MessageService) MarkRead(ctx context.Context, accountID, messageID string) (*domain.Message, error) {
	return s.messages.MarkRead(ctx, messageID, accountID)
}
