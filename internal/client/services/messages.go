package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/elite/internal/client/api"
	"github.com/dmitrijs2005/elite/internal/client/models"
)

const (
	messagesPath      = "/api/messages/"
	conversationsPath = "/api/messages/conversations/"
	threadPath        = "/api/messages/with_user/"
	userSearchPath    = "/api/users/search/"

	MaxMessageLength = 500
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageLength)
	ErrEmptyQuery     = errors.New("search query is empty")
)

// MessageService is the one-to-one chat. Reading a thread marks the
// incoming messages as read on the server.
type MessageService interface {
	Conversations(ctx context.Context) ([]models.UserSummary, error)
	Thread(ctx context.Context, userID int64) ([]models.ChatMessage, error)
	Send(ctx context.Context, recipient int64, text string) (models.ChatMessage, error)
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)
}

type messageService struct {
	doer Doer
}

func NewMessageService(doer Doer) MessageService {
	return &messageService{doer: doer}
}

func (s *messageService) Conversations(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := get(ctx, s.doer, conversationsPath, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *messageService) Thread(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidID, userID)
	}

	var msgs []models.ChatMessage
	err := s.doer.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   threadPath,
		Query:  url.Values{"user_id": {strconv.FormatInt(userID, 10)}},
	}, &msgs)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Send trims text and rejects it locally when empty or longer than
// MaxMessageLength characters.
func (s *messageService) Send(ctx context.Context, recipient int64, text string) (models.ChatMessage, error) {
	if recipient <= 0 {
		return models.ChatMessage{}, fmt.Errorf("%w: %d", ErrInvalidID, recipient)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return models.ChatMessage{}, ErrMessageTooLong
	}

	var sent models.ChatMessage
	if err := post(ctx, s.doer, messagesPath, models.OutgoingMessage{Recipient: recipient, Message: text}, &sent); err != nil {
		return models.ChatMessage{}, err
	}
	return sent, nil
}

func (s *messageService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var users []models.UserSummary
	err := s.doer.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   userSearchPath,
		Query:  url.Values{"q": {query}},
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}
