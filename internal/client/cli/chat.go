package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/elite/internal/client/models"
	"github.com/dmitrijs2005/elite/internal/client/services"
)

// resolveUser accepts a numeric id or an exact username.
func (a *App) resolveUser(ctx context.Context, ref string) (models.UserSummary, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		return models.UserSummary{ID: id, Username: ref}, nil
	}

	users, err := a.messages.SearchUsers(ctx, ref)
	if err != nil {
		return models.UserSummary{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, ref) {
			return u, nil
		}
	}
	if len(users) > 0 {
		names := make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.Username)
		}
		return models.UserSummary{}, fmt.Errorf("no user %q; did you mean: %s", ref, strings.Join(names, ", "))
	}
	return models.UserSummary{}, fmt.Errorf("no user %q", ref)
}

func (a *App) printMessage(m models.ChatMessage, peer int64) {
	who := m.SenderName
	if who == "" {
		who = "you"
		if m.Sender == peer {
			who = strconv.FormatInt(peer, 10)
		}
	}
	fmt.Fprintf(a.out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("15:04"), who, m.Message)
}

// Chat shows the conversation with a user and keeps it fresh while the user
// types replies. An empty line leaves the chat.
func (a *App) Chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("chat <user>")
	}
	peer, err := a.resolveUser(ctx, args[0])
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	deliver := func(msgs []models.ChatMessage) {
		mu.Lock()
		defer mu.Unlock()
		for _, m := range msgs {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			a.printMessage(m, peer.ID)
		}
	}

	w, err := services.WatchThread(a.messages, peer.ID, a.config.MessagePollInterval, deliver, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(a.out, "Chatting with %s (empty line to leave)\n", peer.DisplayName())
	for {
		line, err := getSimpleText(a.reader, "", a.out)
		if err != nil || line == "" {
			return nil
		}
		sent, err := a.messages.Send(ctx, peer.ID, line)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			if !a.isLoggedIn() {
				return nil
			}
			continue
		}
		deliver([]models.ChatMessage{sent})
	}
}

// Send posts one message without entering the chat.
func (a *App) Send(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("send <user> <text>")
	}
	peer, err := a.resolveUser(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := a.messages.Send(ctx, peer.ID, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Sent to %s.\n", peer.DisplayName())
	return nil
}
