package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
	"github.com/vahub-dev/marketplace/backend/pkg/client"
)

func main() {
	var baseURL, email, password, to, body string

	flag.StringVar(&baseURL, "url", "http://localhost:3000", "api base url")
	flag.StringVar(&email, "email", "", "account email")
	flag.StringVar(&password, "password", os.Getenv("VAHUB_PASSWORD"), "account password")
	flag.StringVar(&to, "to", "", "send a message to this user id before polling")
	flag.StringVar(&body, "m", "", "message body used with -to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(baseURL)
	auth, err := c.Login(ctx, email, password)
	if err != nil {
		logger.Error("failed to log in", slog.String("error", err.Error()))
		os.Exit(1)
	}

	inbox := client.NewInbox(c, auth.User.ID)
	if to != "" && body != "" {
		if _, err := inbox.Send(ctx, to, body); err != nil {
			logger.Error("failed to send message", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var last []*domain.Message
	seen := 0
	for snap := range inbox.Poll(ctx) {
		if snap.Err != nil {
			logger.Error("poll failed", slog.String("error", snap.Err.Error()))
			continue
		}
		if len(snap.Messages) < seen {
			seen = 0
		}
		for _, m := range snap.Messages[seen:] {
			fmt.Printf("[%s] %s -> %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.SenderName, m.ReceiverName, m.MessageBody)
		}
		seen = len(snap.Messages)
		last = snap.Messages
	}

	for _, conv := range client.Conversations(auth.User.ID, last) {
		fmt.Printf("%s (%s): %s\n", conv.Name, conv.UserID, conv.LastMessage)
	}
}
