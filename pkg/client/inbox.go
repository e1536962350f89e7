package client

import (
	"context"
	"time"

	"github.com/vahub-dev/marketplace/backend/internal/domain"
)

const PollInterval = 5 * time.Second

// Snapshot is one poll result. Err is set when the fetch failed; polling
// keeps going regardless.
type Snapshot struct {
	Messages []*domain.Message
	Err      error
}

type Conversation struct {
	UserID      string
	Name        string
	LastMessage string
	LastAt      time.Time
}

// Inbox polls the message list of one user. There is no push channel.
type Inbox struct {
	c        *Client
	userID   string
	Interval time.Duration
}

func NewInbox(c *Client, userID string) *Inbox {
	return &Inbox{c: c, userID: userID, Interval: PollInterval}
}

// Poll fetches immediately and then once per interval. The returned channel
// is closed when ctx is done.
func (in *Inbox) Poll(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)

		ticker := time.NewTicker(in.Interval)
		defer ticker.Stop()

		for {
			if !in.deliver(ctx, out) {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}

func (in *Inbox) deliver(ctx context.Context, out chan<- Snapshot) bool {
	msgs, err := in.c.Messages(ctx, in.userID)
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- Snapshot{Messages: msgs, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Send posts a message and returns the refreshed list.
func (in *Inbox) Send(ctx context.Context, receiverID, body string) ([]*domain.Message, error) {
	if _, err := in.c.SendMessage(ctx, receiverID, body); err != nil {
		return nil, err
	}
	return in.c.Messages(ctx, in.userID)
}

// Conversations groups msgs by the other party, in order of first
// appearance. The display name comes from the latest message of each group.
func Conversations(userID string, msgs []*domain.Message) []Conversation {
	index := make(map[string]int)
	var convs []Conversation
	for _, m := range msgs {
		other, name := m.SenderID, m.SenderName
		if m.SenderID == userID {
			other, name = m.ReceiverID, m.ReceiverName
		}

		i, ok := index[other]
		if !ok {
			i = len(convs)
			index[other] = i
			convs = append(convs, Conversation{UserID: other})
		}
		convs[i].Name = name
		convs[i].LastMessage = m.MessageBody
		convs[i].LastAt = m.CreatedAt
	}
	return convs
}

// Thread returns the messages exchanged between userID and otherID.
func Thread(userID, otherID string, msgs []*domain.Message) []*domain.Message {
	var out []*domain.Message
	for _, m := range msgs {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out
}
