package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxTranscript is how many messages are kept per user.
	MaxTranscript = 200

	WelcomeMessage = "Welcome to SupermarketAI Assistant. How can I help you today?"
)

// Transcripts keeps each user's chat history in memory. A history starts
// with the welcome message and loses its oldest entries past MaxTranscript.
type Transcripts struct {
	mu    sync.Mutex
	limit int
	now   func() time.Time
	chats map[uuid.UUID][]*Message
}

func NewTranscripts(limit int) *Transcripts {
	if limit <= 0 {
		limit = MaxTranscript
	}
	return &Transcripts{limit: limit, now: time.Now, chats: make(map[uuid.UUID][]*Message)}
}

// History returns a copy of the user's transcript, oldest first.
func (t *Transcripts) History(userID uuid.UUID) []*Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	chat := t.chatLocked(userID)
	out := make([]*Message, len(chat))
	copy(out, chat)
	return out
}

// Append adds a message and returns it.
func (t *Transcripts) Append(userID uuid.UUID, sender Sender, content string) *Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg := &Message{ID: uuid.New(), Sender: sender, Content: content, Timestamp: t.now()}
	chat := append(t.chatLocked(userID), msg)
	if len(chat) > t.limit {
		chat = append([]*Message(nil), chat[len(chat)-t.limit:]...)
	}
	t.chats[userID] = chat
	return msg
}

// Reset drops the user's history; the next read starts over with the welcome.
func (t *Transcripts) Reset(userID uuid.UUID) {
	t.mu.Lock()
	delete(t.chats, userID)
	t.mu.Unlock()
}

func (t *Transcripts) chatLocked(userID uuid.UUID) []*Message {
	chat, ok := t.chats[userID]
	if !ok {
		chat = []*Message{{ID: uuid.New(), Sender: SenderSystem, Content: WelcomeMessage, Timestamp: t.now()}}
		t.chats[userID] = chat
	}
	return chat
}
