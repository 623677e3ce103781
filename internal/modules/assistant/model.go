package assistant

import (
	"time"

	"github.com/google/uuid"
)

// Topic is the data set a prompt is answered from.
type Topic string

const (
	TopicExpiry          Topic = "expiry"
	TopicStock           Topic = "stock"
	TopicSales           Topic = "sales"
	TopicRecommendations Topic = "recommendations"
)

// Sender identifies who wrote a chat message. Everything but SenderUser is
// an assistant persona.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
	SenderMaster Sender = "master"
	SenderStock  Sender = "stock"
	SenderExpiry Sender = "expiry"
	SenderSales  Sender = "sales"
)

// Row is one result row of a topic query, keyed by column name.
type Row map[string]interface{}

// Answer is the reply to a single prompt.
type Answer struct {
	Response string `json:"response"`
	Data     []Row  `json:"data"`
	Agent    Sender `json:"agent"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type QueryRequest struct {
	Prompt string `json:"prompt"`
}

type MessageRequest struct {
	Content string `json:"content"`
}
