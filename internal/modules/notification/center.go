package notification

import (
	"fmt"
	"sync"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/georgemunganga/retailops-backend/internal/modules/analytics"
	"github.com/georgemunganga/retailops-backend/internal/platform/apperr"
	"github.com/georgemunganga/retailops-backend/internal/platform/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLimit is how many notifications the center keeps.
const DefaultLimit = 100

// Center keeps the most recent notifications, newest first, and fans new
// ones out to subscribers.
type Center struct {
	limit int
	now   func() time.Time

	mu    sync.Mutex
	items []*Notification
	subs  map[int]chan Notification
	next  int

	bus      EventBus.Bus
	handlers map[string]func(realtime.Event)
}

// NewCenter creates a center holding up to limit notifications.
func NewCenter(limit int) *Center {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Center{limit: limit, now: time.Now, subs: make(map[int]chan Notification)}
}

// Push records a notification and delivers it to subscribers. A subscriber
// whose buffer is full misses it.
func (c *Center) Push(t Type, cat Category, msg string) Notification {
	n := &Notification{ID: uuid.New(), Type: t, Category: cat, Message: msg, Timestamp: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]*Notification{n}, c.items...)
	if len(c.items) > c.limit {
		c.items = c.items[:c.limit]
	}
	for id, ch := range c.subs {
		select {
		case ch <- *n:
		default:
			zap.S().Debugf("notification subscriber %d is behind, dropping %s", id, n.ID)
		}
	}
	return *n
}

// List returns the visible notifications, newest first.
func (c *Center) List(v Visibility) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.items))
	for _, n := range c.items {
		if v.Shows(*n) {
			out = append(out, *n)
		}
	}
	return out
}

// UnreadCount counts visible unread notifications.
func (c *Center) UnreadCount(v Visibility) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.items {
		if !n.IsRead && v.Shows(*n) {
			count++
		}
	}
	return count
}

func (c *Center) MarkRead(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.Invalid("invalid notification id: %s", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.items {
		if n.ID == uid {
			n.IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification %s not found", id)
}

// MarkAllRead marks everything read and returns how many changed.
func (c *Center) MarkAllRead() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := 0
	for _, n := range c.items {
		if !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed
}

// Subscribe returns a channel receiving every new notification and a
// function that closes it.
func (c *Center) Subscribe(buffer int) (<-chan Notification, func()) {
	ch := make(chan Notification, buffer)
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Attach starts turning change-feed events on bus into notifications.
func (c *Center) Attach(bus EventBus.Bus) error {
	c.bus = bus
	c.handlers = map[string]func(realtime.Event){
		realtime.Topic(realtime.TableProducts):        c.onProduct,
		realtime.Topic(realtime.TableSales):           c.onSale,
		realtime.Topic(realtime.TableRecommendations): c.onRecommendation,
	}
	for topic, fn := range c.handlers {
		if err := bus.Subscribe(topic, fn); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

// Detach stops listening to the bus.
func (c *Center) Detach() {
	if c.bus == nil {
		return
	}
	for topic, fn := range c.handlers {
		_ = c.bus.Unsubscribe(topic, fn)
	}
	c.bus = nil
}

func (c *Center) onProduct(ev realtime.Event) {
	if ev.Type == realtime.Delete {
		return
	}
	var p struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	if err := ev.Decode(&p); err != nil {
		zap.S().Warnf("notification: bad product record: %v", err)
		return
	}
	if !analytics.IsLowStock(p.Quantity) {
		return
	}
	t := TypeWarning
	if p.Quantity <= analytics.CriticalStockThreshold {
		t = TypeError
	}
	c.Push(t, CategoryStock, fmt.Sprintf("%s is running low (%d units remaining)", p.Name, p.Quantity))
}

func (c *Center) onSale(ev realtime.Event) {
	if ev.Type != realtime.Insert {
		return
	}
	c.Push(TypeSuccess, CategorySales, "New sale recorded successfully")
}

func (c *Center) onRecommendation(ev realtime.Event) {
	if ev.Type != realtime.Insert {
		return
	}
	var rec struct {
		Type     string `json:"type"`
		Message  string `json:"message"`
		Priority string `json:"priority"`
	}
	if err := ev.Decode(&rec); err != nil {
		zap.S().Warnf("notification: bad recommendation record: %v", err)
		return
	}
	t := TypeWarning
	if rec.Priority == "high" {
		t = TypeError
	}
	c.Push(t, recommendationCategory(rec.Type), rec.Message)
}

func recommendationCategory(recType string) Category {
	switch recType {
	case "discount":
		return CategoryExpiry
	case "restock":
		return CategoryStock
	default:
		return CategoryRecommendation
	}
}
