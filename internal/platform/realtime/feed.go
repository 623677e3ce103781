// Package realtime turns Postgres NOTIFY messages emitted by the
// notify_table_change trigger into events on an in-process bus.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Change types as sent by the trigger (TG_OP).
const (
	Insert = "INSERT"
	Update = "UPDATE"
	Delete = "DELETE"
)

// Tables that publish changes.
const (
	TableProducts        = "products"
	TableSales           = "sales"
	TableRecommendations = "recommendations"
)

// Event is a single row change.
type Event struct {
	Table  string          `json:"table"`
	Type   string          `json:"type"`
	Record json.RawMessage `json:"record"`
}

// Decode unmarshals the changed row into dst.
func (e Event) Decode(dst interface{}) error {
	return json.Unmarshal(e.Record, dst)
}

// Topic is the bus topic carrying events for table.
func Topic(table string) string { return "realtime:" + table }

// Channel is the Postgres NOTIFY channel for table.
func Channel(table string) string { return table + "_changes" }

// Feed listens on the change channels and republishes every event.
type Feed struct {
	dsn    string
	bus    EventBus.Bus
	tables []string
}

// NewFeed creates a feed for tables; with no tables it follows products,
// sales and recommendations.
func NewFeed(dsn string, bus EventBus.Bus, tables ...string) *Feed {
	if len(tables) == 0 {
		tables = []string{TableProducts, TableSales, TableRecommendations}
	}
	return &Feed{dsn: dsn, bus: bus, tables: tables}
}

// Run blocks until ctx is cancelled. The listener reconnects on its own.
func (f *Feed) Run(ctx context.Context) error {
	listener := pq.NewListener(f.dsn, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			zap.S().Warnf("realtime listener event %d: %v", ev, err)
		}
	})
	defer listener.Close()

	for _, table := range f.tables {
		if err := listener.Listen(Channel(table)); err != nil {
			return err
		}
	}
	zap.S().Infof("realtime feed listening on %v", f.tables)

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; notifications sent meanwhile are lost.
			if n == nil {
				continue
			}
			f.Dispatch(n.Extra)
		case <-ping.C:
			go func() {
				if err := listener.Ping(); err != nil {
					zap.S().Warnf("realtime ping: %v", err)
				}
			}()
		}
	}
}

// Dispatch decodes a trigger payload and publishes it. Malformed payloads
// are logged and dropped.
func (f *Feed) Dispatch(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		zap.S().Warnf("realtime: bad payload: %v", err)
		return
	}
	if ev.Table == "" {
		zap.S().Warn("realtime: payload without table")
		return
	}
	f.bus.Publish(Topic(ev.Table), ev)
}
