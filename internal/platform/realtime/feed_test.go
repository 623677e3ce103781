package realtime

import (
	"testing"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDispatch(t *testing.T) {
	bus := EventBus.New()
	feed := NewFeed("", bus)

	var got []Event
	require.NoError(t, bus.Subscribe(Topic(TableProducts), func(ev Event) {
		got = append(got, ev)
	}))

	feed.Dispatch(`{"table":"products","type":"UPDATE","record":{"id":"p1","name":"Milk","quantity":4}}`)
	feed.Dispatch(`{"table":"sales","type":"INSERT","record":{}}`)
	feed.Dispatch(`not json`)
	feed.Dispatch(`{"type":"INSERT"}`)

	require.Len(t, got, 1)
	assert.Equal(t, Update, got[0].Type)

	var row struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	require.NoError(t, got[0].Decode(&row))
	assert.Equal(t, "Milk", row.Name)
	assert.Equal(t, 4, row.Quantity)
}

func TestNewFeedDefaults(t *testing.T) {
	feed := NewFeed("postgres://", EventBus.New())
	assert.Equal(t, []string{TableProducts, TableSales, TableRecommendations}, feed.tables)
	assert.Equal(t, "sales_changes", Channel(TableSales))
}
