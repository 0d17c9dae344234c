// internal/feed/changefeed.go
package feed

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event notifies subscribers that a matching row changed. It carries no diff;
// consumers are expected to re-query the collection.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"` // insert | update | delete
	RowID  uuid.UUID `json:"row_id"`

	// Fields holds the filterable columns of the changed row, used only for
	// subscription matching. Not delivered as authoritative data.
	Fields map[string]string `json:"-"`
}

// Filter scopes a subscription to rows where Column equals Value. A zero
// Filter matches every row of the table.
type Filter struct {
	Column string
	Value  string
}

func (f Filter) matches(e Event) bool {
	if f.Column == "" {
		return true
	}
	return e.Fields[f.Column] == f.Value
}

type Subscription struct {
	id     uint64
	table  string
	filter Filter

	// C delivers change notifications. Events are dropped, not queued
	// unboundedly, when the consumer falls behind.
	C chan Event
}

// Broker is an in-process change feed: services publish row changes, views
// subscribe with a table and row filter and re-fetch on notification.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]*Subscription // table -> id -> sub
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[uint64]*Subscription),
	}
}

// Subscribe registers interest in changes to table rows matching filter.
// The caller must Unsubscribe when done.
func (b *Broker) Subscribe(table string, filter Filter) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		table:  table,
		filter: filter,
		C:      make(chan Event, 16),
	}

	if b.subs[table] == nil {
		b.subs[table] = make(map[uint64]*Subscription)
	}
	b.subs[table][sub.id] = sub

	return sub
}

func (b *Broker) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if table, ok := b.subs[sub.table]; ok {
		if _, ok := table[sub.id]; ok {
			delete(table, sub.id)
			close(sub.C)
		}
	}
}

// Publish fans an event out to every matching subscriber. Delivery is
// at-most-once: a subscriber with a full channel misses the event, which is
// acceptable because consumers re-query rather than replay.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[event.Table] {
		if !sub.filter.matches(event) {
			continue
		}
		select {
		case sub.C <- event:
		default:
			logrus.WithFields(logrus.Fields{
				"table":  event.Table,
				"action": event.Action,
			}).Warn("change feed subscriber lagging, event dropped")
		}
	}
}
