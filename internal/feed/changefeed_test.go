// internal/feed/changefeed_test.go
package feed

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe("orders", Filter{})
	defer b.Unsubscribe(sub)

	rowID := uuid.New()
	b.Publish(Event{Table: "orders", Action: "insert", RowID: rowID})

	e := recvEvent(t, sub.C)
	assert.Equal(t, "orders", e.Table)
	assert.Equal(t, "insert", e.Action)
	assert.Equal(t, rowID, e.RowID)
}

func TestFilterMatchesColumn(t *testing.T) {
	b := NewBroker()
	farmerID := uuid.New().String()

	mine := b.Subscribe("orders", Filter{Column: "farmer_id", Value: farmerID})
	defer b.Unsubscribe(mine)

	// Event for someone else's row must not reach the filtered subscriber.
	b.Publish(Event{
		Table:  "orders",
		Action: "update",
		RowID:  uuid.New(),
		Fields: map[string]string{"farmer_id": uuid.New().String()},
	})

	select {
	case e := <-mine.C:
		t.Fatalf("unexpected event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}

	b.Publish(Event{
		Table:  "orders",
		Action: "update",
		RowID:  uuid.New(),
		Fields: map[string]string{"farmer_id": farmerID},
	})

	e := recvEvent(t, mine.C)
	assert.Equal(t, "update", e.Action)
}

func TestTableIsolation(t *testing.T) {
	b := NewBroker()
	cropSub := b.Subscribe("crops", Filter{})
	defer b.Unsubscribe(cropSub)

	b.Publish(Event{Table: "orders", Action: "insert", RowID: uuid.New()})

	select {
	case e := <-cropSub.C:
		t.Fatalf("crops subscriber got orders event: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe("orders", Filter{})
	b.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)

	// Double unsubscribe must not panic.
	b.Unsubscribe(sub)

	// Publishing after unsubscribe reaches nobody.
	b.Publish(Event{Table: "orders", Action: "insert", RowID: uuid.New()})
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroker()
	sub := b.Subscribe("orders", Filter{})
	defer b.Unsubscribe(sub)

	// Fill the buffer and then some; the overflow must be dropped, not block.
	for i := 0; i < cap(sub.C)+5; i++ {
		b.Publish(Event{Table: "orders", Action: "insert", RowID: uuid.New()})
	}

	require.Len(t, sub.C, cap(sub.C))
}

func TestMultipleSubscribersFanOut(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("crops", Filter{})
	c := b.Subscribe("crops", Filter{})
	defer b.Unsubscribe(a)
	defer b.Unsubscribe(c)

	rowID := uuid.New()
	b.Publish(Event{Table: "crops", Action: "delete", RowID: rowID})

	assert.Equal(t, rowID, recvEvent(t, a.C).RowID)
	assert.Equal(t, rowID, recvEvent(t, c.C).RowID)
}
