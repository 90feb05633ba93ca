package ws

import (
	"context"
	"encoding/json"
	"log"
)

// EventsChannel carries table events between server instances.
const EventsChannel = "table_events"

// Event is a table event as published on EventsChannel.
type Event struct {
	Type    string          `json:"type"`
	TableID string          `json:"table_id"`
	Data    json.RawMessage `json:"data"`
}

// PublishEvent fans an event out to every instance through Redis, or broadcasts it
// locally when Redis is not configured or unreachable.
func (h *Hub) PublishEvent(ctx context.Context, tableID, eventType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[WS] Error marshaling %s event: %v", eventType, err)
		return
	}

	if h.rdb == nil {
		h.BroadcastToTable(tableID, eventType, json.RawMessage(raw))
		return
	}

	payload, _ := json.Marshal(Event{Type: eventType, TableID: tableID, Data: raw})
	if err := h.rdb.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		log.Printf("[WS] Publish %s for table %s failed, broadcasting locally: %v", eventType, tableID, err)
		h.BroadcastToTable(tableID, eventType, json.RawMessage(raw))
	}
}

// StartEventSubscriber relays events from EventsChannel to local table rooms until ctx
// is done. It returns once the subscription is confirmed.
func (h *Hub) StartEventSubscriber(ctx context.Context) error {
	if h.rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return nil
	}

	pubsub := h.rdb.Subscribe(ctx, EventsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return err
	}

	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", EventsChannel)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("[WS] Invalid event payload: %v", err)
					continue
				}
				if ev.TableID == "" || ev.Type == "" {
					log.Printf("[WS] Event without table or type dropped")
					continue
				}
				h.BroadcastToTable(ev.TableID, ev.Type, ev.Data)
			}
		}
	}()
	return nil
}
