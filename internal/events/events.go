package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	BROADCAST_CHANNEL    Channel = "broadcast"
	INVALIDATION_CHANNEL Channel = "cache.invalidation"
)

type MessageType string

const (
	BROADCAST          MessageType = "broadcast"
	CACHE_INVALIDATION MessageType = "cache_invalidation"
)

// Target is one key to drop. Exact drops only the entry stored at Key; a
// non-exact target also drops every entry stored under a key Key prefixes.
type Target struct {
	Key   querykeys.Key `json:"key"`
	Exact bool          `json:"exact"`
}

func Exact(key querykeys.Key) Target {
	return Target{Key: key, Exact: true}
}

func Tree(key querykeys.Key) Target {
	return Target{Key: key}
}

// Invalidation names client-facing keys. UserID is set when the keys belong to
// one user, such as querykeys.User.Profile.
type Invalidation struct {
	Targets []Target   `json:"targets"`
	UserID  *uuid.UUID `json:"userId,omitempty"`
}

type Event struct {
	ID           string         `json:"id"`
	Type         MessageType    `json:"type"`
	Channel      Channel        `json:"channel"`
	UserID       *uuid.UUID     `json:"userId,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Invalidation *Invalidation  `json:"invalidation,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

type EventBus struct {
	client   valkey.Client
	logger   logger.Logger
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		logger:   logger.New("EventBus"),
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish sends the event to every instance through valkey. Handlers on this
// instance receive it from the subscription like everyone else.
func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Channel == "" {
		event.Channel = channel
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel", channel,
			"eventID", event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	first := len(eb.handlers[channel]) == 0
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if first {
		go eb.listenToChannel(channel)
	}
}

func (eb *EventBus) PublishInvalidation(invalidation Invalidation) error {
	return eb.Publish(INVALIDATION_CHANNEL, Event{
		Type:         CACHE_INVALIDATION,
		UserID:       invalidation.UserID,
		Invalidation: &invalidation,
	})
}

func (eb *EventBus) dispatch(channel Channel, event Event) {
	log := eb.logger.Function("dispatch")

	eb.mutex.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		if err := handler(event); err != nil {
			log.Er(
				"handler failed",
				err,
				"channel", channel,
				"eventID", event.ID,
				"handlerIndex", i,
			)
		}
	}
}

func (eb *EventBus) handleMessage(channel Channel, message string) {
	var event Event
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		eb.logger.Function("handleMessage").
			Er("failed to unmarshal event", err, "channel", channel)
		return
	}

	eb.dispatch(channel, event)
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")
	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			eb.handleMessage(channel, msg.Message)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	eb.cancel()
	eb.logger.Function("Close").Info("EventBus closed")
	return nil
}
