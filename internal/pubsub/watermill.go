package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/trace"
)

// WatermillBridge implements the Publisher and Subscriber interfaces using watermill's GoChannel.
type WatermillBridge struct {
	pub message.Publisher
	sub message.Subscriber
	// Logger for watermill to use
	logger watermill.LoggerAdapter
	slog   *slog.Logger

	// handlers tracks the message loops started by Subscribe.
	handlers sync.WaitGroup
}

const (
	// metaKeyTopic carries Message.Topic through watermill's metadata.
	metaKeyTopic = "topic"
)

// BridgeOption configures a WatermillBridge.
type BridgeOption func(*bridgeOptions)

type bridgeOptions struct {
	tracer trace.Tracer
	logger *slog.Logger
}

// WithTracer wraps the publisher so every publish opens a span.
func WithTracer(tracer trace.Tracer) BridgeOption {
	return func(o *bridgeOptions) {
		o.tracer = tracer
	}
}

// WithLogger sets the logger for handler failures.
func WithLogger(l *slog.Logger) BridgeOption {
	return func(o *bridgeOptions) {
		o.logger = l
	}
}

// NewWatermillBridge initializes an in-memory bus. Publishing never waits
// for subscribers to process a message.
func NewWatermillBridge(opts ...BridgeOption) *WatermillBridge {
	o := bridgeOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	logger := watermill.NewSlogLogger(o.logger.With("component", "watermill"))
	// GoChannel is a simple in-memory pub/sub implementation.
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{},
		logger,
	)

	var pub message.Publisher = goChannel
	if o.tracer != nil {
		pub = NewPublisherTracingMiddleware(goChannel, o.tracer)
	}

	return &WatermillBridge{
		pub:    pub,
		sub:    goChannel,
		logger: logger,
		slog:   o.logger.With("component", "bus"),
	}
}

// mapToWatermillMessage converts our pubsub.Message to a watermill message.
func mapToWatermillMessage(ctx context.Context, msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	wmMsg.SetContext(ctx)

	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)

	return wmMsg
}

// mapToPubSubMessage converts a watermill message back to our internal pubsub.Message.
func mapToPubSubMessage(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	if msg.Topic == "" {
		return ErrEmptyTopic
	}
	if err := wb.pub.Publish(msg.Topic, mapToWatermillMessage(ctx, msg)); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.Topic, err)
	}
	return nil
}

// Subscribe implements the Subscriber interface.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	// Run the message processing in a separate goroutine so that Subscribe is non-blocking.
	wb.handlers.Add(1)
	go func() {
		defer wb.handlers.Done()
		for wmMsg := range messages {
			msg := mapToPubSubMessage(wmMsg)

			if err := handler(wmMsg.Context(), msg); err != nil {
				// Delivery is best-effort; a Nack would make GoChannel redeliver forever.
				wb.slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
			}
			wmMsg.Ack()
		}
		wb.slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close implements the Publisher and Subscriber interface to shut down the bridge.
// It returns once every handler started by Subscribe has returned.
func (wb *WatermillBridge) Close() error {
	// Closing the subscriber closes every output channel, which ends the loops.
	err := wb.sub.Close()
	wb.handlers.Wait()
	return err
}
