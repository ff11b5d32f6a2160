package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sgcommute/service-fareroute/internal/application"
	"github.com/sgcommute/service-fareroute/internal/domain/trip"
	"github.com/sgcommute/service-fareroute/internal/platform/kafka"
)

// RouteEventConsumer listens to route events and records the trip history.
type RouteEventConsumer struct {
	consumer *kafka.Consumer
	recorder application.TripRecorder
	logger   *zap.Logger
}

// NewRouteEventConsumer creates a new RouteEventConsumer.
func NewRouteEventConsumer(
	brokers []string,
	groupID string,
	recorder application.TripRecorder,
	logger *zap.Logger,
) *RouteEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, trip.TopicRouteEvents, logger)
	return &RouteEventConsumer{
		consumer: consumer,
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins consuming route events. This blocks until the context is cancelled.
func (c *RouteEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RouteEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RouteEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from route topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case trip.EventRoutePlanned:
		return c.handleRoutePlanned(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled route event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *RouteEventConsumer) handleRoutePlanned(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt trip.RoutePlannedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse RoutePlannedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	if err := c.recorder.Record(ctx, evt); err != nil {
		c.logger.Error("failed to record planned route",
			zap.String("trip_query_id", evt.TripQueryID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("planned route recorded",
		zap.String("trip_query_id", evt.TripQueryID.String()),
		zap.String("route_type", evt.RouteType),
	)
	return nil
}
