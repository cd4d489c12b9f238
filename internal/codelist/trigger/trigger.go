// Package trigger refreshes the store when the write side announces a
// code-list change on Kafka.
//
// Events are coalesced: any number of events that arrive while a refresh is
// running produce exactly one follow-up refresh.
package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"polly/internal/codelist/metrics"
	"polly/internal/codelist/store"
	"polly/pkg/requestcontext"
)

// TriggerName labels refresh rounds started by this consumer.
const TriggerName = "kafka"

// Event outcomes reported to metrics.
const (
	ResultAccepted  = "accepted"
	ResultCoalesced = "coalesced"
	ResultInvalid   = "invalid"
)

// ChangeEvent announces that a code in a list was created, updated or deleted.
type ChangeEvent struct {
	List   string `json:"list"`
	Code   string `json:"code"`
	Action string `json:"action"`
}

// Refresher performs a full refresh round.
type Refresher interface {
	Refresh(ctx context.Context) store.Report
}

// Config holds consumer configuration.
type Config struct {
	Brokers string
	Topic   string
	GroupID string
}

// Consumer turns change events into refresh rounds.
type Consumer struct {
	client    *kgo.Client
	topic     string
	refresher Refresher
	logger    *slog.Logger
	metrics   *metrics.Metrics

	pending   chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Consumer.
type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Consumer) {
		c.metrics = m
	}
}

// New creates a consumer group member for cfg.Topic. Only events published
// after the group first joins are consumed; the startup fetch already covers
// anything older.
func New(cfg Config, refresher Refresher, opts ...Option) (*Consumer, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka codelist topic not configured")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka consumer group ID not configured")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(splitBrokers(cfg.Brokers)...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	c := newConsumer(refresher, opts...)
	c.client = client
	c.topic = cfg.Topic
	return c, nil
}

func newConsumer(refresher Refresher, opts ...Option) *Consumer {
	c := &Consumer{
		refresher: refresher,
		logger:    slog.Default(),
		pending:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureTopic creates the topic if it does not exist yet.
func (c *Consumer) EnsureTopic(ctx context.Context, partitions int32) error {
	adm := kadm.NewClient(c.client)
	resp, err := adm.CreateTopic(ctx, partitions, -1, nil, c.topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", c.topic, err)
	}
	return nil
}

// Run polls until ctx is canceled or Close is called. On return any refresh
// in flight has been canceled and the worker has stopped.
func (c *Consumer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.wg.Go(func() { c.work(ctx) })
	defer func() {
		cancel()
		c.wg.Wait()
	}()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(r *kgo.Record) {
			c.handleRecord(ctx, r.Value)
		})
	}
}

// Close leaves the consumer group and stops Run.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() {
		if c.client != nil {
			c.client.Close()
		}
	})
}

func (c *Consumer) handleRecord(ctx context.Context, value []byte) {
	var ev ChangeEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		c.record(ResultInvalid)
		c.logger.WarnContext(ctx, "discarding malformed codelist change event", "error", err)
		return
	}
	if strings.TrimSpace(ev.List) == "" && strings.TrimSpace(ev.Code) == "" {
		c.record(ResultInvalid)
		c.logger.WarnContext(ctx, "discarding codelist change event without list or code")
		return
	}

	select {
	case c.pending <- struct{}{}:
		c.record(ResultAccepted)
	default:
		c.record(ResultCoalesced)
	}
	c.logger.DebugContext(ctx, "codelist change event",
		"list", ev.List,
		"code", ev.Code,
		"action", ev.Action,
	)
}

func (c *Consumer) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.pending:
			report := c.refresher.Refresh(requestcontext.WithTrigger(ctx, TriggerName))
			if err := report.Err(); err != nil {
				c.logger.WarnContext(ctx, "triggered refresh incomplete",
					"generation", report.Generation,
					"error", err,
				)
			}
		}
	}
}

func (c *Consumer) record(result string) {
	if c.metrics != nil {
		c.metrics.RecordTriggerEvent(result)
	}
}

func splitBrokers(brokers string) []string {
	var out []string
	for b := range strings.SplitSeq(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
