package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"tourist-hub-api/internal/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Notification event types
const (
	NotificationRegistrationCreated   = "registration_created"
	NotificationRegistrationApproved  = "registration_approved"
	NotificationRegistrationRejected  = "registration_rejected"
	NotificationRegistrationCancelled = "registration_cancelled"
	NotificationTourEventCancelled    = "tour_event_cancelled"
	NotificationScheduleChanged       = "schedule_changed"
)

// Redis keys for the notification queues
const (
	notificationQueueKey     = "notifications:queue"
	notificationScheduledKey = "notifications:scheduled"
	notificationFailedKey    = "notifications:failed"
)

// NotificationEvent is one outbound notification. RetryCount and ScheduledAt
// are managed by the dispatcher; callers fill in the domain fields only.
type NotificationEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RegistrationID string    `json:"registration_id,omitempty"`
	TourEventID    string    `json:"tour_event_id,omitempty"`
	TouristUserID  string    `json:"tourist_user_id,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	RetryCount     int       `json:"retry_count"`
	CreatedAt      time.Time `json:"created_at"`
	ScheduledAt    time.Time `json:"scheduled_at,omitempty"`
}

// NotificationSender delivers one notification event to its recipient.
// Delivery channel (email, push) is an implementation detail of the sender.
type NotificationSender interface {
	Send(ctx context.Context, event *NotificationEvent) error
}

// LogSender writes notifications to the structured log. It is the default
// sender in development and in tests.
type LogSender struct {
	Logger *logger.Logger
}

// Send logs the notification instead of delivering it
func (s *LogSender) Send(ctx context.Context, event *NotificationEvent) error {
	s.Logger.WithField("notification_id", event.ID).
		WithField("event_type", event.Type).
		WithField("tourist_user_id", event.TouristUserID).
		WithField("tour_event_id", event.TourEventID).
		Info("Notification delivered")
	return nil
}

// RedisNotificationDispatcher queues notification events in redis and drains
// them with a worker pool. Failed deliveries go to a scheduled zset and are
// retried with quadratic backoff until MaxRetries is exhausted.
type RedisNotificationDispatcher struct {
	logger     *logger.Logger
	redis      *redis.Client
	sender     NotificationSender
	workers    int
	maxRetries int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewNotificationDispatcher creates a redis-backed notification dispatcher.
// Start must be called before events are drained.
func NewNotificationDispatcher(
	logger *logger.Logger,
	redisClient *redis.Client,
	sender NotificationSender,
	workers, maxRetries int,
) *RedisNotificationDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisNotificationDispatcher{
		logger:     logger,
		redis:      redisClient,
		sender:     sender,
		workers:    workers,
		maxRetries: maxRetries,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Dispatch enqueues an event for asynchronous delivery. Errors are logged and
// swallowed; a lost notification never fails the domain operation that
// produced it.
func (d *RedisNotificationDispatcher) Dispatch(ctx context.Context, event *NotificationEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		d.logger.WithError(err).Error("Failed to marshal notification event")
		return
	}

	if err := d.redis.LPush(ctx, notificationQueueKey, data).Err(); err != nil {
		d.logger.WithError(err).
			WithField("event_type", event.Type).
			Error("Failed to enqueue notification event")
		return
	}

	notificationsDispatchedTotal.WithLabelValues(event.Type).Inc()
}

// Start launches the delivery workers and the scheduled-retry pump
func (d *RedisNotificationDispatcher) Start() {
	d.logger.WithField("workers", d.workers).Info("Starting notification dispatcher")

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.wg.Add(1)
	go d.scheduledPump()
}

// Stop drains the workers and waits for in-flight deliveries
func (d *RedisNotificationDispatcher) Stop() {
	d.logger.Info("Stopping notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("Notification dispatcher stopped")
}

// worker pops events off the queue and delivers them
func (d *RedisNotificationDispatcher) worker(workerID int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			result, err := d.redis.BRPop(d.ctx, time.Second, notificationQueueKey).Result()
			if err != nil {
				if err == redis.Nil || d.ctx.Err() != nil {
					continue
				}
				d.logger.WithError(err).WithField("worker", workerID).Error("Failed to pop notification event")
				continue
			}

			var event NotificationEvent
			if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
				d.logger.WithError(err).WithField("worker", workerID).Error("Failed to unmarshal notification event")
				continue
			}

			d.deliver(&event)
		}
	}
}

// deliver sends one event, rescheduling it on failure
func (d *RedisNotificationDispatcher) deliver(event *NotificationEvent) {
	ctx, cancel := context.WithTimeout(d.ctx, 30*time.Second)
	defer cancel()

	err := d.sender.Send(ctx, event)
	if err == nil {
		return
	}

	if event.RetryCount >= d.maxRetries {
		d.fail(event, err)
		return
	}
	d.retry(event, err)
}

// retry puts the event back on the scheduled zset with quadratic backoff
func (d *RedisNotificationDispatcher) retry(event *NotificationEvent, cause error) {
	event.RetryCount++
	delay := time.Duration(event.RetryCount*event.RetryCount) * time.Second
	event.ScheduledAt = time.Now().Add(delay)

	data, err := json.Marshal(event)
	if err != nil {
		d.logger.WithError(err).Error("Failed to marshal notification event for retry")
		return
	}

	if err := d.redis.ZAdd(d.ctx, notificationScheduledKey, &redis.Z{
		Score:  float64(event.ScheduledAt.Unix()),
		Member: data,
	}).Err(); err != nil {
		d.logger.WithError(err).Error("Failed to schedule notification retry")
		return
	}

	d.logger.WithField("notification_id", event.ID).
		WithField("retry", event.RetryCount).
		WithField("delay", delay.String()).
		WithError(cause).
		Warn("Notification delivery failed, retry scheduled")
}

// fail parks the event on the failed list for inspection
func (d *RedisNotificationDispatcher) fail(event *NotificationEvent, cause error) {
	data, err := json.Marshal(event)
	if err == nil {
		d.redis.LPush(d.ctx, notificationFailedKey, data)
	}

	d.logger.WithField("notification_id", event.ID).
		WithField("event_type", event.Type).
		WithError(cause).
		Error("Notification delivery failed permanently")
}

// scheduledPump moves due retries back onto the delivery queue
func (d *RedisNotificationDispatcher) scheduledPump() {
	defer d.wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			now := strconv.FormatInt(time.Now().Unix(), 10)
			entries, err := d.redis.ZRangeByScore(d.ctx, notificationScheduledKey, &redis.ZRangeBy{
				Min: "0",
				Max: now,
			}).Result()
			if err != nil {
				if d.ctx.Err() == nil {
					d.logger.WithError(err).Error("Failed to read scheduled notifications")
				}
				continue
			}

			for _, entry := range entries {
				if err := d.redis.LPush(d.ctx, notificationQueueKey, entry).Err(); err != nil {
					d.logger.WithError(err).Error("Failed to requeue scheduled notification")
					continue
				}
				d.redis.ZRem(d.ctx, notificationScheduledKey, entry)
			}
		}
	}
}
