package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ahmed-Younes0x/greenswap/internal/events"
	"github.com/Ahmed-Younes0x/greenswap/internal/service"
)

const queueSize = 128

// NotificationWorker moves notification delivery off the request path.
// Events are enqueued from the synchronous dispatcher and handled by a
// single background goroutine.
type NotificationWorker struct {
	queue  chan events.Event
	notify *service.NotificationService
	logger *zap.Logger
}

// StartNotificationWorker subscribes the worker to the notification
// service's event types and starts the drain loop. The loop exits when
// ctx is cancelled; queued events still in flight are dropped.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notify *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	w := &NotificationWorker{
		queue:  make(chan events.Event, queueSize),
		notify: notify,
		logger: logger,
	}
	for _, eventType := range notify.EventTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	go w.run(ctx)
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID))
	}
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.queue:
			if err := w.notify.Handle(ctx, event); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}
