package worker

import (
	"context"
	"time"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/board/alert/alertsrv"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

// AlertWorker drains the event queue and runs a dispatch pass per event.
// Dispatch is best-effort: a failed pass is logged, never retried against
// the triggering write.
type AlertWorker struct {
	dispatcher *alertsrv.Dispatcher
	queue      alert.EventQueue
	workers    int
}

func NewAlertWorker(dispatcher *alertsrv.Dispatcher, queue alert.EventQueue, workers int) *AlertWorker {
	return &AlertWorker{
		dispatcher: dispatcher,
		queue:      queue,
		workers:    workers,
	}
}

func (w *AlertWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d alert workers", w.workers)

	for i := 0; i < w.workers; i++ {
		go w.processEvents(ctx, i)
	}
}

func (w *AlertWorker) processEvents(ctx context.Context, workerID int) {
	logx.Infof("Alert worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Alert worker %d stopping", workerID)
			return
		default:
			// Dequeue with 5 second timeout
			event, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Alert worker %d dequeue error: %v", workerID, err)
				continue
			}

			// nil event means the timeout elapsed with nothing pending
			if event == nil {
				continue
			}

			logx.Infof("Alert worker %d dispatching %s event for %s", workerID, event.Kind, event.SubjectID)
			if err := w.dispatcher.Dispatch(ctx, *event); err != nil {
				logx.Errorf("Alert worker %d dispatch failed for %s: %v", workerID, event.SubjectID, err)
			}
		}
	}
}
