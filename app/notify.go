/*
notify.go - Weekly notification rescheduling

A schedule is a set of (weekday, HH:MM) slots persisted in the
preferences document. Rescheduling is cancel-then-schedule: the
backend's pending set always mirrors the stored preference exactly.
Platform delivery is an injected backend; the default just logs.
*/
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/grace/verse-engine/core"
	"github.com/grace/verse-engine/store"
)

// Notifier delivers weekly reminder schedules to a platform backend.
type Notifier interface {
	Schedule(ctx context.Context, items []core.NotificationSchedule) error
	CancelAll(ctx context.Context) error
}

// LogNotifier is the default backend: it records what would fire.
type LogNotifier struct {
	Log *zap.SugaredLogger
}

func (n LogNotifier) Schedule(_ context.Context, items []core.NotificationSchedule) error {
	for _, it := range items {
		n.Log.Infow("notification scheduled", "weekday", it.Weekday, "time", it.Time)
	}
	return nil
}

func (n LogNotifier) CancelAll(context.Context) error {
	n.Log.Infow("pending notifications cancelled")
	return nil
}

// Reschedule aligns the backend with the stored preference. All
// pending notifications are cancelled first; new ones are scheduled
// only when the alarm is on and at least one slot exists.
func Reschedule(ctx context.Context, st *store.Store, n Notifier, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if n == nil {
		n = LogNotifier{Log: log}
	}

	prefs, err := st.Preferences(ctx)
	if err != nil {
		return err
	}
	if err := n.CancelAll(ctx); err != nil {
		return err
	}
	if !prefs.AlarmOn || len(prefs.AlarmSchedules) == 0 {
		return nil
	}
	return n.Schedule(ctx, prefs.AlarmSchedules)
}
