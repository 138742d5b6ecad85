package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/calvinalkan/daybook/internal/config"
	"github.com/calvinalkan/daybook/internal/record"
	"github.com/calvinalkan/daybook/internal/store"
	"github.com/calvinalkan/daybook/pkg/query"

	flag "github.com/spf13/pflag"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg   *config.Config
	log   *logrus.Entry
	env   map[string]string
	stdin io.Reader
	now   func() time.Time

	globals *flag.FlagSet
	kv      store.KV
}

// store opens the configured backend on first use.
func (a *app) store(ctx context.Context) (store.KV, error) {
	if a.kv != nil {
		return a.kv, nil
	}

	kv, err := store.Open(ctx, a.cfg.Backend, a.cfg.DataDirAbs, a.log.WithField("component", "store"))
	if err != nil {
		return nil, err
	}

	a.kv = kv

	return kv, nil
}

func (a *app) close() {
	if a.kv == nil {
		return
	}

	err := a.kv.Close()
	if err != nil {
		a.log.WithError(err).Warn("closing store")
	}

	a.kv = nil
}

func (a *app) clock() query.Option {
	return query.WithClock(a.now)
}

// loadRecords reads one collection. A corrupt stored value is reported as a
// warning and treated as empty, so read-only commands keep working.
func loadRecords[T any](ctx context.Context, a *app, o *IO, kind string) ([]T, error) {
	kv, err := a.store(ctx)
	if err != nil {
		return nil, err
	}

	records, err := store.LoadCollection[T](ctx, kv, kind)
	if errors.Is(err, store.ErrCorrupt) {
		o.Warn(fmt.Sprintf("%s: %v", kind, err), "fix or remove the stored value; showing an empty collection")
		a.log.WithError(err).WithField("kind", kind).Warn("corrupt collection")

		return []T{}, nil
	}

	if err != nil {
		return nil, err
	}

	a.log.WithField("kind", kind).WithField("records", len(records)).Debug("loaded collection")

	return records, nil
}

// loadSnapshot reads every collection.
func loadSnapshot(ctx context.Context, a *app, o *IO) (record.Snapshot, error) {
	var (
		snap record.Snapshot
		err  error
	)

	snap.Todos, err = loadRecords[record.Todo](ctx, a, o, record.KindTodos)
	if err != nil {
		return snap, err
	}

	snap.Notes, err = loadRecords[record.Note](ctx, a, o, record.KindNotes)
	if err != nil {
		return snap, err
	}

	snap.Journal, err = loadRecords[record.Entry](ctx, a, o, record.KindJournal)
	if err != nil {
		return snap, err
	}

	snap.Goals, err = loadRecords[record.Goal](ctx, a, o, record.KindGoals)
	if err != nil {
		return snap, err
	}

	snap.Habits, err = loadRecords[record.Habit](ctx, a, o, record.KindHabits)

	return snap, err
}

// addRecord appends r to its collection.
func addRecord[T record.Record](ctx context.Context, a *app, kind string, r T) error {
	kv, err := a.store(ctx)
	if err != nil {
		return err
	}

	err = store.UpdateCollection(ctx, kv, kind, func(records []T) ([]T, error) {
		return append(records, r), nil
	})
	if err != nil {
		return err
	}

	a.log.WithField("kind", kind).WithField("id", r.GetID()).Info("added record")

	return nil
}

// updateRecord resolves idOrPrefix in kind and replaces the record with
// what fn returns.
func updateRecord[T record.Record](ctx context.Context, a *app, kind, idOrPrefix string, fn func(T) (T, error)) (T, error) {
	var updated T

	kv, err := a.store(ctx)
	if err != nil {
		return updated, err
	}

	err = store.UpdateCollection(ctx, kv, kind, func(records []T) ([]T, error) {
		c := record.NewCollection(records...)

		var updateErr error

		updated, updateErr = c.Update(idOrPrefix, fn)
		if updateErr != nil {
			return nil, updateErr
		}

		return c.Records(), nil
	})
	if err != nil {
		return updated, err
	}

	a.log.WithField("kind", kind).WithField("id", updated.GetID()).Info("updated record")

	return updated, nil
}

// deleteRecord removes the record resolved from idOrPrefix.
func deleteRecord[T record.Record](ctx context.Context, a *app, kind, idOrPrefix string) (T, error) {
	var removed T

	kv, err := a.store(ctx)
	if err != nil {
		return removed, err
	}

	err = store.UpdateCollection(ctx, kv, kind, func(records []T) ([]T, error) {
		c := record.NewCollection(records...)

		var deleteErr error

		removed, deleteErr = c.Delete(idOrPrefix)
		if deleteErr != nil {
			return nil, deleteErr
		}

		return c.Records(), nil
	})
	if err != nil {
		return removed, err
	}

	a.log.WithField("kind", kind).WithField("id", removed.GetID()).Info("deleted record")

	return removed, nil
}

// findRecord resolves idOrPrefix without writing.
func findRecord[T record.Record](ctx context.Context, a *app, o *IO, kind, idOrPrefix string) (T, error) {
	records, err := loadRecords[T](ctx, a, o, kind)
	if err != nil {
		var zero T

		return zero, err
	}

	return record.NewCollection(records...).Resolve(idOrPrefix)
}
