package memory

import (
	"context"
	"sort"
	"time"

	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/eventlog/repository"
)

func (r *implRepository) Append(ctx context.Context, e eventlog.Event) (eventlog.Event, error) {
	e, err := repository.Prepare(e, r.now())
	if err != nil {
		return eventlog.Event{}, err
	}
	e = e.Clone()

	r.mu.Lock()
	if e.DedupKey != "" {
		if _, dup := r.keys[e.DedupKey]; dup {
			r.mu.Unlock()
			r.metrics.RecordAppend(string(e.Kind), "duplicate")
			return eventlog.Event{}, eventlog.ErrDuplicate
		}
		r.keys[e.DedupKey] = struct{}{}
	}
	e.Seq = int64(len(r.events)) + 1
	r.events = append(r.events, e)
	r.index(len(r.events)-1, e.OccurredAt)
	r.mu.Unlock()

	r.metrics.RecordAppend(string(e.Kind), "appended")
	return e.Clone(), nil
}

func (r *implRepository) List(ctx context.Context, opt repository.ListOptions) ([]eventlog.Event, error) {
	r.mu.RLock()
	lo := r.search(opt.Start)
	hi := len(r.byTime)
	if !opt.End.IsZero() {
		hi = r.search(opt.End)
	}
	var positions []int
	if lo < hi {
		positions = append(positions, r.byTime[lo:hi]...)
	}
	snapshot := r.events[:len(r.events):len(r.events)]
	r.mu.RUnlock()

	// Results keep append order.
	sort.Ints(positions)

	var out []eventlog.Event
	for _, pos := range positions {
		if e := snapshot[pos]; opt.Matches(e) {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

// index inserts pos into byTime after every event at or before at. Caller holds mu.
func (r *implRepository) index(pos int, at time.Time) {
	i := sort.Search(len(r.byTime), func(i int) bool {
		return r.events[r.byTime[i]].OccurredAt.After(at)
	})
	r.byTime = append(r.byTime, 0)
	copy(r.byTime[i+1:], r.byTime[i:])
	r.byTime[i] = pos
}

// search returns the first byTime slot whose event is not before t. Caller holds mu.
func (r *implRepository) search(t time.Time) int {
	return sort.Search(len(r.byTime), func(i int) bool {
		return !r.events[r.byTime[i]].OccurredAt.Before(t)
	})
}

func (r *implRepository) Exists(ctx context.Context, dedupKey string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.keys[dedupKey]
	return ok, nil
}

func (r *implRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events), nil
}

func (r *implRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *implRepository) Close() error {
	return nil
}
