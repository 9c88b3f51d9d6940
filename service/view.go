package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"ims-client/client"
)

// listView is the state shared by the product, order and supplier
// screens: the fetched collection, the search query, the phase and the
// last notification. It is safe for concurrent use.
type listView[T any] struct {
	name   string
	fetch  func(context.Context) ([]T, error)
	match  func(T, string) bool
	logger *log.Logger
	guard  *Guard

	mu         sync.Mutex
	phase      Phase
	submitting bool
	items      []T
	query      string
	failMsg    string
	note       *Notification
	gen        uint64
	mounted    bool
	base       context.Context
	cancel     context.CancelFunc
}

func newListView[T any](name string, sessions Sessions, logger *log.Logger,
	fetch func(context.Context) ([]T, error), match func(T, string) bool) *listView[T] {
	if logger == nil {
		logger = log.Default()
	}
	v := &listView[T]{name: name, fetch: fetch, match: match, logger: logger}
	v.guard = NewGuard(sessions, v.Unmount)
	return v
}

// Mount checks the session and loads the collection. Without a session
// nothing is fetched and ErrUnauthenticated is returned.
func (v *listView[T]) Mount(ctx context.Context) error {
	if err := v.guard.Enter(); err != nil {
		return err
	}
	v.mu.Lock()
	if !v.mounted {
		v.base, v.cancel = context.WithCancel(context.Background())
		v.mounted = true
	}
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// Unmount drops the view: in-flight calls are cancelled and their results
// discarded.
func (v *listView[T]) Unmount() {
	v.guard.Leave()
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.mounted = false
	v.gen++
	v.cancel()
	if v.phase == Loading || v.phase == Submitting {
		v.phase = Idle
	}
}

// bind returns ctx cancelled also when the view unmounts, and the
// generation the result must still match to be applied.
func (v *listView[T]) bind(ctx context.Context) (context.Context, context.CancelFunc, uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return nil, nil, 0, ErrNotMounted
	}
	cctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(v.base, cancel)
	return cctx, func() { stop(); cancel() }, v.gen, nil
}

// Refresh re-fetches the collection. A failed refresh after a good load
// keeps the old list and only raises a notification.
func (v *listView[T]) Refresh(ctx context.Context) error {
	cctx, done, gen, err := v.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	v.mu.Lock()
	hadData := v.phase == Loaded || v.submitting
	if !v.submitting {
		v.phase = Loading
	}
	v.mu.Unlock()

	items, err := v.fetch(cctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return nil
	}
	if err != nil {
		v.logger.Printf("%s: fetch failed: %v", v.name, err)
		msg := client.Message(err, "Failed to fetch "+v.name+".")
		v.note = failure(msg)
		v.authFailure(err)
		if hadData {
			v.settle(Loaded)
		} else {
			v.settle(Failed)
			v.failMsg = msg
		}
		return err
	}
	v.items = items
	v.failMsg = ""
	v.settle(Loaded)
	return nil
}

// settle moves the view to p unless a write is still in flight, in which
// case it stays Submitting until that write ends. Must be called with v.mu
// held.
func (v *listView[T]) settle(p Phase) {
	if !v.submitting {
		v.phase = p
	}
}

// authFailure sends the user to login when the session is gone. Must be
// called with v.mu held.
func (v *listView[T]) authFailure(err error) {
	if errors.Is(err, client.ErrNoSession) {
		v.guard.toLogin()
	}
}

// mutation describes one create/update/delete round trip.
type mutation[T any] struct {
	call    func(context.Context) error
	okMsg   string
	failMsg string
	// patch edits the in-memory list after success; when nil the list is
	// re-fetched instead.
	patch func([]T) []T
}

func (v *listView[T]) submit(ctx context.Context, m mutation[T]) error {
	cctx, done, gen, err := v.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return ErrBusy
	}
	v.submitting = true
	v.phase = Submitting
	v.mu.Unlock()
	defer v.endSubmit()

	err = m.call(cctx)

	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return nil
	}
	if err != nil {
		v.logger.Printf("%s: %s: %v", v.name, m.failMsg, err)
		v.note = failure(client.Message(err, m.failMsg))
		v.authFailure(err)
		v.mu.Unlock()
		return err
	}
	v.note = success(m.okMsg)
	if m.patch != nil {
		v.items = m.patch(v.items)
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	// The write went through; a failing re-read only leaves a stale list.
	if rerr := v.Refresh(ctx); rerr != nil {
		v.logger.Printf("%s: refresh after write: %v", v.name, rerr)
	}
	v.mu.Lock()
	v.note = success(m.okMsg)
	v.mu.Unlock()
	return nil
}

// endSubmit clears the in-flight write and leaves Submitting.
func (v *listView[T]) endSubmit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitting = false
	if v.phase == Submitting {
		v.phase = Loaded
	}
}

// reject records a local validation failure as a notification.
func (v *listView[T]) reject(err *ValidationError) error {
	v.mu.Lock()
	v.note = failure(err.Message)
	v.mu.Unlock()
	return err
}

// SetQuery sets the search text; Visible recomputes from the full list.
func (v *listView[T]) SetQuery(q string) {
	v.mu.Lock()
	v.query = q
	v.mu.Unlock()
}

func (v *listView[T]) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Items returns the full fetched collection.
func (v *listView[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// Visible returns the items matching the current query.
func (v *listView[T]) Visible() []T {
	v.mu.Lock()
	items, q := v.items, v.query
	v.mu.Unlock()
	return Filter(items, q, v.match)
}

func (v *listView[T]) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Error returns the message of a failed initial load.
func (v *listView[T]) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.failMsg
}

func (v *listView[T]) Notification() *Notification {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.note == nil {
		return nil
	}
	n := *v.note
	return &n
}

func (v *listView[T]) Dismiss() {
	v.mu.Lock()
	v.note = nil
	v.mu.Unlock()
}

// Redirect returns the navigation the view is asking for, if any.
func (v *listView[T]) Redirect() *Redirect {
	return v.guard.Redirect()
}

// find returns the first item satisfying pred.
func (v *listView[T]) find(pred func(T) bool) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, it := range v.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
