// Package backup keeps the local record and the remote mirror eventually
// consistent: restore on boot, debounced push on change with a max-wait
// ceiling, a watchdog flush, visibility and shutdown flushes, and pull
// polling guarded by the dirty flag so unsaved local edits are never
// clobbered.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/planloop/planloop/internal/domain"
	"github.com/planloop/planloop/internal/logger"
	"github.com/planloop/planloop/internal/mirror"
	"github.com/planloop/planloop/internal/store"
)

// ErrDirtyNeedsConfirm is returned by PullLatest when local edits have not
// been pushed yet: overwriting them is a user decision, never a silent one.
var ErrDirtyNeedsConfirm = errors.New("local changes not yet backed up; confirm overwrite to pull")

// ErrNoSafetyCopy is returned by RecoverSafetyCopy when no pull has
// displaced local data this session.
var ErrNoSafetyCopy = errors.New("no safety copy to recover")

const pushTimeout = 15 * time.Second

// Mirror is the remote row surface the adapter drives. *mirror.Client
// satisfies it; tests substitute counting fakes.
type Mirror interface {
	FetchRow(ctx context.Context, workspaceKey string) (*mirror.Row, error)
	FetchUpdatedAt(ctx context.Context, workspaceKey string) (time.Time, error)
	UpsertRow(ctx context.Context, workspaceKey string, data []byte, schemaVersion int, updatedAt time.Time) (time.Time, error)
}

// Local is the slice of the persistence layer the adapter needs: the boot
// plausibility check and the migration-safe import path for remote payloads.
type Local interface {
	HasRecord() bool
	MigrateJSON(blob []byte) domain.AppData
}

// Options configures the adapter's timing. Zero values take the defaults.
type Options struct {
	Debounce     time.Duration // quiet period before a push (default 2.5s)
	MaxWait      time.Duration // ceiling: push at least this often while dirty (default 10s)
	Watchdog     time.Duration // safety-net flush interval (default 60s)
	PollInterval time.Duration // remote change probe interval (default 30s)
	AutoSync     bool          // pull polling enabled initially
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = 2500 * time.Millisecond
	}
	if o.MaxWait <= 0 {
		o.MaxWait = 10 * time.Second
	}
	if o.Watchdog <= 0 {
		o.Watchdog = 60 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 30 * time.Second
	}
	return o
}

// Status is the read-only sync state exposed for display.
type Status struct {
	WorkspaceKey    string    `json:"workspaceKey"`
	AutoSync        bool      `json:"autoSync"`
	Dirty           bool      `json:"dirty"`
	RemoteNewer     bool      `json:"remoteNewer"`
	LastPushAt      time.Time `json:"lastPushAt"`
	LastRemoteAt    time.Time `json:"lastRemoteAt"`
	LastLocalSaveAt time.Time `json:"lastLocalSaveAt"`
}

// Adapter mirrors one store to the remote row of its current workspace.
// All trigger sources funnel into scheduleFlush/flush; timers never
// duplicate: at most one pending debounce, one ceiling and one watchdog
// exist at any time.
type Adapter struct {
	st     *store.Store
	remote Mirror
	local  Local
	log    logger.Logger
	opts   Options

	mu           sync.Mutex
	workspaceKey string
	workspaceID  string
	dirty        bool
	remoteNewer  bool
	visible      bool
	autoSync     bool
	pushing      bool
	rerun        bool
	pushWait     chan struct{} // closed when the in-flight push finishes
	stopped      bool
	gen          uint64 // bumped on every local change; guards dirty clearing
	lastPushAt   time.Time
	lastRemoteAt time.Time
	suppress     bool // our own imports must not re-mark the store dirty

	debounceTimer *time.Timer
	ceilingTimer  *time.Timer
	watchdogTimer *time.Timer

	safetyCopy *domain.AppData
	unsub      func()
	pollStop   chan struct{}
	pollDone   chan struct{}
}

// New creates an adapter bound to a store and a mirror. Call Start to boot.
func New(st *store.Store, remote Mirror, local Local, opts Options, log logger.Logger) *Adapter {
	return &Adapter{
		st:       st,
		remote:   remote,
		local:    local,
		log:      log,
		opts:     opts.withDefaults(),
		visible:  true,
		autoSync: opts.AutoSync,
		pollStop: make(chan struct{}),
		pollDone: make(chan struct{}),
	}
}

// Start runs the boot restore, subscribes to store changes and arms the
// watchdog and the poll loop. It never fails: a dead mirror at boot just
// means local data stays authoritative.
func (a *Adapter) Start(ctx context.Context) {
	a.restore(ctx)

	a.mu.Lock()
	a.workspaceID = a.st.CurrentWorkspaceID()
	a.workspaceKey = domain.NormalizeWorkspaceKey(a.workspaceID)
	a.armWatchdogLocked()
	a.mu.Unlock()

	a.unsub = a.st.Subscribe(a.onStoreChange)
	go a.pollLoop()
}

// restore decides who wins at boot: a plausible local record is
// authoritative and remote restore is skipped entirely; otherwise the
// remote row (when one exists) is imported wholesale through migration.
func (a *Adapter) restore(ctx context.Context) {
	key := domain.NormalizeWorkspaceKey(a.st.CurrentWorkspaceID())

	if a.local.HasRecord() {
		a.log.Debug("local record present, skipping remote restore",
			logger.String("workspace_key", key))
		// Still note the remote timestamp for later poll comparison.
		if ts, err := a.remote.FetchUpdatedAt(ctx, key); err == nil {
			a.mu.Lock()
			a.lastRemoteAt = ts
			a.mu.Unlock()
		}
		return
	}

	a.mu.Lock()
	okGen := a.gen
	a.mu.Unlock()

	row, err := a.remote.FetchRow(ctx, key)
	if err != nil {
		if errors.Is(err, mirror.ErrNotFound) {
			a.log.Info("no remote backup yet, starting from defaults",
				logger.String("workspace_key", key))
		} else {
			a.log.Warn("remote restore failed, starting from defaults",
				logger.String("workspace_key", key),
				logger.Error(err))
		}
		return
	}

	if a.importRow(row, okGen, false) {
		a.log.Info("restored state from remote backup",
			logger.String("workspace_key", key),
			logger.Time("remote_updated_at", row.UpdatedAt))
	}
}

// onStoreChange is the subscription callback: every committed change either
// re-initializes the workspace context (after a switch) or marks dirty and
// schedules a push.
func (a *Adapter) onStoreChange() {
	a.mu.Lock()
	if a.suppress || a.stopped {
		a.mu.Unlock()
		return
	}

	id := a.st.CurrentWorkspaceID()
	key := domain.NormalizeWorkspaceKey(id)
	if key != a.workspaceKey {
		oldKey := a.workspaceKey
		oldID := a.workspaceID
		wasDirty := a.dirty
		a.workspaceKey = key
		a.workspaceID = id
		a.dirty = false
		a.remoteNewer = false
		a.lastRemoteAt = time.Time{}
		a.lastPushAt = time.Time{}
		a.gen++
		a.cancelPushTimersLocked()
		a.mu.Unlock()

		a.log.Info("workspace switched, sync context reset",
			logger.String("from", oldKey),
			logger.String("to", key))
		if wasDirty && oldKey != "" {
			// Unpushed edits from the previous context go out under its key,
			// best effort. The snapshot is captured now, with its current
			// workspace rewound, so the row round-trips to the state it was
			// authored under.
			data := a.st.Snapshot()
			data.CurrentWorkspaceID = oldID
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
				defer cancel()
				if _, err := a.pushData(ctx, oldKey, data); err != nil {
					a.log.Warn("failed to flush previous workspace before switch",
						logger.String("workspace_key", oldKey),
						logger.Error(err))
				}
			}()
		}
		return
	}

	a.gen++
	a.dirty = true
	a.scheduleFlushLocked()
	a.mu.Unlock()
}

// scheduleFlushLocked is the single push-scheduling entry point: immediate
// when the ceiling has already been exceeded, otherwise debounced with a
// ceiling timer armed so continuous editing still pushes periodically.
func (a *Adapter) scheduleFlushLocked() {
	if !a.lastPushAt.IsZero() && time.Since(a.lastPushAt) >= a.opts.MaxWait {
		go a.flush("max-wait")
		return
	}

	if a.debounceTimer != nil {
		a.debounceTimer.Stop()
	}
	a.debounceTimer = time.AfterFunc(a.opts.Debounce, func() { a.flush("debounce") })

	if a.ceilingTimer == nil {
		wait := a.opts.MaxWait
		if !a.lastPushAt.IsZero() {
			if remaining := a.opts.MaxWait - time.Since(a.lastPushAt); remaining < wait {
				wait = remaining
			}
		}
		a.ceilingTimer = time.AfterFunc(wait, func() { a.flush("ceiling") })
	}
}

// flush is the single push exit point for every trigger source. Pushes
// never overlap: a trigger arriving mid-push schedules a rerun instead and
// reports nil, because the queued rerun will carry the pending edits out.
// A non-nil return means a push was attempted here and failed.
func (a *Adapter) flush(reason string) error {
	a.mu.Lock()
	if a.stopped || !a.dirty {
		a.mu.Unlock()
		return nil
	}
	if a.pushing {
		a.rerun = true
		a.mu.Unlock()
		return nil
	}
	a.pushing = true
	a.pushWait = make(chan struct{})
	a.cancelPushTimersLocked()
	key := a.workspaceKey
	startGen := a.gen
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	stored, err := a.pushSnapshot(ctx, key)
	cancel()

	a.mu.Lock()
	a.pushing = false
	close(a.pushWait)
	if err != nil {
		// Stay dirty; the next debounce, watchdog or manual trigger retries.
		a.log.Warn("backup push failed",
			logger.String("workspace_key", key),
			logger.String("reason", reason),
			logger.Error(err))
	} else {
		if a.gen == startGen {
			a.dirty = false
		}
		a.lastPushAt = time.Now()
		// This client authored the row, so the remote timestamp is ours.
		a.lastRemoteAt = stored
		a.remoteNewer = false
		a.armWatchdogLocked()
		a.log.Debug("backup pushed",
			logger.String("workspace_key", key),
			logger.String("reason", reason),
			logger.Time("remote_updated_at", stored))
	}
	rerun := a.rerun || (err == nil && a.gen != startGen)
	a.rerun = false
	a.mu.Unlock()

	if rerun {
		return a.flush("rerun")
	}
	return err
}

// pushSnapshot serializes the store's current projection and upserts it
// under the given key.
func (a *Adapter) pushSnapshot(ctx context.Context, key string) (time.Time, error) {
	return a.pushData(ctx, key, a.st.Snapshot())
}

// pushData upserts an explicit state under the given key. It does not touch
// adapter state.
func (a *Adapter) pushData(ctx context.Context, key string, data domain.AppData) (time.Time, error) {
	blob, err := json.Marshal(data)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to serialize state: %w", err)
	}
	return a.remote.UpsertRow(ctx, key, blob, domain.SchemaVersion, time.Now())
}

// importRow replaces local state with a remote payload through the same
// migration path local loads use, without re-marking the adapter dirty.
// The caller passes the gen it observed when the import was approved: an
// edit that landed since (fetches take real time) aborts the import and
// raises remoteNewer instead, so unpushed local work is never erased. A
// dirty state aborts too unless the caller holds an explicit confirmation.
func (a *Adapter) importRow(row *mirror.Row, okGen uint64, overwriteDirty bool) bool {
	migrated := a.local.MigrateJSON(row.Data)

	a.mu.Lock()
	if a.gen != okGen || (a.dirty && !overwriteDirty) {
		a.remoteNewer = true
		a.mu.Unlock()
		return false
	}
	a.suppress = true
	a.mu.Unlock()

	a.st.ImportState(migrated)

	a.mu.Lock()
	a.suppress = false
	a.workspaceID = a.st.CurrentWorkspaceID()
	a.workspaceKey = domain.NormalizeWorkspaceKey(a.workspaceID)
	a.lastRemoteAt = row.UpdatedAt
	a.dirty = false
	a.remoteNewer = false
	a.gen++
	a.mu.Unlock()
	return true
}

func (a *Adapter) cancelPushTimersLocked() {
	if a.debounceTimer != nil {
		a.debounceTimer.Stop()
		a.debounceTimer = nil
	}
	if a.ceilingTimer != nil {
		a.ceilingTimer.Stop()
		a.ceilingTimer = nil
	}
}

// armWatchdogLocked (re)arms the safety-net flush. It re-arms after every
// push and after every firing, so exactly one watchdog is ever pending.
func (a *Adapter) armWatchdogLocked() {
	if a.watchdogTimer != nil {
		a.watchdogTimer.Stop()
	}
	a.watchdogTimer = time.AfterFunc(a.opts.Watchdog, func() {
		a.flush("watchdog")
		a.mu.Lock()
		if !a.stopped {
			a.armWatchdogLocked()
		}
		a.mu.Unlock()
	})
}

// SetVisible tracks tab visibility: hiding flushes pending edits
// immediately and suspends pull polling until visible again.
func (a *Adapter) SetVisible(visible bool) {
	a.mu.Lock()
	if a.visible == visible {
		a.mu.Unlock()
		return
	}
	a.visible = visible
	a.mu.Unlock()

	if !visible {
		a.flush("hidden")
	}
}

// SetAutoSync toggles pull polling.
func (a *Adapter) SetAutoSync(enabled bool) {
	a.mu.Lock()
	a.autoSync = enabled
	a.mu.Unlock()
}

// Status reports the adapter's current state for display only.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		WorkspaceKey:    a.workspaceKey,
		AutoSync:        a.autoSync,
		Dirty:           a.dirty,
		RemoteNewer:     a.remoteNewer,
		LastPushAt:      a.lastPushAt,
		LastRemoteAt:    a.lastRemoteAt,
		LastLocalSaveAt: a.st.LastLocalSaveAt(),
	}
}

// Close is the unload path: stop all timers and polling, then push one
// final time if dirty, best effort with no retry.
func (a *Adapter) Close(ctx context.Context) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	wasDirty := a.dirty
	key := a.workspaceKey
	a.cancelPushTimersLocked()
	if a.watchdogTimer != nil {
		a.watchdogTimer.Stop()
		a.watchdogTimer = nil
	}
	a.mu.Unlock()

	if a.unsub != nil {
		a.unsub()
	}
	close(a.pollStop)
	<-a.pollDone

	if wasDirty {
		if _, err := a.pushSnapshot(ctx, key); err != nil {
			a.log.Warn("final backup flush failed", logger.Error(err))
		} else {
			a.log.Info("final backup flushed", logger.String("workspace_key", key))
		}
	}
}
