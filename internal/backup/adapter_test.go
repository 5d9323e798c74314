package backup

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/planloop/planloop/internal/domain"
	"github.com/planloop/planloop/internal/logger"
	"github.com/planloop/planloop/internal/mirror"
	"github.com/planloop/planloop/internal/persist"
	"github.com/planloop/planloop/internal/sources/seeds"
	"github.com/planloop/planloop/internal/store"
)

// fakeMirror is an in-memory Mirror with per-key upsert counters. The
// one-shot gate channels, when set, park the next FetchRow or UpsertRow
// until released so tests can race edits against an in-flight call.
type fakeMirror struct {
	mu            sync.Mutex
	rows          map[string]*mirror.Row
	upserts       map[string]int
	failUpsert    bool
	fetchStarted  chan struct{}
	fetchRelease  chan struct{}
	upsertStarted chan struct{}
	upsertRelease chan struct{}
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		rows:    make(map[string]*mirror.Row),
		upserts: make(map[string]int),
	}
}

func (f *fakeMirror) FetchRow(ctx context.Context, key string) (*mirror.Row, error) {
	f.mu.Lock()
	started, release := f.fetchStarted, f.fetchRelease
	f.fetchStarted, f.fetchRelease = nil, nil
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[key]
	if !ok {
		return nil, mirror.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeMirror) FetchUpdatedAt(ctx context.Context, key string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[key]
	if !ok {
		return time.Time{}, mirror.ErrNotFound
	}
	return row.UpdatedAt, nil
}

func (f *fakeMirror) UpsertRow(ctx context.Context, key string, data []byte, schemaVersion int, updatedAt time.Time) (time.Time, error) {
	f.mu.Lock()
	started, release := f.upsertStarted, f.upsertRelease
	f.upsertStarted, f.upsertRelease = nil, nil
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return time.Time{}, errors.New("mirror unavailable")
	}
	updatedAt = time.UnixMilli(updatedAt.UnixMilli()).UTC()
	if prev, ok := f.rows[key]; ok && !updatedAt.After(prev.UpdatedAt) {
		updatedAt = prev.UpdatedAt.Add(time.Millisecond)
	}
	f.rows[key] = &mirror.Row{
		WorkspaceKey:  key,
		Data:          append([]byte(nil), data...),
		SchemaVersion: schemaVersion,
		UpdatedAt:     updatedAt,
	}
	f.upserts[key]++
	return updatedAt, nil
}

func (f *fakeMirror) upsertCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts[key]
}

func (f *fakeMirror) rowSchema(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[key]; ok {
		return row.SchemaVersion
	}
	return -1
}

func (f *fakeMirror) rowData(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[key]; ok {
		return append([]byte(nil), row.Data...)
	}
	return nil
}

func (f *fakeMirror) setRow(key string, data domain.AppData, at time.Time) {
	blob, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[key] = &mirror.Row{
		WorkspaceKey:  key,
		Data:          blob,
		SchemaVersion: domain.SchemaVersion,
		UpdatedAt:     time.UnixMilli(at.UnixMilli()).UTC(),
	}
}

// fakeLocal controls the boot plausibility check and routes remote payloads
// through the plain JSON path without touching disk.
type fakeLocal struct {
	hasRecord bool
}

func (f *fakeLocal) HasRecord() bool { return f.hasRecord }

func (f *fakeLocal) MigrateJSON(blob []byte) domain.AppData {
	var data domain.AppData
	if err := json.Unmarshal(blob, &data); err != nil {
		return domain.AppData{Version: domain.SchemaVersion}
	}
	return data
}

func persistStore(t *testing.T) *persist.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planloop.json")
	return persist.New(path, seeds.DefaultWorkspaces(), seeds.DefaultBins(), logger.Nop())
}

func testData() domain.AppData {
	return domain.AppData{
		Version: domain.SchemaVersion,
		Workspaces: []domain.Workspace{
			{ID: "personal", Name: "Personal"},
			{ID: "studio", Name: "Studio"},
		},
		Bins: []domain.Bin{
			{ID: "bin-hooks", WorkspaceID: "personal", Name: "Hooks"},
		},
		CurrentWorkspaceID: "personal",
		Done:               map[string]domain.DoneRecord{},
		GridsByWorkspace: map[string]domain.GridState{
			"personal": domain.NewGridState(1),
			"studio":   domain.NewGridState(1),
		},
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testData(), store.Options{PersistDebounce: time.Hour}, logger.Nop())
}

func newTestAdapter(t *testing.T, st *store.Store, fm *fakeMirror, local Local, opts Options) *Adapter {
	t.Helper()
	if local == nil {
		local = &fakeLocal{hasRecord: true}
	}
	a := New(st, fm, local, opts, logger.Nop())
	a.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.Close(ctx)
	})
	return a
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestDebounceBatchesBurstIntoOnePush(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	newTestAdapter(t, st, fm, nil, Options{
		Debounce:     60 * time.Millisecond,
		MaxWait:      time.Second,
		Watchdog:     time.Hour,
		PollInterval: time.Hour,
	})

	for i := 0; i < 5; i++ {
		if _, err := st.AddIdea("", "idea"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return fm.upsertCount("personal") > 0 })
	time.Sleep(150 * time.Millisecond)

	if got := fm.upsertCount("personal"); got != 1 {
		t.Fatalf("want exactly 1 push for the burst, got %d", got)
	}
	if got := fm.rowSchema("personal"); got != domain.SchemaVersion {
		t.Fatalf("pushed schema version = %d, want %d", got, domain.SchemaVersion)
	}
}

func TestCeilingPushesDuringContinuousEditing(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	newTestAdapter(t, st, fm, nil, Options{
		Debounce:     50 * time.Millisecond,
		MaxWait:      120 * time.Millisecond,
		Watchdog:     time.Hour,
		PollInterval: time.Hour,
	})

	// Edit faster than the debounce window so the debounce alone never
	// fires; the ceiling must push anyway.
	stop := time.After(400 * time.Millisecond)
	for {
		select {
		case <-stop:
			if got := fm.upsertCount("personal"); got < 2 {
				t.Fatalf("want at least 2 ceiling pushes during continuous editing, got %d", got)
			}
			return
		default:
			if _, err := st.AddIdea("", "more"); err != nil {
				t.Fatal(err)
			}
			time.Sleep(15 * time.Millisecond)
		}
	}
}

func TestPushFailureKeepsDirtyAndRetries(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	fm.failUpsert = true
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     30 * time.Millisecond,
		MaxWait:      time.Second,
		Watchdog:     time.Hour,
		PollInterval: time.Hour,
	})

	if _, err := st.AddIdea("", "idea"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if !a.Status().Dirty {
		t.Fatal("failed push must leave the adapter dirty")
	}

	fm.mu.Lock()
	fm.failUpsert = false
	fm.mu.Unlock()
	if err := a.ForceBackup(context.Background()); err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
	if a.Status().Dirty {
		t.Fatal("successful retry must clear dirty")
	}
}

func TestPollImportsNewerRemoteWhenClean(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     30 * time.Millisecond,
		MaxWait:      time.Second,
		Watchdog:     time.Hour,
		PollInterval: 40 * time.Millisecond,
		AutoSync:     true,
	})

	remote := testData()
	remote.Ideas = []domain.Idea{{ID: "remote-idea", WorkspaceID: "personal", Text: "from elsewhere", Status: domain.StatusBrainstorming}}
	fm.setRow("personal", remote, time.Now().Add(time.Minute))

	waitFor(t, time.Second, func() bool {
		snap := st.Snapshot()
		return len(snap.Ideas) == 1 && snap.Ideas[0].ID == "remote-idea"
	})
	if a.Status().Dirty {
		t.Fatal("auto-import must not mark the adapter dirty")
	}
}

func TestPollNeverClobbersDirtyLocalEdits(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     time.Hour, // never auto-push, stay dirty
		MaxWait:      time.Hour,
		Watchdog:     time.Hour,
		PollInterval: 40 * time.Millisecond,
		AutoSync:     true,
	})

	idea, err := st.AddIdea("", "unsaved local edit")
	if err != nil {
		t.Fatal(err)
	}

	remote := testData()
	fm.setRow("personal", remote, time.Now().Add(time.Minute))

	waitFor(t, time.Second, func() bool { return a.Status().RemoteNewer })

	snap := st.Snapshot()
	if len(snap.Ideas) != 1 || snap.Ideas[0].ID != idea.ID {
		t.Fatal("poll overwrote unpushed local edits")
	}
	if !a.Status().Dirty {
		t.Fatal("dirty flag must survive the blocked pull")
	}
}

func TestPollKeepsEditThatLandsDuringPullFetch(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	fetchStarted := make(chan struct{})
	fetchRelease := make(chan struct{})
	fm.mu.Lock()
	fm.fetchStarted, fm.fetchRelease = fetchStarted, fetchRelease
	fm.mu.Unlock()

	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     time.Hour,
		MaxWait:      time.Hour,
		Watchdog:     time.Hour,
		PollInterval: 30 * time.Millisecond,
		AutoSync:     true,
	})

	remote := testData()
	fm.setRow("personal", remote, time.Now().Add(time.Minute))

	// The poll approved the import while clean and is now parked inside
	// the row fetch. Commit an edit before letting the fetch finish.
	<-fetchStarted
	idea, err := st.AddIdea("", "landed mid-fetch")
	if err != nil {
		t.Fatal(err)
	}
	close(fetchRelease)

	waitFor(t, time.Second, func() bool { return a.Status().RemoteNewer })
	snap := st.Snapshot()
	if len(snap.Ideas) != 1 || snap.Ideas[0].ID != idea.ID {
		t.Fatal("pull overwrote an edit that landed during the fetch")
	}
	if !a.Status().Dirty {
		t.Fatal("the mid-fetch edit must stay marked for push")
	}
}

func TestPollRespectsVisibilityAndAutoSync(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     time.Hour,
		MaxWait:      time.Hour,
		Watchdog:     time.Hour,
		PollInterval: 30 * time.Millisecond,
		AutoSync:     true,
	})
	a.SetVisible(false)

	remote := testData()
	remote.Ideas = []domain.Idea{{ID: "remote-idea", WorkspaceID: "personal", Status: domain.StatusBrainstorming}}
	fm.setRow("personal", remote, time.Now().Add(time.Minute))

	time.Sleep(120 * time.Millisecond)
	if len(st.Snapshot().Ideas) != 0 {
		t.Fatal("hidden app must not poll")
	}

	a.SetVisible(true)
	a.SetAutoSync(false)
	time.Sleep(120 * time.Millisecond)
	if len(st.Snapshot().Ideas) != 0 {
		t.Fatal("auto-sync off must not poll")
	}

	a.SetAutoSync(true)
	waitFor(t, time.Second, func() bool { return len(st.Snapshot().Ideas) == 1 })
}

func TestManualPullRequiresConfirmWhenDirty(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     time.Hour,
		MaxWait:      time.Hour,
		Watchdog:     time.Hour,
		PollInterval: time.Hour,
	})

	localIdea, err := st.AddIdea("", "precious local edit")
	if err != nil {
		t.Fatal(err)
	}
	remote := testData()
	remote.Ideas = []domain.Idea{{ID: "remote-idea", WorkspaceID: "personal", Status: domain.StatusBrainstorming}}
	fm.setRow("personal", remote, time.Now())

	err = a.PullLatest(context.Background(), false)
	if !errors.Is(err, ErrDirtyNeedsConfirm) {
		t.Fatalf("unconfirmed pull over dirty state: got %v, want ErrDirtyNeedsConfirm", err)
	}
	if got := st.Snapshot().Ideas[0].ID; got != localIdea.ID {
		t.Fatal("refused pull must not touch local state")
	}

	if err := a.PullLatest(context.Background(), true); err != nil {
		t.Fatalf("confirmed pull: %v", err)
	}
	if got := st.Snapshot().Ideas[0].ID; got != "remote-idea" {
		t.Fatalf("confirmed pull imported %q, want remote-idea", got)
	}
	if !a.HasSafetyCopy() {
		t.Fatal("confirmed pull over dirty state must park a safety copy")
	}

	if err := a.RecoverSafetyCopy(); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if got := st.Snapshot().Ideas[0].ID; got != localIdea.ID {
		t.Fatal("recovery must restore the displaced local state")
	}
	if err := a.RecoverSafetyCopy(); !errors.Is(err, ErrNoSafetyCopy) {
		t.Fatalf("second recover: got %v, want ErrNoSafetyCopy", err)
	}
}

func TestManualPullWhenCleanNeedsNoConfirmAndNoSafetyCopy(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	})

	remote := testData()
	remote.Ideas = []domain.Idea{{ID: "remote-idea", WorkspaceID: "personal", Status: domain.StatusBrainstorming}}
	fm.setRow("personal", remote, time.Now())

	if err := a.PullLatest(context.Background(), false); err != nil {
		t.Fatalf("clean pull: %v", err)
	}
	if a.HasSafetyCopy() {
		t.Fatal("clean pull must not create a safety copy")
	}
}

func TestForceBackupIsNoopWhenClean(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	})

	if err := a.ForceBackup(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := fm.upsertCount("personal"); got != 0 {
		t.Fatalf("clean force backup pushed %d times, want 0", got)
	}

	if _, err := st.AddIdea("", "idea"); err != nil {
		t.Fatal(err)
	}
	if err := a.ForceBackup(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := fm.upsertCount("personal"); got != 1 {
		t.Fatalf("dirty force backup pushed %d times, want 1", got)
	}
}

func TestForceBackupWaitsForInFlightPush(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	upsertStarted := make(chan struct{})
	upsertRelease := make(chan struct{})
	fm.mu.Lock()
	fm.upsertStarted, fm.upsertRelease = upsertStarted, upsertRelease
	fm.mu.Unlock()

	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce:     20 * time.Millisecond,
		MaxWait:      time.Hour,
		Watchdog:     time.Hour,
		PollInterval: time.Hour,
	})

	if _, err := st.AddIdea("", "edit"); err != nil {
		t.Fatal(err)
	}
	// The debounce push is now parked inside the upsert.
	<-upsertStarted

	result := make(chan error, 1)
	go func() { result <- a.ForceBackup(context.Background()) }()

	select {
	case err := <-result:
		t.Fatalf("ForceBackup returned %v while a push was still in flight", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(upsertRelease)
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("ForceBackup after the in-flight push landed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("ForceBackup did not return after the push completed")
	}
	if got := fm.upsertCount("personal"); got != 1 {
		t.Fatalf("want the single in-flight push, got %d", got)
	}
}

func TestWorkspaceSwitchResetsContextAndFlushesOldKey(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	})

	if _, err := st.AddIdea("", "personal edit"); err != nil {
		t.Fatal(err)
	}
	if !a.Status().Dirty {
		t.Fatal("edit must mark dirty")
	}

	if err := st.SetWorkspace("studio"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, time.Second, func() bool { return fm.upsertCount("personal") == 1 })
	status := a.Status()
	if status.WorkspaceKey != "studio" {
		t.Fatalf("workspace key = %q, want studio", status.WorkspaceKey)
	}
	if status.Dirty {
		t.Fatal("switch must start the new context clean")
	}
	if got := fm.upsertCount("studio"); got != 0 {
		t.Fatalf("switch itself pushed %d times under the new key, want 0", got)
	}
}

func TestWorkspaceSwitchFlushKeepsOldWorkspaceInRow(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	newTestAdapter(t, st, fm, nil, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	})

	idea, err := st.AddIdea("", "personal edit")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SetWorkspace("studio"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, time.Second, func() bool { return fm.upsertCount("personal") == 1 })
	var pushed domain.AppData
	if err := json.Unmarshal(fm.rowData("personal"), &pushed); err != nil {
		t.Fatal(err)
	}
	if pushed.CurrentWorkspaceID != "personal" {
		t.Fatalf("row flushed at switch records current workspace %q, want personal", pushed.CurrentWorkspaceID)
	}
	if len(pushed.Ideas) != 1 || pushed.Ideas[0].ID != idea.ID {
		t.Fatal("row flushed at switch lost the displaced edit")
	}
}

func TestHideAndCloseFlushPendingEdits(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	a := newTestAdapter(t, st, fm, nil, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	})

	if _, err := st.AddIdea("", "edit before hiding"); err != nil {
		t.Fatal(err)
	}
	a.SetVisible(false)
	waitFor(t, time.Second, func() bool { return fm.upsertCount("personal") == 1 })
	a.SetVisible(true)

	if _, err := st.AddIdea("", "edit before closing"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	a.Close(ctx)
	if got := fm.upsertCount("personal"); got != 2 {
		t.Fatalf("close flushed to %d pushes, want 2", got)
	}
}

func TestWatchdogFlushesMissedEdits(t *testing.T) {
	st := newTestStore(t)
	fm := newFakeMirror()
	newTestAdapter(t, st, fm, nil, Options{
		Debounce:     time.Hour, // debounce never fires
		MaxWait:      time.Hour,
		Watchdog:     60 * time.Millisecond,
		PollInterval: time.Hour,
	})

	if _, err := st.AddIdea("", "stranded edit"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, time.Second, func() bool { return fm.upsertCount("personal") >= 1 })
}

func TestBootRestoreFromRemoteWhenLocalEmpty(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { rdb.Close() })
	client := mirror.NewClient(rdb)

	remote := testData()
	remote.Ideas = []domain.Idea{{ID: "survived", WorkspaceID: "personal", Text: "restored", Status: domain.StatusWorking, Hashtags: &domain.HashtagSet{YouTube: []string{"#shorts"}}}}
	blob, err := json.Marshal(remote)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.UpsertRow(context.Background(), "personal", blob, domain.SchemaVersion, time.Now()); err != nil {
		t.Fatal(err)
	}

	local := persistStore(t)
	st := store.New(local.Defaults(), store.Options{PersistDebounce: time.Hour}, logger.Nop())
	a := New(st, client, local, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	}, logger.Nop())
	a.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.Close(ctx)
	})

	snap := st.Snapshot()
	if len(snap.Ideas) != 1 || snap.Ideas[0].ID != "survived" {
		t.Fatalf("boot restore did not import the remote row: %+v", snap.Ideas)
	}
	if snap.Ideas[0].Hashtags == nil || len(snap.Ideas[0].Hashtags.YouTube) != 1 {
		t.Fatal("restored idea lost its hashtags in migration")
	}
	if a.Status().Dirty {
		t.Fatal("boot restore must not mark the adapter dirty")
	}
}

func TestBootKeepsLocalWhenRecordExists(t *testing.T) {
	local := persistStore(t)
	localData := testData()
	localData.Ideas = []domain.Idea{{ID: "local-wins", WorkspaceID: "personal", Status: domain.StatusBrainstorming}}
	if err := local.Save(localData); err != nil {
		t.Fatal(err)
	}

	fm := newFakeMirror()
	remote := testData()
	remote.Ideas = []domain.Idea{{ID: "remote-loses", WorkspaceID: "personal", Status: domain.StatusBrainstorming}}
	fm.setRow("personal", remote, time.Now())

	st := store.New(local.Load(), store.Options{PersistDebounce: time.Hour}, logger.Nop())
	newTestAdapter(t, st, fm, local, Options{
		Debounce: time.Hour, MaxWait: time.Hour, Watchdog: time.Hour, PollInterval: time.Hour,
	})

	if got := st.Snapshot().Ideas[0].ID; got != "local-wins" {
		t.Fatalf("boot imported remote over a plausible local record: %q", got)
	}
}
