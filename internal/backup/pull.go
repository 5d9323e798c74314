package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planloop/planloop/internal/logger"
	"github.com/planloop/planloop/internal/mirror"
)

const pullTimeout = 15 * time.Second

// pollLoop probes the remote row's timestamp while the app is visible and
// auto-sync is on. A newer row is imported only when there are no unpushed
// local edits; otherwise only the remoteNewer flag is raised.
func (a *Adapter) pollLoop() {
	defer close(a.pollDone)
	ticker := time.NewTicker(a.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.pollStop:
			return
		case <-ticker.C:
			a.pollOnce()
		}
	}
}

func (a *Adapter) pollOnce() {
	a.mu.Lock()
	if a.stopped || !a.visible || !a.autoSync {
		a.mu.Unlock()
		return
	}
	key := a.workspaceKey
	known := a.lastRemoteAt
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), pullTimeout)
	defer cancel()

	ts, err := a.remote.FetchUpdatedAt(ctx, key)
	if err != nil {
		if !errors.Is(err, mirror.ErrNotFound) {
			a.log.Debug("remote poll failed",
				logger.String("workspace_key", key),
				logger.Error(err))
		}
		return
	}
	if !ts.After(known) {
		return
	}

	a.mu.Lock()
	if a.dirty {
		a.remoteNewer = true
		a.mu.Unlock()
		a.log.Info("remote backup is newer but local edits are pending",
			logger.String("workspace_key", key),
			logger.Time("remote_updated_at", ts))
		return
	}
	okGen := a.gen
	a.mu.Unlock()

	row, err := a.remote.FetchRow(ctx, key)
	if err != nil {
		a.log.Warn("remote pull failed",
			logger.String("workspace_key", key),
			logger.Error(err))
		return
	}
	if !a.importRow(row, okGen, false) {
		a.log.Info("local edit landed while pulling, keeping it",
			logger.String("workspace_key", key))
		return
	}
	a.log.Info("imported newer remote backup",
		logger.String("workspace_key", key),
		logger.Time("remote_updated_at", row.UpdatedAt))
}

// ForceBackup pushes immediately when there are unpushed edits. A clean
// state is already mirrored, so it reports success without a push. When a
// scheduled push is already in flight it waits for that push rather than
// reporting a spurious failure.
func (a *Adapter) ForceBackup(ctx context.Context) error {
	for {
		a.mu.Lock()
		if a.stopped {
			a.mu.Unlock()
			return errors.New("sync adapter stopped")
		}
		if !a.dirty {
			a.mu.Unlock()
			return nil
		}
		if a.pushing {
			wait := a.pushWait
			a.mu.Unlock()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-wait:
			}
			continue
		}
		a.mu.Unlock()

		if err := a.flush("manual"); err != nil {
			return fmt.Errorf("backup push failed: %w", err)
		}
		// flush may have deferred to a push that started in between;
		// re-check rather than trust one round.
	}
}

// PullLatest replaces local state with the remote row on explicit request.
// When local edits have not been pushed it refuses without confirm, and a
// confirmed pull first parks the displaced state as an in-memory safety
// copy recoverable until the process exits.
func (a *Adapter) PullLatest(ctx context.Context, confirm bool) error {
	a.mu.Lock()
	if a.dirty && !confirm {
		a.mu.Unlock()
		return ErrDirtyNeedsConfirm
	}
	key := a.workspaceKey
	a.mu.Unlock()

	row, err := a.remote.FetchRow(ctx, key)
	if err != nil {
		if errors.Is(err, mirror.ErrNotFound) {
			return fmt.Errorf("no remote backup for workspace %q", key)
		}
		return fmt.Errorf("failed to fetch remote backup: %w", err)
	}

	// The fetch takes real time, so the dirty decision and the safety copy
	// are re-taken until no edit races them: the copy must hold everything
	// the import is about to displace.
	displacedEdits := false
	for {
		a.mu.Lock()
		dirty := a.dirty
		okGen := a.gen
		a.mu.Unlock()

		if dirty && !confirm {
			return ErrDirtyNeedsConfirm
		}
		if dirty {
			displaced := a.st.Snapshot()
			a.mu.Lock()
			if a.gen != okGen {
				a.mu.Unlock()
				continue
			}
			a.safetyCopy = &displaced
			a.mu.Unlock()
		}
		if a.importRow(row, okGen, confirm) {
			displacedEdits = dirty
			break
		}
	}

	a.log.Info("manual pull imported remote backup",
		logger.String("workspace_key", key),
		logger.Bool("displaced_local_edits", displacedEdits))
	return nil
}

// RecoverSafetyCopy restores the state a confirmed pull displaced. The copy
// is single-use and the recovery marks the store dirty again, so it will be
// pushed like any other edit.
func (a *Adapter) RecoverSafetyCopy() error {
	a.mu.Lock()
	copyData := a.safetyCopy
	a.safetyCopy = nil
	a.mu.Unlock()

	if copyData == nil {
		return ErrNoSafetyCopy
	}
	a.st.ImportState(*copyData)
	a.log.Info("recovered safety copy")
	return nil
}

// HasSafetyCopy reports whether a displaced state is available to recover.
func (a *Adapter) HasSafetyCopy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.safetyCopy != nil
}
