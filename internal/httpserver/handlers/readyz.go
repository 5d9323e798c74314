package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/planloop/planloop/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the planner can do useful work. A dead mirror
// degrades to local-only operation rather than making the app unready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":  checkStore(d),
			"mirror": checkMirror(d),
		}

		ready := components["store"].OK
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Components: components})
	}
}

func checkStore(d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Error: "store not initialized"}
	}
	if len(d.Store.Workspaces()) == 0 {
		return componentStatus{OK: false, Error: "no workspaces loaded"}
	}
	return componentStatus{OK: true}
}

func checkMirror(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: false, Impact: "backup-disabled", Error: "client not initialized"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Impact: "backup-degraded", Error: err.Error()}
	}
	return componentStatus{OK: true, Impact: "backup-enabled"}
}
