package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planloop/planloop/internal/backup"
	"github.com/planloop/planloop/internal/logger"
	"github.com/planloop/planloop/internal/persist"
	"github.com/planloop/planloop/internal/store"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	RedisClient *redis.Client   // mirror connection, used by readiness checks
	Store       *store.Store    // planner state and action catalog
	Local       *persist.Store  // local record, shared migration path for imports
	Sync        *backup.Adapter // remote mirror adapter
}
