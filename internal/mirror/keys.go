package mirror

import "fmt"

const keyPrefix = "planloop"

// RowKey returns the redis key of a workspace's mirror row.
// The workspace key must already be normalized.
func RowKey(workspaceKey string) string {
	return fmt.Sprintf("%s:ws:%s", keyPrefix, workspaceKey)
}

// AllRowsKey returns the redis key of the set registering every mirrored
// workspace key.
func AllRowsKey() string {
	return keyPrefix + ":ws:all"
}
