package redis

import (
	"fmt"

	"github.com/mcoot/scoretracker/internal/storage"
)

// Key prefix for all score tracker data
const keyPrefix = "scoretracker"

// sessionKey returns the Redis key for a session value within a namespace
func sessionKey(namespace string, key storage.Key) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, namespace, key)
}
