// Package cache holds the disposable order-list projection. Entries are keyed
// by user and expire after a fixed TTL; everything in here can be rebuilt from
// the database, so implementations swallow their own failures: a broken cache
// degrades reads to the database, it never fails a request.
package cache

import (
	"fmt"
	"time"
)

// TTL is the fixed lifetime of a cached order list.
const TTL = 300 * time.Second

// Key derives the cache key for a user's order list.
func Key(userID int64) string {
	return fmt.Sprintf("user_orders:%d", userID)
}
