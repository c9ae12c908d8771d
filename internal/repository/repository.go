package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

// DraftTTL is how long a draft survives after its last write.
const DraftTTL = 30 * time.Minute

// ErrNotConfigured is returned by stores built without their endpoint or credentials.
var ErrNotConfigured = errors.New("draft store is not configured")

// DraftStore keeps at most one draft per user. Get returns nil, nil when
// the user has no draft or it has expired. Put always restarts the TTL.
type DraftStore interface {
	Get(ctx context.Context, userID int64) (*model.Draft, error)
	Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error
	Delete(ctx context.Context, userID int64) error
}

// DraftKey is the store key of a user's draft.
func DraftKey(userID int64) string {
	return "draft:" + strconv.FormatInt(userID, 10)
}

func ttlSeconds(ttl time.Duration) int64 {
	s := int64(ttl / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}
