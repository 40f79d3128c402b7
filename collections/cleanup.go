package collections

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/sirupsen/logrus"
)

// PurgeExpiredSessions deletes sessions not updated within ttl of now and
// returns how many were removed. Safe to call on every startup.
func PurgeExpiredSessions(app *pocketbase.PocketBase, ttl time.Duration, now time.Time) (int, error) {
	col, err := app.FindCollectionByNameOrId(SessionsCollection)
	if err != nil {
		return 0, fmt.Errorf("cleanup: could not find %s collection: %w", SessionsCollection, err)
	}

	cutoff := now.Add(-ttl).UTC().Format(types.DefaultDateLayout)
	expired, err := app.FindRecordsByFilter(
		col,
		"updated < {:cutoff}",
		"",
		0,
		0,
		dbx.Params{"cutoff": cutoff},
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup: could not query expired sessions: %w", err)
	}

	removed := 0
	for _, rec := range expired {
		if err := app.Delete(rec); err != nil {
			logrus.WithField("session", rec.Id).Warnf("cleanup: failed to delete expired session: %v", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logrus.WithField("removed", removed).Info("cleanup: purged expired sessions")
	}
	return removed, nil
}
