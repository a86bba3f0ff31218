package notes

import (
	"time"

	"github.com/korbindeman/zinnia/internal/notefs"
)

// recordAccessLocked bumps the frecency of path and every ancestor, then
// fires the frecency callback once. A missing ancestor row is skipped
// rather than treated as an error: the chain is best-effort.
func (a *API) recordAccessLocked(path string) error {
	now := time.Now()

	if err := a.db.UpdateFrecency(path, now, true); err != nil {
		return err
	}

	current := path
	for {
		parent, ok := notefs.ParentPath(current)
		if !ok {
			break
		}
		exists, err := a.db.Exists(parent)
		if err != nil {
			return err
		}
		if exists {
			if err := a.db.UpdateFrecency(parent, now, false); err != nil {
				return err
			}
		}
		current = parent
	}

	a.fireFrecencyCallback()
	return nil
}
