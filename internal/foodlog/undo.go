package foodlog

import (
	"fmt"

	"github.com/starford/yada/internal/apperr"
	"github.com/starford/yada/internal/models"
)

// undoAction is the inverse of one log mutation.
type undoAction interface {
	revert(l *DailyLog) error
}

// mergedAdd records an AddEntry. previous is the servings before the add;
// zero means the add created the entry.
type mergedAdd struct {
	foodID   string
	previous float64
}

func (a mergedAdd) revert(l *DailyLog) error {
	i := l.find(a.foodID)
	if i < 0 {
		return fmt.Errorf("%w: undo add of %s on %s: entry is missing", apperr.ErrInconsistentState, a.foodID, l.date)
	}
	if a.previous > 0 {
		l.entries[i].Servings = a.previous
		return nil
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return nil
}

// removedEntry records a RemoveEntry. The entry comes back at the end of the
// list, not at its old position.
type removedEntry struct {
	entry models.LogEntry
}

func (a removedEntry) revert(l *DailyLog) error {
	l.entries = append(l.entries, a.entry)
	return nil
}
