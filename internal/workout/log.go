package workout

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when a record with the same id is already logged.
var ErrDuplicateID = errors.New("workout id already logged")

// Log is the ordered collection of records. Insertion order is render order.
// Records are never removed or reordered.
type Log struct {
	records  []Record
	index    map[string]int
	shadowed []string
}

// NewLog builds a log from records in their stored order. Every record is kept,
// so saving the log writes back what was loaded. When ids repeat, only the first
// record with that id can be found by id.
func NewLog(records []Record) *Log {
	l := &Log{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if _, ok := l.index[r.ID]; ok {
			l.shadowed = append(l.shadowed, r.ID)
		} else {
			l.index[r.ID] = len(l.records)
		}
		l.records = append(l.records, r)
	}
	return l
}

// Shadowed lists the ids of loaded records hidden behind an earlier record with the same id.
func (l *Log) Shadowed() []string {
	return append([]string(nil), l.shadowed...)
}

// Append adds r at the end of the log.
func (l *Log) Append(r Record) error {
	if _, ok := l.index[r.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	l.index[r.ID] = len(l.records)
	l.records = append(l.records, r)
	return nil
}

// Find looks up a record by id.
func (l *Log) Find(id string) (Record, bool) {
	i, ok := l.index[id]
	if !ok {
		return Record{}, false
	}
	return l.records[i], true
}

// Click bumps the click counter of the record with the given id.
func (l *Log) Click(id string) bool {
	i, ok := l.index[id]
	if !ok {
		return false
	}
	l.records[i].Click()
	return true
}

// Records returns a copy of the records in log order.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of logged records.
func (l *Log) Len() int {
	return len(l.records)
}
