package event

import "sort"

// Snapshot is the set of events seen by one fetch, keyed by Event.ID
type Snapshot struct {
	Events map[string]*Event
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{Events: make(map[string]*Event)}
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(events []*Event) *Snapshot {
	snap := NewSnapshot()
	for _, evt := range events {
		snap.Events[evt.ID()] = evt
	}
	return snap
}

// DiffResult lists the events that appeared or disappeared between two fetches
type DiffResult struct {
	Added   []*Event
	Removed []*Event
}

// HasChanges reports whether anything was added or removed
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Diff compares current events against a previous snapshot.
// A nil previous snapshot is treated as empty, so every event is added.
// Both lists are sorted by date, then title.
func Diff(previous *Snapshot, current []*Event) *DiffResult {
	if previous == nil {
		previous = NewSnapshot()
	}
	next := CreateSnapshot(current)

	result := &DiffResult{
		Added:   make([]*Event, 0),
		Removed: make([]*Event, 0),
	}

	for id, evt := range next.Events {
		if _, exists := previous.Events[id]; !exists {
			result.Added = append(result.Added, evt)
		}
	}
	for id, evt := range previous.Events {
		if _, exists := next.Events[id]; !exists {
			result.Removed = append(result.Removed, evt)
		}
	}

	sortByDate(result.Added)
	sortByDate(result.Removed)

	return result
}

// sortByDate orders events for consistent output
func sortByDate(events []*Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Title < events[j].Title
	})
}
