/*
merge.go - Merge-by-signature reconciliation

PURPOSE:
  Combines a freshly imported event batch with the persisted batch
  without creating duplicates and without losing user-entered records.

CONTRACT:
  MergeEvents(existing, incoming) seeds an ordered map with existing
  first, then admits each incoming event only when its signature is
  absent. Existing entries therefore always win ties: this is
  FIRST-write-wins by content identity, not last-write-wins. Fixing a
  previously imported event's title requires an explicit delete-by-id,
  not a re-import.

  DedupEvents is the independent second pass used by the stale-event
  cleaner: it rebuilds the map from a single list, keeping one
  representative per signature, collapsing duplicates accumulated over
  repeated startup runs.
*/
package core

// MergeEvents returns existing in its original order followed by the
// incoming events whose signatures were not already present.
func MergeEvents(existing, incoming []Event) []Event {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]Event, 0, len(existing)+len(incoming))

	for _, ev := range existing {
		sig := ev.Signature()
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		merged = append(merged, ev)
	}
	for _, ev := range incoming {
		sig := ev.Signature()
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		merged = append(merged, ev)
	}
	return merged
}

// DedupEvents keeps the first event per signature, preserving order.
func DedupEvents(events []Event) []Event {
	return MergeEvents(events, nil)
}
