package logbook

import "time"

// MergeWindow is the maximum gap between a subject's tail entry and a new
// submission for the two to merge into one entry.
const MergeWindow = 15 * time.Minute

// tail returns the entry with the greatest effective timestamp. On equal
// timestamps the later insertion wins, so a just-appended entry always
// shadows older ones.
func tail(entries []*Entry) *Entry {
	var last *Entry
	for _, e := range entries {
		if last == nil || e.TimestampMs >= last.TimestampMs {
			last = e
		}
	}
	return last
}

// DecideMerge picks the entry a new submission by subject should merge into,
// or nil when a new entry must be created.
//
// Only the chronologically last entry of the whole collection is eligible:
// once any subject appends after it, an earlier entry never receives a merge,
// even within the time window. The window is measured against the candidate's
// current effective timestamp, so a time edit moves the window with it.
func DecideMerge(entries []*Entry, subject string, nowMs int64) *Entry {
	candidate := tail(entries)
	if candidate == nil || candidate.Subject != subject {
		return nil
	}
	if nowMs-candidate.TimestampMs > MergeWindow.Milliseconds() {
		return nil
	}
	return candidate
}
