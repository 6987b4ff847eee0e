// Package history keeps the most recent generated passwords for one UI
// session. It is caller-owned state; the password engine never stores output.
package history

// DefaultCapacity matches what the generator views have always shown.
const DefaultCapacity = 5

// DisplayLen is the length after which entries are truncated with "...".
const DisplayLen = 20

// Ring is a bounded, newest-first list. Not safe for concurrent use.
type Ring struct {
	buf  []string
	head int // index of the newest entry
	n    int
}

func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]string, capacity), head: -1}
}

// Add pushes pwd as the newest entry, evicting the oldest when full.
func (r *Ring) Add(pwd string) {
	r.head = (r.head + 1) % len(r.buf)
	r.buf[r.head] = pwd
	if r.n < len(r.buf) {
		r.n++
	}
}

func (r *Ring) Len() int { return r.n }

func (r *Ring) Cap() int { return len(r.buf) }

// Entries returns a copy, newest first.
func (r *Ring) Entries() []string {
	out := make([]string, 0, r.n)
	for i := 0; i < r.n; i++ {
		idx := (r.head - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

// Display returns the entries truncated to maxLen bytes plus "..." where longer.
func (r *Ring) Display(maxLen int) []string {
	out := r.Entries()
	for i, e := range out {
		if maxLen > 0 && len(e) > maxLen {
			out[i] = e[:maxLen] + "..."
		}
	}
	return out
}
