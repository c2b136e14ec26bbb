package history

// Recent is a fixed-capacity FIFO of raw command strings used for two-step
// pattern detection and the workflow analyzer.
type Recent struct {
	max   int
	items []string
}

// NewRecent creates a rolling list; capacity below one is raised to one.
func NewRecent(max int) *Recent {
	if max < 1 {
		max = 1
	}
	return &Recent{max: max}
}

// Push appends a command, evicting the oldest when full. Empty strings are ignored.
func (r *Recent) Push(cmd string) {
	if cmd == "" {
		return
	}
	r.items = append(r.items, cmd)
	if len(r.items) > r.max {
		r.items = r.items[len(r.items)-r.max:]
	}
}

// Items returns a copy, oldest first.
func (r *Recent) Items() []string {
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the newest command.
func (r *Recent) Last() (string, bool) {
	if len(r.items) == 0 {
		return "", false
	}
	return r.items[len(r.items)-1], true
}

// Len returns the number of stored commands.
func (r *Recent) Len() int {
	return len(r.items)
}
