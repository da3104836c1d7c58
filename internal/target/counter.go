package target

// Counter produces 1-based equation numbers. When scoped to sections it
// restarts exactly when the section it is told about changes.
type Counter struct {
	scoped  bool
	started bool
	section int
	count   int
}

// NewCounter returns a counter; scoped selects section-relative numbering.
func NewCounter(scoped bool) *Counter {
	return &Counter{scoped: scoped}
}

// Enter moves the counter to section. It reports whether the count was
// reset. Unscoped counters ignore sections.
func (c *Counter) Enter(section int) bool {
	if !c.scoped {
		return false
	}
	if c.started && c.section == section {
		return false
	}
	c.started = true
	c.section = section
	c.count = 0
	return true
}

// Next consumes and returns the next number.
func (c *Counter) Next() int {
	c.count++
	return c.count
}
