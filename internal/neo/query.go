package neo

import "iter"

// Cursor is a forward-only, single-pass stream of the approaches matching a
// query. Each approach is tested when the consumer asks for the next match,
// so stopping early costs nothing beyond the current element. A drained
// cursor cannot be restarted; run the query again instead.
type Cursor struct {
	source  []*CloseApproach
	filters Filters
	pos     int
	scanned int
	current *CloseApproach
}

// Query returns a cursor over the approaches matching every supplied filter,
// in storage order. Empty filters yield every approach.
func (db *Database) Query(filters Filters) *Cursor {
	return &Cursor{
		source:  db.approaches,
		filters: filters,
	}
}

// Next advances to the next matching approach and reports whether one exists.
func (c *Cursor) Next() bool {
	for c.pos < len(c.source) {
		a := c.source[c.pos]
		c.pos++
		c.scanned++
		if c.filters.Match(a) {
			c.current = a
			return true
		}
	}
	c.current = nil
	return false
}

// Approach returns the approach at the cursor position, or nil before the
// first Next call and after the cursor is exhausted.
func (c *Cursor) Approach() *CloseApproach {
	return c.current
}

// Scanned returns how many stored approaches have been tested so far.
func (c *Cursor) Scanned() int {
	return c.scanned
}

// All returns an iterator over the remaining matches. Breaking out of the
// range loop leaves the cursor positioned after the last yielded approach.
func (c *Cursor) All() iter.Seq[*CloseApproach] {
	return func(yield func(*CloseApproach) bool) {
		for c.Next() {
			if !yield(c.current) {
				return
			}
		}
	}
}

// Limit returns an iterator over at most n remaining matches; n <= 0 means no limit.
func (c *Cursor) Limit(n int) iter.Seq[*CloseApproach] {
	if n <= 0 {
		return c.All()
	}
	return func(yield func(*CloseApproach) bool) {
		for i := 0; i < n && c.Next(); i++ {
			if !yield(c.current) {
				return
			}
		}
	}
}
