package tablewriter

// cursor tracks the column of the current row that receives appended bytes.
type cursor struct {
	columnNo     int
	lastColumnNo int
}

func newCursor(columns int) cursor {
	return cursor{lastColumnNo: columns - 1}
}

func (c *cursor) first() bool {
	return c.columnNo == 0
}

func (c *cursor) last() bool {
	return c.columnNo == c.lastColumnNo
}

// advance moves to the next column, wrapping to the first column of the next
// row after the last one. It reports whether a row was completed.
func (c *cursor) advance() bool {
	if c.last() {
		c.columnNo = 0
		return true
	}
	c.columnNo++
	return false
}
