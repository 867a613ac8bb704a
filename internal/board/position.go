package board

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Position addresses a slot in a column's ordering: the keyword
// "first", the keyword "last", or an explicit zero-based index.
type Position struct {
	index int
	first bool
	last  bool
}

// PositionFirst addresses the top of a column.
func PositionFirst() Position { return Position{first: true} }

// PositionLast addresses the slot after the column's last card.
func PositionLast() Position { return Position{last: true} }

// PositionAt addresses an explicit index.
func PositionAt(i int) Position { return Position{index: i} }

// ParsePosition interprets a textual position argument.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "first":
		return PositionFirst(), nil
	case "last":
		return PositionLast(), nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return Position{}, fmt.Errorf("invalid position %q: want \"first\", \"last\" or an integer", s)
	}
	return PositionAt(i), nil
}

// Resolve maps the position to an insertion index for a column that
// currently holds n cards. Out-of-range indexes clamp to the valid
// range instead of erroring.
func (p Position) Resolve(n int) int {
	switch {
	case p.first:
		return 0
	case p.last:
		return n
	case p.index < 0:
		return 0
	case p.index > n:
		return n
	}
	return p.index
}

func (p Position) String() string {
	switch {
	case p.first:
		return "first"
	case p.last:
		return "last"
	}
	return strconv.Itoa(p.index)
}

func (p Position) MarshalJSON() ([]byte, error) {
	switch {
	case p.first:
		return json.Marshal("first")
	case p.last:
		return json.Marshal("last")
	}
	return json.Marshal(p.index)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParsePosition(s)
		if perr != nil {
			return perr
		}
		*p = parsed
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("invalid position %s: want \"first\", \"last\" or an integer", data)
	}
	*p = PositionAt(i)
	return nil
}
