// SPDX-License-Identifier: MIT
package lexer

type (
	// ItemID int holding an identifier for the Item tokens
	ItemID int

	// Item type holding token, value & item type of scanned rune
	Item struct {
		Err error
		Val []byte // The value of this Item
		ID  ItemID // The type of this Item
	}
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_             ItemID = iota // Consume 0 to start actual numbering at 1.
	ItemError                   // Notify occurrence of an `error`.
	ItemSplitter                // Precedes a subordinate's identifier.
	ItemEOF                     // End of the source.
	ItemValue                   // Employee identifier.
	ItemEndMarker               // Closes an employee's subordinates.
)

// String is the `fmt.Stringer` interface implementation for `ItemID`.
func (i ItemID) String() string {
	switch i {
	case ItemError:
		return "error"
	case ItemSplitter:
		return "splitter"
	case ItemEOF:
		return "eof"
	case ItemValue:
		return "value"
	case ItemEndMarker:
		return "end marker"
	default:
		return "unknown"
	}
}
