// SPDX-License-Identifier: MIT
package types

import (
	"sort"
	"strconv"
	"strings"
)

type (
	// IDList holds employee identifiers.
	IDList []int
)

const idSeparator = " "

// Len is the number of elements in the collection.
func (sl IDList) Len() int { return len(sl) }

// Less reports whether the element with index i must sort before the element with index j.
func (sl IDList) Less(i, j int) bool { return sl[i] < sl[j] }

// Swap swaps the elements with indexes i and j.
func (sl IDList) Swap(i, j int) { sl[i], sl[j] = sl[j], sl[i] }

// Sort for `IDList`, ascending.
func (sl *IDList) Sort() { sort.Sort(*sl) }

// Locate for `IDList`.
func (sl *IDList) Locate(val int) (resl int) {
	resl = -1

	for index := range *sl {
		if (*sl)[index] == val {
			resl = index
			return
		}
	}

	return
}

// Contains checks for the existence of a value in the `IDList`.
func (sl *IDList) Contains(val int) bool { return sl.Locate(val) > -1 }

// Pop values from `IDList`, preserving the order of the remaining values.
func (sl *IDList) Pop(values ...int) {
	for index := range values {
		if loc := sl.Locate(values[index]); loc > -1 {
			*sl = append((*sl)[:loc], (*sl)[loc+1:]...)
		}
	}
}

// String is the `fmt.Stringer` interface implementation for `IDList`, values are space separated.
func (sl IDList) String() string {
	var buffer strings.Builder
	for index := range sl {
		if index > 0 {
			buffer.WriteString(idSeparator)
		}
		buffer.WriteString(strconv.Itoa(sl[index]))
	}

	return buffer.String()
}
