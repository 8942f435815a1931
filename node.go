// SPDX-License-Identifier: MIT
package orghierarchy

import "gitlab.com/fisherprime/orghierarchy/types"

type (
	// employee is an arena slot holding the hierarchy links for one identifier.
	//
	// Links are arena slots rather than references, the Identifier Index resolves an
	// identifier to its slot.
	employee struct {
		id int

		// level is the depth from the owner, cached at hire & reassignment.
		level int

		// boss contains the slot of the upper employee; noSlot for the owner & fired employees.
		boss int

		// subordinates holds the slots of employees at the lower level.
		subordinates types.IDList
	}
)

// noSlot marks an absent arena slot.
const noSlot = -1

// hasBoss checks whether the employee reports to someone.
func (e *employee) hasBoss() bool { return e.boss != noSlot }

// popSubordinate removes a slot from the employee's subordinates, preserving their order.
func (e *employee) popSubordinate(slot int) (ok bool) {
	if ok = e.subordinates.Contains(slot); ok {
		e.subordinates.Pop(slot)
	}

	return
}
