// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/fisherprime/orghierarchy/types"
)

const (
	// groupSeparator precedes each level's group in the Render output.
	groupSeparator = ','
)

// Render lists an employee's identifier followed by its subordinates grouped by level.
//
// Groups are emitted in increasing level starting below the employee, identifiers within a
// group are ascending & space separated: `1,2 3,4`.
func (h *Hierarchy) Render(ctx context.Context, id int) (output string, err error) {
	groups, err := h.RenderLevels(ctx, id)
	if err != nil {
		return
	}

	var buffer strings.Builder
	buffer.WriteString(strconv.Itoa(id))
	for _, group := range groups {
		buffer.WriteRune(groupSeparator)
		buffer.WriteString(group.String())
	}

	return buffer.String(), nil
}

// RenderLevels groups an employee's subordinates by their cached level.
//
// Collection stops at the first level lacking subordinates.
func (h *Hierarchy) RenderLevels(_ context.Context, id int) (groups []types.IDList, err error) {
	if h.IsEmpty() {
		return groups, fmt.Errorf(idErrFmt, id, ErrEmpty)
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		return
	}

	for level := h.staff[slot].level + 1; ; level++ {
		group := h.collectLevel(level, slot)
		if len(group) < 1 {
			break
		}

		group.Sort()
		groups = append(groups, group)
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("render (%d): %+v", id, groups)
	}

	return
}

// collectLevel gathers the identifiers at some level below a slot.
//
// A subordinate at the level is collected, any other has its own subordinates searched.
func (h *Hierarchy) collectLevel(level, slot int) (group types.IDList) {
	for _, sub := range h.staff[slot].subordinates {
		if h.staff[sub].level == level {
			group = append(group, h.staff[sub].id)
			continue
		}

		group = append(group, h.collectLevel(level, sub)...)
	}

	return
}
