// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// ErrInconsistent is reported when the Hierarchy's structures disagree.
var ErrInconsistent = errors.New("inconsistent hierarchy")

// Verify checks the Identifier Index & the hierarchy tree against each other.
//
// Cached levels below the owner are checked only with Config.SubtreeRelevel set, as
// FireAndReassign leaves deeper levels stale otherwise.
func (h *Hierarchy) Verify(ctx context.Context) (err error) {
	defer func() {
		if err == nil {
			return
		}

		if h.cfg.Debug {
			h.cfg.Logger.Debugf("inconsistent hierarchy: %s", h.Dump())
		}
		err = fmt.Errorf("%w: %w", ErrInconsistent, err)
	}()

	if err = h.index.Validate(); err != nil {
		return fmt.Errorf("identifier index: %w", err)
	}
	if h.index.Len() != len(h.staff) {
		return fmt.Errorf("index holds %d identifiers, arena %d", h.index.Len(), len(h.staff))
	}

	// Each identifier resolves to its own record, no two share a slot.
	seen := make([]bool, len(h.staff))
	h.index.Ascend(func(id, slot int) bool {
		switch {
		case slot < 0 || slot >= len(h.staff):
			err = fmt.Errorf("(%d) resolves to slot %d outside the arena", id, slot)
		case seen[slot] || h.staff[slot].id != id:
			err = fmt.Errorf("(%d) resolves to slot %d held by (%d)", id, slot, h.staff[slot].id)
		default:
			seen[slot] = true
		}

		return err == nil
	})
	if err != nil {
		return
	}

	if h.owner == noSlot {
		if h.size != 0 {
			return fmt.Errorf("ownerless hierarchy of size %d", h.size)
		}
		return
	}

	if owner := h.staff[h.owner]; owner.hasBoss() || owner.level != ownerLevel {
		return fmt.Errorf("owner (%d) has boss slot %d, level %d", owner.id, owner.boss, owner.level)
	}

	employed := 0
	for slot := range h.staff {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = h.verifySlot(slot); err != nil {
			return
		}
		if h.employed(slot) {
			employed++
		}
	}
	if employed != h.size {
		return fmt.Errorf("%d employed records, size %d", employed, h.size)
	}

	// Every employed record is reachable from the owner, ruling out cycles.
	reachable, err := h.AllSubordinatesByLevel(ctx, h.staff[h.owner].id)
	if errors.Is(err, ErrNoSubordinates) {
		err = nil
	}
	if err != nil {
		return
	}

	count := 1
	for _, group := range reachable {
		count += len(group)
	}
	if count != h.size {
		return fmt.Errorf("%d employees reachable from the owner, size %d", count, h.size)
	}

	return
}

// verifySlot checks a record's links against its boss & subordinates.
func (h *Hierarchy) verifySlot(slot int) (err error) {
	e := h.staff[slot]

	if !h.employed(slot) {
		if len(e.subordinates) > 0 {
			err = fmt.Errorf("fired (%d) retains %d subordinates", e.id, len(e.subordinates))
		}
		return
	}

	if e.hasBoss() {
		count := 0
		for _, sub := range h.staff[e.boss].subordinates {
			if sub == slot {
				count++
			}
		}
		if count != 1 {
			return fmt.Errorf("(%d) listed %d times by its boss (%d)", e.id, count, h.staff[e.boss].id)
		}

		if h.cfg.SubtreeRelevel && e.level != h.staff[e.boss].level+1 {
			return fmt.Errorf("(%d) at level %d below boss level %d", e.id, e.level, h.staff[e.boss].level)
		}
	}

	for _, sub := range e.subordinates {
		if h.staff[sub].boss != slot {
			return fmt.Errorf("(%d) lists (%d) reporting to slot %d", e.id, h.staff[sub].id, h.staff[sub].boss)
		}
	}

	return
}

// Dump formats the Hierarchy's arena for debugging.
func (h *Hierarchy) Dump() string {
	return spew.Sprintf("owner: %d, size: %d, staff: %+v", h.owner, h.size, h.staff)
}
