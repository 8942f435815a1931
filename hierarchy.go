// SPDX-License-Identifier: MIT

// Package orghierarchy maintains an organizational hierarchy: a single owner at the top &
// employees reporting to bosses.
//
// A Hierarchy keeps two structures over one arena of employee records: an AVL Identifier
// Index resolving an identifier to its record in logarithmic time, & an n-array tree of
// boss/subordinate links used for the organizational queries. The index never takes part in
// the tree's iteration & the tree never rebalances.
package orghierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/orghierarchy/index"
	"gitlab.com/fisherprime/orghierarchy/types"
)

// REF: https://www.geeksforgeeks.org/generic-tree-level-order-traversal
//
// REF: https://www.geeksforgeeks.org/lowest-common-ancestor-in-a-binary-tree-set-1

type (
	// Hierarchy defines an organizational hierarchy.
	//
	// Synchronization is the caller's responsibility, see Safe.
	Hierarchy struct {
		// cfg contains a pointer to the Config used by the Hierarchy's operations.
		cfg *Config

		// index resolves an identifier to its arena slot.
		index *index.Tree[int, int]

		// staff is the arena of employee records, a record is never removed.
		staff []employee

		// owner contains the owner's slot; noSlot for an empty Hierarchy.
		owner int

		// size is the number of employed records, the owner included.
		size int
	}

	// Config defines configuration options for the Hierarchy's operations.
	Config struct {
		// Logger for Hierarchy messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool

		// SubtreeRelevel recomputes the levels of a relocated subtree in full; by default only the
		// relocated subordinates are updated.
		SubtreeRelevel bool
	}

	// Option defines the Hierarchy functional option type.
	Option func(*Hierarchy)
)

const (
	// NoBoss is reported as the boss of the owner & as the lowest common boss of the owner.
	NoBoss = -1

	// NoCommonBoss is reported when two employees' chains of command never meet.
	NoCommonBoss = 0

	ownerLevel = 1

	idErrFmt = "(%d) %w"
)

// Errors encountered when handling a Hierarchy.
var (
	ErrEmpty            = errors.New("hierarchy is empty")
	ErrAlreadyPopulated = errors.New("hierarchy already has an owner")
	ErrIllegalID        = errors.New("illegal id")

	ErrNoSubordinates = errors.New("lacks subordinates")
)

var fLogger logrus.FieldLogger = logrus.NewEntry(logrus.New())

// SetLogger configures the default logrus.FieldLogger for the package.
func SetLogger(l logrus.FieldLogger) { fLogger = l }

// DefConfig obtains the package's Hierarchy default options.
func DefConfig() *Config {
	return &Config{
		Logger: fLogger,
		Debug:  false,
	}
}

// New instantiates an empty Hierarchy.
func New(options ...Option) *Hierarchy {
	h := &Hierarchy{
		cfg:   DefConfig(),
		index: index.New[int, int](),
		owner: noSlot,
	}

	for _, opt := range options {
		opt(h)
	}

	return h
}

// WithConfig configures the Hierarchy Config.
func WithConfig(cfg *Config) Option { return func(h *Hierarchy) { h.cfg = cfg } }

// WithLogger configures the Hierarchy's logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Hierarchy) { h.cfg.Logger = logger }
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(h *Hierarchy) { h.cfg.Debug = debug } }

// WithSubtreeRelevel enables full level recomputation for subtrees moved by FireAndReassign.
func WithSubtreeRelevel() Option { return func(h *Hierarchy) { h.cfg.SubtreeRelevel = true } }

// Config retrieves the Hierarchy's Config.
func (h *Hierarchy) Config() *Config { return h.cfg }

// Size is the number of employees, the owner included.
func (h *Hierarchy) Size() int { return h.size }

// IsEmpty checks whether the Hierarchy lacks an owner.
func (h *Hierarchy) IsEmpty() bool { return h.Size() == 0 }

// Owner retrieves the owner's identifier.
func (h *Hierarchy) Owner() (id int, ok bool) {
	if h.owner == noSlot {
		return
	}

	return h.staff[h.owner].id, true
}

// isOwner checks whether an identifier belongs to the owner in O(1).
func (h *Hierarchy) isOwner(id int) bool {
	return h.owner != noSlot && h.staff[h.owner].id == id
}

// employed checks whether a slot is part of the hierarchy tree.
func (h *Hierarchy) employed(slot int) bool {
	return slot == h.owner || h.staff[slot].hasBoss()
}

// lookup resolves an identifier through the Identifier Index.
func (h *Hierarchy) lookup(id int) (slot int, ok bool) { return h.index.Find(id) }

// lookupEmployed resolves an identifier to an employed slot.
func (h *Hierarchy) lookupEmployed(id int) (slot int, err error) {
	if h.isOwner(id) {
		return h.owner, nil
	}

	slot, ok := h.lookup(id)
	switch {
	case !ok:
		err = fmt.Errorf(idErrFmt+": not found", id, ErrIllegalID)
	case !h.employed(slot):
		err = fmt.Errorf(idErrFmt+": not employed", id, ErrIllegalID)
	}

	return
}

// allot creates the record for a new identifier, indexing it.
func (h *Hierarchy) allot(id int) (slot int) {
	slot = len(h.staff)
	h.staff = append(h.staff, employee{id: id, boss: noSlot})
	h.index.Insert(id, slot)

	return
}

// attach a slot as the last subordinate of some boss.
func (h *Hierarchy) attach(slot, bossSlot int) {
	boss := &h.staff[bossSlot]
	boss.subordinates = append(boss.subordinates, slot)

	h.staff[slot].boss = bossSlot
	h.staff[slot].level = boss.level + 1
}

// detach a slot from its boss.
func (h *Hierarchy) detach(slot int) {
	e := &h.staff[slot]
	if e.hasBoss() {
		h.staff[e.boss].popSubordinate(slot)
	}
	e.boss = noSlot
}

// HireOwner adds the owner to an empty Hierarchy.
func (h *Hierarchy) HireOwner(_ context.Context, id int) (err error) {
	if !h.IsEmpty() {
		return fmt.Errorf(idErrFmt, id, ErrAlreadyPopulated)
	}

	slot, ok := h.lookup(id)
	if !ok {
		slot = h.allot(id)
	}
	h.staff[slot].level = ownerLevel
	h.owner = slot
	h.size++

	h.cfg.Logger.WithField("id", id).Debug("hired owner")

	return
}

// HireEmployee adds an employee reporting to some boss.
//
// A previously fired identifier is re-hired.
func (h *Hierarchy) HireEmployee(_ context.Context, id, bossID int) (err error) {
	if h.IsEmpty() {
		return fmt.Errorf(idErrFmt, id, ErrEmpty)
	}
	if id == bossID {
		return fmt.Errorf(idErrFmt+": cannot report to self", id, ErrIllegalID)
	}

	bossSlot, err := h.lookupEmployed(bossID)
	if err != nil {
		return fmt.Errorf("boss %w", err)
	}

	slot, known := h.lookup(id)
	if known && h.employed(slot) {
		return fmt.Errorf(idErrFmt+": already employed", id, ErrIllegalID)
	}

	if !known {
		slot = h.allot(id)
	}
	h.attach(slot, bossSlot)
	h.size++

	h.cfg.Logger.WithFields(logrus.Fields{
		"id":     id,
		"boss":   bossID,
		"level":  h.staff[slot].level,
		"rehire": known,
	}).Debug("hired employee")

	return
}

// FireEmployee removes an employee lacking subordinates.
//
// The identifier remains known to the Identifier Index.
func (h *Hierarchy) FireEmployee(_ context.Context, id int) (err error) {
	if h.IsEmpty() {
		return fmt.Errorf(idErrFmt, id, ErrEmpty)
	}
	if h.isOwner(id) {
		return fmt.Errorf(idErrFmt+": cannot fire the owner", id, ErrIllegalID)
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		return
	}
	if count := len(h.staff[slot].subordinates); count > 0 {
		return fmt.Errorf(idErrFmt+": has %d subordinates to reassign", id, ErrIllegalID, count)
	}

	h.detach(slot)
	h.size--

	h.cfg.Logger.WithField("id", id).Debug("fired employee")

	return
}

// FireAndReassign removes an employee, moving its direct subordinates to some replacement.
//
// Only the direct subordinates' levels are updated unless Config.SubtreeRelevel is set.
func (h *Hierarchy) FireAndReassign(_ context.Context, id, replacementID int) (err error) {
	if h.IsEmpty() {
		return fmt.Errorf(idErrFmt, id, ErrEmpty)
	}
	if h.isOwner(id) {
		return fmt.Errorf(idErrFmt+": cannot fire the owner", id, ErrIllegalID)
	}
	if id == replacementID {
		return fmt.Errorf(idErrFmt+": cannot replace self", id, ErrIllegalID)
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		return
	}
	replacementSlot, err := h.lookupEmployed(replacementID)
	if err != nil {
		return fmt.Errorf("replacement %w", err)
	}
	if h.reportsTo(replacementSlot, slot) {
		return fmt.Errorf(idErrFmt+": replacement (%d) is a subordinate", id, ErrIllegalID, replacementID)
	}

	moved := h.staff[slot].subordinates
	h.staff[slot].subordinates = nil
	for _, sub := range moved {
		h.attach(sub, replacementSlot)
		if h.cfg.SubtreeRelevel {
			h.relevel(sub)
		}
	}

	h.detach(slot)
	h.size--

	h.cfg.Logger.WithFields(logrus.Fields{
		"id":          id,
		"replacement": replacementID,
		"moved":       len(moved),
	}).Debug("fired & reassigned employee")

	return
}

// reportsTo checks whether slot lies in the chain of command below bossSlot.
func (h *Hierarchy) reportsTo(slot, bossSlot int) bool {
	for current := h.staff[slot].boss; current != noSlot; current = h.staff[current].boss {
		if current == bossSlot {
			return true
		}
	}

	return false
}

// relevel recomputes the cached levels below some slot.
func (h *Hierarchy) relevel(slot int) {
	stack := []int{slot}
	for len(stack) > 0 {
		var top int
		top, stack = stack[len(stack)-1], stack[:len(stack)-1]

		level := h.staff[top].level + 1
		for _, sub := range h.staff[top].subordinates {
			h.staff[sub].level = level
			stack = append(stack, sub)
		}
	}
}

// Boss retrieves the identifier of an employee's immediate boss; NoBoss for the owner.
func (h *Hierarchy) Boss(_ context.Context, id int) (bossID int, err error) {
	if h.IsEmpty() {
		return bossID, fmt.Errorf(idErrFmt, id, ErrEmpty)
	}
	if h.isOwner(id) {
		return NoBoss, nil
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		return
	}

	return h.staff[h.staff[slot].boss].id, nil
}

// chainOfCommand lists the bosses above some slot, nearest first.
func (h *Hierarchy) chainOfCommand(slot int) (chain []int) {
	for current := h.staff[slot].boss; current != noSlot; current = h.staff[current].boss {
		chain = append(chain, current)
	}

	return
}

// LowestCommonBoss retrieves the nearest boss shared by two employees.
//
// NoBoss is reported when either employee is the owner, NoCommonBoss when the chains of
// command never meet.
func (h *Hierarchy) LowestCommonBoss(_ context.Context, id1, id2 int) (bossID int, err error) {
	if h.IsEmpty() {
		return bossID, fmt.Errorf("(%d, %d) %w", id1, id2, ErrEmpty)
	}
	if h.isOwner(id1) || h.isOwner(id2) {
		return NoBoss, nil
	}

	slot1, ok1 := h.lookup(id1)
	slot2, ok2 := h.lookup(id2)
	if !ok1 || !ok2 {
		return bossID, fmt.Errorf("(%d, %d) %w: not found", id1, id2, ErrIllegalID)
	}

	cache := make(map[int]struct{})
	for _, boss := range h.chainOfCommand(slot2) {
		cache[boss] = struct{}{}
	}

	// Scanning the first chain from the nearest boss outward yields the lowest common boss.
	for _, boss := range h.chainOfCommand(slot1) {
		if _, ok := cache[boss]; ok {
			return h.staff[boss].id, nil
		}
	}

	return NoCommonBoss, nil
}

// Level retrieves the depth of an employee; the owner is at level 1.
func (h *Hierarchy) Level(_ context.Context, id int) (level int, err error) {
	if h.IsEmpty() {
		return level, fmt.Errorf(idErrFmt, id, ErrEmpty)
	}
	if h.isOwner(id) {
		return h.staff[h.owner].level, nil
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		return
	}

	return h.staff[slot].level, nil
}

// Subordinates lists an employee's immediate subordinates in ascending order.
func (h *Hierarchy) Subordinates(_ context.Context, id int) (subs types.IDList, err error) {
	if h.IsEmpty() {
		return subs, fmt.Errorf(idErrFmt, id, ErrEmpty)
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		return
	}

	subs = make(types.IDList, len(h.staff[slot].subordinates))
	for index, sub := range h.staff[slot].subordinates {
		subs[index] = h.staff[sub].id
	}
	subs.Sort()

	return
}
