// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

type (
	// Builder defines an interface for entities that can be hired into a Hierarchy.
	Builder interface {
		// ID obtains the employee's identifier.
		ID() int
		// Boss obtains the identifier of the employee's boss, ignored for the owner.
		Boss() int
		// IsOwner marks the Hierarchy's owner.
		IsOwner() bool
	}

	// Roster is a wrapper type for []Builder used to generate the Hierarchy.
	Roster struct {
		debug  bool
		logger logrus.FieldLogger

		list      []Builder
		isOrdered bool
	}

	// Entry is the default Builder interface implementation.
	//
	// Any identifier, NoBoss included, may be a boss; the owner is marked by Owner.
	Entry struct {
		EmployeeID int  `yaml:"id" json:"id"`
		BossID     int  `yaml:"boss,omitempty" json:"boss,omitempty"`
		Owner      bool `yaml:"owner,omitempty" json:"owner,omitempty"`
	}

	// RosterOption defines the Roster functional option type.
	RosterOption func(*Roster)
)

// Hierarchy building errors.
var (
	ErrBuildHierarchy = errors.New("failed to build hierarchy")

	ErrMissingOwner   = errors.New("roster lacks an owner")
	ErrMultipleOwners = errors.New("roster has multiple owners")
	ErrEmptyRoster    = errors.New("empty roster")

	ErrLocateBosses = errors.New("unable to locate boss(es)")

	ErrPanicked = errors.New("recovery from panic")
)

// ID obtains the identifier stored by the Entry.
func (e Entry) ID() int { return e.EmployeeID }

// Boss obtains the boss stored by the Entry.
func (e Entry) Boss() int { return e.BossID }

// IsOwner reports whether the Entry is the owner's.
func (e Entry) IsOwner() bool { return e.Owner }

// NewRoster instantiates a Roster.
func NewRoster(options ...RosterOption) *Roster {
	r := &Roster{
		list:   []Builder{},
		logger: fLogger,
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

// WithBuilders configures the underlying list.
func WithBuilders(list []Builder) RosterOption {
	return func(r *Roster) { r.list = list }
}

// WithEntries configures the underlying list from Entry values.
func WithEntries(entries ...Entry) RosterOption {
	return func(r *Roster) {
		r.list = make([]Builder, len(entries))
		for index := range entries {
			r.list[index] = entries[index]
		}
	}
}

// WithBuildLogger configures the logger option.
func WithBuildLogger(logger logrus.FieldLogger) RosterOption {
	return func(r *Roster) { r.logger = logger }
}

// WithBuildDebug configures the debug option
func WithBuildDebug(debug bool) RosterOption {
	return func(r *Roster) { r.debug = debug }
}

// WithOrdered declares every boss to precede its subordinates in the list, allowing for a
// single pass.
func WithOrdered(ordered bool) RosterOption {
	return func(r *Roster) { r.isOrdered = ordered }
}

// Len retrieves the length of the Roster.
func (r *Roster) Len() int { return len(r.list) }

// Add builders to the Roster.
func (r *Roster) Add(builders ...Builder) { r.list = append(r.list, builders...) }

// Cut a value at some index from the Roster.
func (r *Roster) Cut(index int) {
	if index == 0 {
		r.list = r.list[1:]
		return
	}

	upper := index + 1
	// Cut upto (excluding) `index`, cut from (including) `index+1`.
	r.list = append(r.list[:index], r.list[upper:]...)
}

// clone copies the Roster, the underlying list is not shared.
func (r *Roster) clone() *Roster {
	c := *r
	c.list = append([]Builder(nil), r.list...)

	return &c
}

// Build generates a Hierarchy from the Roster, hiring each employee once its boss is hired.
//
// The Roster is left unmodified.
func (r *Roster) Build(ctx context.Context, options ...Option) (h *Hierarchy, err error) {
	src := r.clone()

	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrBuildHierarchy, err)
		}
	}()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, rec)
		}

		if err == nil {
			return
		}

		// Skip expensive operation if not debug.
		if src.debug {
			src.logger.Debugf("current hierarchy: %s \nroster remnants: %s", spew.Sprint(h), spew.Sprint(src.list))
		}
		h = nil
	}()

	if src.Len() < 1 {
		err = ErrEmptyRoster
		return
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return
	default:
	}

	ownerIndex := -1
	for index := range src.list {
		if !src.list[index].IsOwner() {
			continue
		}

		// Disallow additional owner(s).
		if ownerIndex > -1 {
			err = fmt.Errorf("%w: (%d), (%d)", ErrMultipleOwners, src.list[ownerIndex].ID(), src.list[index].ID())
			return
		}
		ownerIndex = index
	}
	if ownerIndex < 0 {
		err = ErrMissingOwner
		return
	}

	h = New(options...)
	if err = h.HireOwner(ctx, src.list[ownerIndex].ID()); err != nil {
		return
	}

	// Remove the owner from the roster.
	src.Cut(ownerIndex)
	if src.debug {
		src.logger.Debugf("roster (without owner): %+v", src.list)
	}

	err = src.hireAll(ctx, h)

	return
}

// hireAll hires the remaining Roster entries into a Hierarchy holding the owner.
func (r *Roster) hireAll(ctx context.Context, h *Hierarchy) (err error) {
	ownerID, _ := h.Owner()
	cache := map[int]struct{}{ownerID: {}}

	prevLen := -1
	for {
		lenSrc := r.Len()
		if lenSrc < 1 {
			return
		}

		if lenSrc == prevLen {
			return fmt.Errorf("%w for: %s", ErrLocateBosses, spew.Sprint(r.list))
		}
		prevLen = lenSrc

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for index := 0; index < lenSrc; index++ {
			entry := r.list[index]

			// Boss not in hierarchy.
			if _, ok := cache[entry.Boss()]; !ok {
				continue
			}

			if err = h.HireEmployee(ctx, entry.ID(), entry.Boss()); err != nil {
				return
			}
			cache[entry.ID()] = struct{}{}

			// Remove the hired entry from the roster.
			r.Cut(index)

			// Allow for unordered Rosters.
			//
			// Adds extraneous opcodes compared to the ordered Roster's operation.
			if !r.isOrdered {
				break
			}

			index--
			lenSrc--
		}
	}
}
