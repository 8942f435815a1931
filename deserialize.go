// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gitlab.com/fisherprime/orghierarchy/lexer"
)

// Deserialization errors.
var (
	ErrEmptyDeserializationSrc = errors.New("empty deserialization source")
	ErrInvalidHierarchySrc     = errors.New("invalid hierarchy source")
	ErrExcessiveValues         = errors.New("the deserialization source has excessive values")
	ErrExcessiveEndMarkers     = errors.New("the deserialization source has excessive end markers")
	ErrUnexpectedItem          = errors.New("unexpected item")
)

// Deserialize hires the employees of a serialized hierarchy into an empty Hierarchy.
//
// Employees are hired in the source's order, levels are derived from the nesting. An invalid
// source leaves a truncated Hierarchy.
func (h *Hierarchy) Deserialize(ctx context.Context, opts ...lexer.Option) (err error) {
	if !h.IsEmpty() {
		return ErrAlreadyPopulated
	}

	l := lexer.New(append([]lexer.Option{lexer.WithLogger(h.cfg.Logger), lexer.WithDebug(h.cfg.Debug)}, opts...)...)
	go l.Lex(ctx)

	// Drain the lexer, its counters are final once the channel is closed.
	defer func() {
		var trailing, splitters int
		var lexErr error
		for item, ok := l.Item(); ok; item, ok = l.Item() {
			switch item.ID {
			case lexer.ItemValue:
				trailing++
			case lexer.ItemSplitter:
				splitters++
			case lexer.ItemError:
				lexErr = item.Err
			}
		}
		if err != nil {
			return
		}

		diff := l.ValueCounter() - l.EndCounter()
		switch {
		case lexErr != nil:
			err = fmt.Errorf("%w: %w", ErrInvalidHierarchySrc, lexErr)
		case trailing > 0:
			// Values after the owner's end marker.
			err = fmt.Errorf("%w: +%d after the owner", ErrExcessiveValues, trailing)
		case diff > 0:
			err = fmt.Errorf("%w: +%d", ErrExcessiveValues, diff)
		case diff < 0:
			err = fmt.Errorf("%w: %s +%d", ErrExcessiveEndMarkers, string(l.EndMarker()), -diff)
		case splitters > 0:
			err = fmt.Errorf("%w: %w: %s after the owner", ErrInvalidHierarchySrc, ErrUnexpectedItem, lexer.ItemSplitter)
		default:
			// Valid
		}
	}()

	item, err := h.nextItem(ctx, l)
	if err == nil && item.ID != lexer.ItemEOF {
		err = h.deserialize(ctx, l, item, noSlot)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidHierarchySrc, err)
		return
	}
	if h.IsEmpty() {
		err = ErrEmptyDeserializationSrc
		return
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("deserialized hierarchy: %s", h.Dump())
	}

	return
}

// nextItem obtains the next lexed Item, a closed channel reads as ItemEOF.
func (h *Hierarchy) nextItem(ctx context.Context, l *lexer.Lexer) (item lexer.Item, err error) {
	select {
	case <-ctx.Done():
		return item, ctx.Err()
	default:
	}

	item, ok := l.Item()
	if !ok {
		return lexer.Item{ID: lexer.ItemEOF}, nil
	}

	if h.cfg.Debug {
		l.Logger().Debugf("lexed item: %s %s", item.ID, item.Val)
	}

	if item.ID == lexer.ItemError {
		// Stop input processing.
		err = item.Err
	}

	return
}

// deserialize performs the deserialization grunt work, hiring the employee lexed as item
// below bossSlot followed by its subordinates.
//
// Each subordinate is preceded by a splitter; the employee's end marker closes them. A source
// ending early returns without error, the lexer's counters report the missing end markers.
func (h *Hierarchy) deserialize(ctx context.Context, l *lexer.Lexer, item lexer.Item, bossSlot int) (err error) {
	if item.ID != lexer.ItemValue {
		return fmt.Errorf("%w: %s where an identifier is expected", ErrUnexpectedItem, item.ID)
	}

	id, err := strconv.Atoi(string(item.Val))
	if err != nil {
		return
	}

	if bossSlot == noSlot {
		err = h.HireOwner(ctx, id)
	} else {
		err = h.HireEmployee(ctx, id, h.staff[bossSlot].id)
	}
	if err != nil {
		return
	}
	slot, _ := h.lookup(id)

	for {
		if item, err = h.nextItem(ctx, l); err != nil {
			return
		}

		switch item.ID {
		case lexer.ItemEOF, lexer.ItemEndMarker:
			// End of subordinates.
			return
		case lexer.ItemSplitter:
		default:
			return fmt.Errorf("%w: (%s) follows (%d) without a %q", ErrUnexpectedItem, item.Val, id, l.Splitter())
		}

		if item, err = h.nextItem(ctx, l); err != nil {
			return
		}
		if err = h.deserialize(ctx, l, item, slot); err != nil {
			return
		}
	}
}
