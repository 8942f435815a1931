// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/fisherprime/orghierarchy/lexer"
)

// Serialize transforms a Hierarchy into a string, starting from the owner.
//
// Each identifier is followed by its subordinates in ascending order & an end marker:
// `1,2,4)),3))`.
func (h *Hierarchy) Serialize(ctx context.Context, opts *lexer.Opts) (output string, err error) {
	if h.IsEmpty() {
		return output, ErrEmpty
	}
	if opts == nil {
		opts = lexer.NewOpts()
	}
	opts.Validate()

	serCtx, serCancel := context.WithCancel(ctx)
	defer serCancel()

	serChan := make(chan string)
	go func() {
		h.serialize(serCtx, opts, h.owner, serChan)
		close(serChan)
	}()

	// Handle the owner.
	fValue, fProceed := <-serChan
	if !fProceed {
		return output, ctx.Err()
	}
	var buffer strings.Builder
	buffer.WriteString(fValue)

	endMarker := string(opts.EndMarker)
	for value := range serChan {
		if value != endMarker {
			buffer.WriteRune(opts.Splitter)
		}
		buffer.WriteString(value)
	}

	// NOTE: A canceled walk yields truncated output.
	if err = ctx.Err(); err != nil {
		return
	}
	output = buffer.String()

	if opts.Debug {
		opts.Logger.Debugf("serialized hierarchy: %s", output)
	}

	return
}

// serialize performs the serialization grunt work.
func (h *Hierarchy) serialize(ctx context.Context, opts *lexer.Opts, slot int, serChan chan<- string) {
	select {
	case <-ctx.Done():
		return
	case serChan <- strconv.Itoa(h.staff[slot].id):
	}

	// Sort the subordinates for serialization.
	//
	// The hiring order is not reproducible from a roster, sorting yields a canonical output.
	subs := append([]int(nil), h.staff[slot].subordinates...)
	sort.Slice(subs, func(i, j int) bool { return h.staff[subs[i]].id < h.staff[subs[j]].id })

	for _, sub := range subs {
		h.serialize(ctx, opts, sub, serChan)
	}

	select {
	case <-ctx.Done():
	case serChan <- string(opts.EndMarker):
	}
}

// String is the fmt.Stringer interface implementation for Hierarchy.
func (h *Hierarchy) String() string {
	output, err := h.Serialize(context.Background(), nil)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}

	return output
}
