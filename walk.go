// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"fmt"

	"gitlab.com/fisherprime/orghierarchy/types"
)

type (
	// TraverseComm defines a channel message to communicate info between Hierarchy walks & their
	// callers.
	TraverseComm struct {
		// ID of the visited employee.
		ID int
		// Depth of the visited employee below the walk's starting point, derived from the tree's
		// structure rather than the cached level.
		Depth int
		Err   error

		// NewPeers marks the first employee at a new depth.
		NewPeers bool
	}
)

const traverseBufferSize = 10

// Walk performs level-order traversal below (& including) some employee, pushing the visited
// employees to its channel argument.
//
// The channel is closed once the walk completes; a context.Context is used to terminate the
// walk operation.
func (h *Hierarchy) Walk(ctx context.Context, id int, traverseChan chan<- TraverseComm) {
	defer close(traverseChan)

	if h.IsEmpty() {
		traverseChan <- TraverseComm{ID: id, Err: fmt.Errorf(idErrFmt, id, ErrEmpty)}
		return
	}

	slot, err := h.lookupEmployed(id)
	if err != nil {
		traverseChan <- TraverseComm{ID: id, Err: err}
		return
	}

	// Level order traversal.
	queue := []int{slot}

	for depth := 0; len(queue) > 0; depth++ {
		// Iterate over the current depth's peers.
		newPeers := true
		for queueLen := len(queue); queueLen > 0; queueLen-- {
			// Pop from queue.
			var front int
			front, queue = queue[0], queue[1:]

			if err = ctx.Err(); err != nil {
				traverseChan <- TraverseComm{ID: id, Err: err}
				return
			}

			select {
			case <-ctx.Done():
				traverseChan <- TraverseComm{ID: id, Err: ctx.Err()}
				return
			case traverseChan <- TraverseComm{ID: h.staff[front].id, Depth: depth, NewPeers: newPeers}:
			}
			newPeers = false

			queue = append(queue, h.staff[front].subordinates...)
		}
	}
}

// AllSubordinatesByLevel lists the employees below some employee grouped by their structural
// depth, each group ascending.
//
// NOTE: Unlike RenderLevels, the grouping ignores cached levels.
func (h *Hierarchy) AllSubordinatesByLevel(ctx context.Context, id int) (subs []types.IDList, err error) {
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go h.Walk(ctx, id, traverseChan)

	var peers types.IDList
	for resl := range traverseChan {
		if resl.Err != nil {
			err = resl.Err
			// Drain the channel, the walk terminates after an error.
			continue
		}

		if !resl.NewPeers {
			peers = append(peers, resl.ID)
			continue
		}

		if len(peers) > 0 {
			subs = append(subs, peers)
		}
		peers = types.IDList{resl.ID}
	}
	if err != nil {
		return nil, err
	}

	if len(peers) > 0 {
		subs = append(subs, peers)
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("walked: %+v", subs)
	}

	if len(subs) > 0 {
		// Omit self from the list.
		subs = subs[1:]
	}

	if len(subs) < 1 {
		return nil, fmt.Errorf(idErrFmt, id, ErrNoSubordinates)
	}

	for index := range subs {
		subs[index].Sort()
	}

	return
}
