// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gitlab.com/fisherprime/orghierarchy/types"
)

func TestHierarchy_Render(t *testing.T) {
	// 1 owns 3 & 2, 2 owns 5 & 4, 3 owns 6, 5 owns 7.
	pairs := [][2]int{{1, NoBoss}, {3, 1}, {2, 1}, {5, 2}, {4, 2}, {6, 3}, {7, 5}}

	tests := []struct {
		name       string
		pairs      [][2]int
		id         int
		wantOutput string
		wantGroups []types.IDList
		wantErr    error
	}{
		{
			name:       "owner",
			pairs:      scenarioPairs,
			id:         1,
			wantOutput: "1,2 3,4",
			wantGroups: []types.IDList{{2, 3}, {4}},
		},
		{
			name:       "unordered hires",
			pairs:      pairs,
			id:         1,
			wantOutput: "1,2 3,4 5 6,7",
			wantGroups: []types.IDList{{2, 3}, {4, 5, 6}, {7}},
		},
		{
			name:       "subordinate",
			pairs:      pairs,
			id:         2,
			wantOutput: "2,4 5,7",
			wantGroups: []types.IDList{{4, 5}, {7}},
		},
		{
			name:       "leaf",
			pairs:      pairs,
			id:         7,
			wantOutput: "7",
		},
		{name: "unknown", pairs: pairs, id: 9, wantErr: ErrIllegalID},
		{name: "empty", id: 1, wantErr: ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := hire(t, tt.pairs)

			gotOutput, err := h.Render(ctx, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Hierarchy.Render() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotOutput != tt.wantOutput {
				t.Errorf("Hierarchy.Render() = %v, want %v", gotOutput, tt.wantOutput)
			}

			gotGroups, err := h.RenderLevels(ctx, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Hierarchy.RenderLevels() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(gotGroups, tt.wantGroups) {
				t.Errorf("Hierarchy.RenderLevels() = %v, want %v", gotGroups, tt.wantGroups)
			}
		})
	}
}
