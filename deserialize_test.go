// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gitlab.com/fisherprime/orghierarchy/lexer"
)

func TestHierarchy_Deserialize(t *testing.T) {
	tests := []struct {
		name         string
		opts         []lexer.Option
		wantTopology map[int]int
		wantLevels   map[int]int
		wantErr      error
	}{
		{
			name:         "valid",
			opts:         []lexer.Option{lexer.WithString("1,2,4)),3))")},
			wantTopology: map[int]int{1: NoBoss, 2: 1, 3: 1, 4: 2},
			wantLevels:   map[int]int{1: 1, 2: 2, 3: 2, 4: 3},
		},
		{
			name:         "valid (excessive whitespace)",
			opts:         []lexer.Option{lexer.WithString(" 1 ,\t2 ,\n 4 ) ) , 3 ) )   ")},
			wantTopology: map[int]int{1: NoBoss, 2: 1, 3: 1, 4: 2},
			wantLevels:   map[int]int{1: 1, 2: 2, 3: 2, 4: 3},
		},
		{
			name:         "valid (signed identifiers)",
			opts:         []lexer.Option{lexer.WithString("-1,+2),-3))")},
			wantTopology: map[int]int{-1: NoBoss, 2: -1, -3: -1},
			wantLevels:   map[int]int{-1: 1, 2: 2, -3: 2},
		},
		{
			name: "valid (custom markers)",
			opts: []lexer.Option{
				lexer.WithString("1;2;4]];3]]"),
				lexer.WithEndMarker(']'),
				lexer.WithSplitter(';'),
			},
			wantTopology: map[int]int{1: NoBoss, 2: 1, 3: 1, 4: 2},
			wantLevels:   map[int]int{4: 3},
		},
		{
			name:    "empty",
			opts:    []lexer.Option{lexer.WithString("   ")},
			wantErr: ErrEmptyDeserializationSrc,
		},
		{
			name:    "missing end marker",
			opts:    []lexer.Option{lexer.WithString("1,2,4)),3)")},
			wantErr: ErrExcessiveValues,
		},
		{
			name:    "excessive end markers",
			opts:    []lexer.Option{lexer.WithString("1,2))))")},
			wantErr: ErrExcessiveEndMarkers,
		},
		{
			name:    "values after the owner",
			opts:    []lexer.Option{lexer.WithString("1),2)")},
			wantErr: ErrExcessiveValues,
		},
		{
			name:    "unknown tokens",
			opts:    []lexer.Option{lexer.WithString("1,a))")},
			wantErr: ErrInvalidHierarchySrc,
		},
		{
			name:    "duplicate identifier",
			opts:    []lexer.Option{lexer.WithString("1,2),2))")},
			wantErr: ErrIllegalID,
		},
		{
			name:    "missing splitter",
			opts:    []lexer.Option{lexer.WithString("1 2))")},
			wantErr: ErrUnexpectedItem,
		},
		{
			name:    "repeated splitter",
			opts:    []lexer.Option{lexer.WithString("1,,2))")},
			wantErr: ErrUnexpectedItem,
		},
		{
			name:    "sign in place of a splitter",
			opts:    []lexer.Option{lexer.WithString("1-2))")},
			wantErr: ErrUnexpectedItem,
		},
		{
			name:    "splitter before an end marker",
			opts:    []lexer.Option{lexer.WithString("1,)")},
			wantErr: ErrUnexpectedItem,
		},
		{
			name:    "splitter after the owner",
			opts:    []lexer.Option{lexer.WithString("1),")},
			wantErr: ErrUnexpectedItem,
		},
		{
			name:    "unknown tokens after the owner",
			opts:    []lexer.Option{lexer.WithString("1)a")},
			wantErr: ErrInvalidHierarchySrc,
		},
		{
			name:    "NUL rune",
			opts:    []lexer.Option{lexer.WithString("1\x00garbage))")},
			wantErr: lexer.ErrUnknownTokens,
		},
		{
			name:    "bare sign",
			opts:    []lexer.Option{lexer.WithString("1,-))")},
			wantErr: ErrInvalidHierarchySrc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := New(WithLogger(testLogger))

			err := h.Deserialize(ctx, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Hierarchy.Deserialize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, ErrInvalidHierarchySrc) && !errors.Is(err, ErrExcessiveValues) &&
					!errors.Is(err, ErrExcessiveEndMarkers) && !errors.Is(err, ErrEmptyDeserializationSrc) {
					t.Errorf("Hierarchy.Deserialize() error = %v, want a deserialization error", err)
				}
				return
			}

			if got := h.topology(); !reflect.DeepEqual(got, tt.wantTopology) {
				t.Errorf("Hierarchy.Deserialize() = %v, want %v", got, tt.wantTopology)
			}
			for id, want := range tt.wantLevels {
				if got, _ := h.Level(ctx, id); got != want {
					t.Errorf("Hierarchy.Level(%d) = %v, want %v", id, got, want)
				}
			}
			if err := h.Verify(ctx); err != nil {
				t.Errorf("Hierarchy.Verify() error = %v", err)
			}
		})
	}
}

func TestHierarchy_Deserialize_Populated(t *testing.T) {
	h := hire(t, scenarioPairs)

	err := h.Deserialize(context.Background(), lexer.WithString("7)"))
	if !errors.Is(err, ErrAlreadyPopulated) {
		t.Errorf("Hierarchy.Deserialize() error = %v, want %v", err, ErrAlreadyPopulated)
	}
}

func TestProperty_Hierarchy_SerializeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		h := drawHierarchy(rt, WithSubtreeRelevel())

		// Reassignment leaves hiring order & identifiers unordered.
		if size := h.Size(); size > 2 {
			id := rapid.IntRange(2, size).Draw(rt, "id")
			replacement := rapid.IntRange(1, size).Draw(rt, "replacement")
			_ = h.FireAndReassign(ctx, id, replacement)
		}

		output, err := h.Serialize(ctx, nil)
		require.NoError(rt, err)

		got := New(WithLogger(testLogger), WithSubtreeRelevel())
		require.NoError(rt, got.Deserialize(ctx, lexer.WithString(output)))
		require.NoError(rt, got.Verify(ctx))

		require.Equal(rt, h.Size(), got.Size())
		require.Equal(rt, h.topology(), got.topology())
		for id := range h.topology() {
			want, _ := h.Level(ctx, id)
			level, _ := got.Level(ctx, id)
			require.Equal(rt, want, level)
		}

		again, err := got.Serialize(ctx, nil)
		require.NoError(rt, err)
		require.Equal(rt, output, again)
	})
}
