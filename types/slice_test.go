// SPDX-License-Identifier: MIT
package types

import (
	"reflect"
	"testing"
)

func TestIDList_Sort(t *testing.T) {
	tests := []struct {
		name string
		sl   IDList
		want IDList
	}{
		{"empty", IDList{}, IDList{}},
		{"unordered", IDList{4, 2, 9, -1}, IDList{-1, 2, 4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.sl.Sort()
			if !reflect.DeepEqual(tt.sl, tt.want) {
				t.Errorf("IDList.Sort() = %v, want %v", tt.sl, tt.want)
			}
		})
	}
}

func TestIDList_Pop(t *testing.T) {
	tests := []struct {
		name   string
		sl     IDList
		values []int
		want   IDList
	}{
		{"head", IDList{1, 2, 3}, []int{1}, IDList{2, 3}},
		{"middle", IDList{1, 2, 3}, []int{2}, IDList{1, 3}},
		{"tail", IDList{1, 2, 3}, []int{3}, IDList{1, 2}},
		{"absent", IDList{1, 2, 3}, []int{5}, IDList{1, 2, 3}},
		{"many", IDList{1, 2, 3, 4}, []int{4, 1}, IDList{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.sl.Pop(tt.values...)
			if !reflect.DeepEqual(tt.sl, tt.want) {
				t.Errorf("IDList.Pop() = %v, want %v", tt.sl, tt.want)
			}
		})
	}
}

func TestIDList_String(t *testing.T) {
	tests := []struct {
		name string
		sl   IDList
		want string
	}{
		{"empty", IDList{}, ""},
		{"single", IDList{4}, "4"},
		{"many", IDList{2, 3, 10}, "2 3 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sl.String(); got != tt.want {
				t.Errorf("IDList.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
