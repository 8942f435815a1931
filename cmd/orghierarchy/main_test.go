// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/orghierarchy"
)

const testRoster = `employees:
  - {id: 1, owner: true}
  - {id: 2, boss: 1}
  - {id: 3, boss: 1}
  - {id: 4, boss: 2}
  - {id: 5, boss: 2}
`

func TestParsePair(t *testing.T) {
	tests := []struct {
		name    string
		pair    string
		wantID1 int
		wantID2 int
		wantErr bool
	}{
		{name: "valid", pair: "4,5", wantID1: 4, wantID2: 5},
		{name: "valid (whitespace)", pair: " 4 , -5", wantID1: 4, wantID2: -5},
		{name: "missing separator", pair: "4", wantErr: true},
		{name: "non-numeric", pair: "4,x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID1, gotID2, err := parsePair(tt.pair)
			if (err != nil) != tt.wantErr {
				t.Errorf("parsePair() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, errInvalidPair) {
					t.Errorf("parsePair() error = %v, want %v", err, errInvalidPair)
				}
				return
			}
			if gotID1 != tt.wantID1 || gotID2 != tt.wantID2 {
				t.Errorf("parsePair() = (%d, %d), want (%d, %d)", gotID1, gotID2, tt.wantID1, tt.wantID2)
			}
		})
	}
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    rune
		wantErr bool
	}{
		{name: "default", value: "", want: 0},
		{name: "valid", value: "]", want: ']'},
		{name: "multiple runes", value: "))", wantErr: true},
		{name: "digit", value: "7", wantErr: true},
		{name: "sign", value: "-", wantErr: true},
		{name: "whitespace", value: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMarker(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseMarker() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("parseMarker() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRoster(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantEntries []orghierarchy.Entry
		wantErr     bool
	}{
		{
			name: "valid",
			data: testRoster,
			wantEntries: []orghierarchy.Entry{
				{EmployeeID: 1, Owner: true},
				{EmployeeID: 2, BossID: 1},
				{EmployeeID: 3, BossID: 1},
				{EmployeeID: 4, BossID: 2},
				{EmployeeID: 5, BossID: 2},
			},
		},
		{name: "invalid yaml", data: "employees: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotEntries, err := parseRoster([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseRoster() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(gotEntries, tt.wantEntries) {
				t.Errorf("parseRoster() = %v, want %v", gotEntries, tt.wantEntries)
			}
		})
	}
}

func TestNewFlagSet(t *testing.T) {
	opt := &options{LogFormat: "text"}
	flags := newFlagSet(opt)

	args := []string{"--import", "1,2))", "--boss", "2", "--level", "1,2", "--lcb", "1,2", "--lcb", "2,2", "--export"}
	if err := flags.Parse(args); err != nil {
		t.Fatalf("FlagSet.Parse() error = %v", err)
	}

	want := &options{
		Import:    "1,2))",
		Boss:      []int{2},
		Level:     []int{1, 2},
		LCB:       []string{"1,2", "2,2"},
		Export:    true,
		LogFormat: "text",
	}
	if !reflect.DeepEqual(opt, want) {
		t.Errorf("newFlagSet() parsed %+v, want %+v", opt, want)
	}
}

func TestRun(t *testing.T) {
	color.NoColor = true

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	rosterPath := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(rosterPath, []byte(testRoster), 0o600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	tests := []struct {
		name    string
		opt     *options
		wantOut string
		wantErr error
	}{
		{
			name: "roster",
			opt: &options{
				RosterPath: rosterPath,
				Boss:       []int{4},
				Level:      []int{5},
				LCB:        []string{"4,5"},
				Render:     []int{1},
			},
			wantOut: "boss (4): 2\nlevel (5): 3\nlowest common boss (4, 5): 2\nrender (1): 1,2 3,4 5\n",
		},
		{
			name:    "import & export",
			opt:     &options{Import: "1,3),2,4))) ", Export: true, Boss: []int{4}},
			wantOut: "boss (4): 2\n1,2,4)),3))\n",
		},
		{
			name:    "fire",
			opt:     &options{RosterPath: rosterPath, Fire: []int{5, 4}, Export: true},
			wantOut: "1,2),3))\n",
		},
		{
			name:    "failed query",
			opt:     &options{RosterPath: rosterPath, Boss: []int{9}},
			wantErr: errFailedQueries,
		},
		{
			name:    "fire with subordinates",
			opt:     &options{RosterPath: rosterPath, Fire: []int{2}},
			wantErr: orghierarchy.ErrIllegalID,
		},
		{
			name:    "custom markers",
			opt:     &options{Import: "1;2;4]];3]]", EndMarker: "]", Splitter: ";", Export: true},
			wantOut: "1;2;4]];3]]\n",
		},
		{
			name:    "matching markers",
			opt:     &options{Import: "1)", EndMarker: ",", Splitter: ","},
			wantErr: errInvalidMarker,
		},
		{
			name:    "missing source",
			opt:     &options{},
			wantErr: errMissingSource,
		},
		{
			name:    "multiple sources",
			opt:     &options{RosterPath: rosterPath, Import: "1)"},
			wantErr: errMultipleSource,
		},
		{
			name:    "invalid pair",
			opt:     &options{Import: "1)", LCB: []string{"1"}},
			wantErr: errInvalidPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := run(context.Background(), tt.opt, logger, &out)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("run() error = %v, want %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}

			if got := out.String(); got != tt.wantOut {
				t.Errorf("run() output = %q, want %q", got, tt.wantOut)
			}
		})
	}
}
