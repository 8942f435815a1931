// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gitlab.com/fisherprime/orghierarchy"
)

// rosterFile is the layout of a --roster file:
//
//	employees:
//	  - {id: 1, owner: true}
//	  - {id: 2, boss: 1}
type rosterFile struct {
	Employees []orghierarchy.Entry `yaml:"employees"`
}

func loadRoster(path string) (entries []orghierarchy.Entry, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	return parseRoster(data)
}

func parseRoster(data []byte) (entries []orghierarchy.Entry, err error) {
	var file rosterFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	return file.Employees, nil
}
