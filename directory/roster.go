/*
roster.go - YAML roster file loading

The roster file is the operator-maintained list of registered staff:

  staff:
    - id: anna
      name: Anna Keller
      phone: "+41791234567"
    - id: marco
      name: Marco Bianchi
      phone: "0041791234568"
*/
package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type rosterFile struct {
	Staff []Member `yaml:"staff"`
}

// LoadFile parses a YAML roster file.
func LoadFile(path string) ([]Member, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML roster bytes, validating that every entry has an ID.
func Parse(data []byte) ([]Member, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for i, m := range file.Staff {
		if m.ID == "" {
			return nil, fmt.Errorf("roster entry %d: missing id", i)
		}
	}
	return file.Staff, nil
}

// LoadInto loads a roster file and registers every member.
func LoadInto(roster *Roster, path string) (int, error) {
	members, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for _, m := range members {
		roster.Add(m)
	}
	return len(members), nil
}
