// Package deviceid identifies the software or radio that sent a packet,
// using the tocall and Mic-E tables of the APRS device identification
// database.
package deviceid

import (
	"cmp"
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"aprsdecode/packet"

	"gopkg.in/yaml.v3"
)

//go:embed tocalls.yaml
var embeddedTocalls string

// Device describes a sender.
type Device struct {
	Vendor string
	Model  string
	Class  string
}

func (d Device) String() string {
	switch {
	case d.Vendor == "":
		return d.Model
	case d.Model == "":
		return d.Vendor
	}
	return d.Vendor + " " + d.Model
}

type tocallEntry struct {
	Tocall string `yaml:"tocall"`
	Vendor string `yaml:"vendor"`
	Model  string `yaml:"model"`
	Class  string `yaml:"class"`
}

type miceEntry struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
	Vendor string `yaml:"vendor"`
	Model  string `yaml:"model"`
	Class  string `yaml:"class"`
}

type database struct {
	Tocalls    []tocallEntry `yaml:"tocalls"`
	Mice       []miceEntry   `yaml:"mice"`
	MiceLegacy []miceEntry   `yaml:"micelegacy"`
}

// Registry holds the lookup tables. It is read-only after Load and safe
// for concurrent use.
type Registry struct {
	tocalls []tocallEntry
	mice    []miceEntry
	legacy  []miceEntry
}

// Load parses a tocalls.yaml document.
func Load(r io.Reader) (*Registry, error) {
	var db database
	if err := yaml.NewDecoder(r).Decode(&db); err != nil {
		return nil, fmt.Errorf("parse device table: %w", err)
	}

	reg := &Registry{mice: db.Mice, legacy: db.MiceLegacy}
	for _, t := range db.Tocalls {
		// Wildcards only ever trail the fixed part, so the rest is a
		// plain prefix.
		t.Tocall = strings.TrimRight(t.Tocall, "?*n")
		if t.Tocall == "" {
			continue
		}
		reg.tocalls = append(reg.tocalls, t)
	}

	// Longest match first.
	slices.SortFunc(reg.tocalls, func(a, b tocallEntry) int {
		if c := cmp.Compare(len(b.Tocall), len(a.Tocall)); c != 0 {
			return c
		}
		return cmp.Compare(a.Tocall, b.Tocall)
	})
	bySuffix := func(a, b miceEntry) int {
		return cmp.Compare(len(b.Suffix), len(a.Suffix))
	}
	slices.SortStableFunc(reg.mice, bySuffix)
	slices.SortStableFunc(reg.legacy, bySuffix)

	return reg, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded table.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(strings.NewReader(embeddedTocalls))
		if err != nil {
			panic("deviceid: embedded table: " + err.Error())
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Identify names the device behind p. Mic-E positions are matched on
// their status text as received, everything else on the destination
// tocall.
func (r *Registry) Identify(p *packet.Packet) (Device, bool) {
	if pos, ok := p.Payload.(*packet.Position); ok && pos.Format == packet.FormatMicE {
		_, dev, found := r.MicE(pos.MicEText)
		return dev, found
	}
	return r.Destination(p.Destination)
}

// Destination matches a destination field, with or without SSID, against
// the tocall table.
func (r *Registry) Destination(dest string) (Device, bool) {
	dest, _, _ = strings.Cut(dest, "-")
	for _, t := range r.tocalls {
		if strings.HasPrefix(dest, t.Tocall) {
			return Device{Vendor: t.Vendor, Model: t.Model, Class: t.Class}, true
		}
	}
	return Device{}, false
}

// MicE matches a Mic-E comment. On a match it also returns the comment
// with the device prefix and suffix removed.
func (r *Registry) MicE(comment string) (string, Device, bool) {
	for _, m := range r.legacy {
		if m.Prefix == "" {
			continue
		}
		if strings.HasPrefix(comment, m.Prefix) && strings.HasSuffix(comment[len(m.Prefix):], m.Suffix) {
			rest := comment[len(m.Prefix) : len(comment)-len(m.Suffix)]
			return rest, Device{Vendor: m.Vendor, Model: m.Model, Class: m.Class}, true
		}
	}

	if comment == "" || (comment[0] != '`' && comment[0] != '\'') {
		return comment, Device{}, false
	}
	for _, m := range r.mice {
		if m.Suffix == "" {
			continue
		}
		if strings.HasSuffix(comment[1:], m.Suffix) {
			rest := comment[1 : len(comment)-len(m.Suffix)]
			return rest, Device{Vendor: m.Vendor, Model: m.Model, Class: m.Class}, true
		}
	}
	return comment, Device{}, false
}
