// Package target maps short board mnemonics to the full target triples that
// the cross-compiler understands.
package target

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Target describes a single cross-compilation target.
type Target struct {
	// Triple is the canonical <arch>-<vendor>-<os>-<abi> identifier.
	Triple string
	// Setup holds shell lines that have to run before the build.
	Setup []string
	// Tool overrides the build tool for this target. Empty means the default.
	Tool string
}

// Table maps mnemonics to their targets. Treated as immutable after Merge.
type Table map[string]Target

// Builtin returns the fixed table of supported boards.
func Builtin() Table {
	return Table{
		"4b":   {Triple: "armv7-unknown-linux-gnueabihf"},
		"zero": {Triple: "arm-unknown-linux-gnueabi"},
	}
}

// Resolve looks up the given mnemonic. Anything outside the table (including
// the empty string) is an error; there is no default target.
func (t Table) Resolve(name string) (Target, error) {
	tgt, found := t[name]
	if !found {
		return Target{}, eris.Errorf("unknown target: %s", name)
	}

	return tgt, nil
}

// Names returns every known mnemonic in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
