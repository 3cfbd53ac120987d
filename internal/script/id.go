package script

import (
	"slices"

	"github.com/samber/lo"
)

// ID identifies a supported script.
type ID string

const (
	Devanagari ID = "devanagari"
	Telugu     ID = "telugu"
	Kannada    ID = "kannada"
	IASTISO    ID = "iast_iso"
)

// abugida is the single orthographic attribute carried by each identity.
// Adding a script means adding an entry here and a tables/<id>.toml file.
var abugida = map[ID]bool{
	Devanagari: true,
	Telugu:     true,
	Kannada:    true,
	IASTISO:    false,
}

// ParseID resolves a case-sensitive script name.
func ParseID(name string) (ID, error) {
	id := ID(name)
	if _, ok := abugida[id]; !ok {
		return "", &ConfigError{Script: name, Err: ErrUnknownScript}
	}
	return id, nil
}

// IDs returns every registered script identity in name order.
func IDs() []ID {
	ids := lo.Keys(abugida)
	slices.Sort(ids)
	return ids
}

// IsAbugida reports whether consonants in this script carry an inherent vowel.
func (id ID) IsAbugida() bool {
	return abugida[id]
}

// Valid reports whether id is registered.
func (id ID) Valid() bool {
	_, ok := abugida[id]
	return ok
}

func (id ID) String() string { return string(id) }
