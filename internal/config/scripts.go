package config

import (
	"fmt"
	"strings"

	"github.com/example/go-lipi/internal/script"
)

var scriptAliases = map[string]script.ID{
	"deva":     script.Devanagari,
	"te":       script.Telugu,
	"tel":      script.Telugu,
	"kn":       script.Kannada,
	"kan":      script.Kannada,
	"iast":     script.IASTISO,
	"iso":      script.IASTISO,
	"iso15919": script.IASTISO,
}

// NormalizeScript resolves a user-supplied script name, accepting short
// aliases and ignoring case and surrounding whitespace.
func NormalizeScript(raw string) (script.ID, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("script name is empty (expected one of %s)", scriptList())
	}
	if id, ok := scriptAliases[name]; ok {
		return id, nil
	}

	id, err := script.ParseID(name)
	if err != nil {
		return "", fmt.Errorf("invalid script %q (expected one of %s): %w", raw, scriptList(), err)
	}
	return id, nil
}

func scriptList() string {
	ids := script.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, "|")
}
