// Package teams standardizes the many spellings of NFL team names found
// across passing, rushing, and standings pages.
package teams

import (
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Normalizer resolves raw team tokens to canonical franchise names. The
// lookup table is fixed at construction.
type Normalizer struct {
	table map[string]string

	mu       sync.Mutex
	reported map[string]struct{}
}

// New builds a Normalizer from the built-in table plus optional extra
// aliases. Extra aliases must resolve to a canonical name or MultiTeam.
func New(extra map[string]string) (*Normalizer, error) {
	table := make(map[string]string, len(aliases)+len(canonical)+len(extra))
	for _, name := range canonical {
		table[name] = name
	}
	for raw, name := range aliases {
		table[raw] = name
	}

	valid := make(map[string]struct{}, len(canonical)+1)
	for _, name := range canonical {
		valid[name] = struct{}{}
	}
	valid[MultiTeam] = struct{}{}

	for raw, name := range extra {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, eris.New("teams: empty alias")
		}
		if _, ok := valid[name]; !ok {
			return nil, eris.Errorf("teams: alias %q maps to unknown franchise %q", raw, name)
		}
		table[raw] = name
	}

	return &Normalizer{table: table, reported: make(map[string]struct{})}, nil
}

// Default returns a Normalizer over the built-in table only.
func Default() *Normalizer {
	n, err := New(nil)
	if err != nil {
		// The built-in table has no extras to reject.
		panic(err)
	}
	return n
}

// Lookup returns the canonical name for raw and whether it was mapped.
func (n *Normalizer) Lookup(raw string) (string, bool) {
	name, ok := n.table[strings.TrimSpace(raw)]
	return name, ok
}

// Standardize returns the canonical name for raw, or Unknown. Each distinct
// unmapped token is logged once per Normalizer.
func (n *Normalizer) Standardize(raw string) string {
	if name, ok := n.Lookup(raw); ok {
		return name
	}

	key := strings.TrimSpace(raw)
	n.mu.Lock()
	_, seen := n.reported[key]
	if !seen {
		n.reported[key] = struct{}{}
	}
	n.mu.Unlock()

	if !seen {
		zap.L().Warn("team missing from mapping, using Unknown",
			zap.String("component", "teams"),
			zap.String("team", key),
		)
	}
	return Unknown
}

// Unmapped returns the distinct unmapped tokens seen so far.
func (n *Normalizer) Unmapped() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.reported))
	for k := range n.reported {
		out = append(out, k)
	}
	return out
}

// StripPlayoffMarkers removes trailing '*' and '+' clinch markers from a
// standings team name. marked reports whether any marker was present.
func StripPlayoffMarkers(name string) (clean string, marked bool) {
	name = strings.TrimSpace(name)
	clean = strings.TrimRight(name, "*+")
	return strings.TrimSpace(clean), len(clean) != len(name)
}

// aliasFile is the YAML layout accepted by LoadAliases.
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads extra team aliases from a YAML file of the form
//
//	aliases:
//	  "Oakland": "Las Vegas Raiders"
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "teams: read aliases %s", path)
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "teams: parse aliases")
	}
	return f.Aliases, nil
}
