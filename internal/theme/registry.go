package theme

import (
	"slices"
	"sync"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// Loader produces a fresh Handle for a built-in theme.
type Loader func() (*Handle, error)

var (
	regMu sync.RWMutex
	reg   = map[string]Loader{}
)

// Register makes a built-in theme available under name. Duplicate names are ignored.
func Register(name string, load Loader) {
	if name == "" || load == nil {
		return
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := reg[name]; !ok {
		reg[name] = load
	}
}

// Get loads the built-in theme registered under name.
func Get(name string) (*Handle, error) {
	regMu.RLock()
	load, ok := reg[name]
	regMu.RUnlock()
	if !ok {
		return nil, errors.ThemeError("unknown theme").
			WithContext("theme", name).
			WithContext("available", Names()).
			Build()
	}
	h, err := load()
	if err != nil {
		return nil, err
	}
	if h.Name == "" {
		h.Name = name
	}
	return h, nil
}

// Names lists registered themes in lexical order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
