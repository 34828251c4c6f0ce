package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrCommandNotFound  = errors.New("command not found")
)

type Class int

const (
	// Moderation commands are matched before general ones so overlapping
	// bodies resolve deterministically.
	ClassModeration Class = iota
	ClassGeneral
)

// Spec describes a registered command. Immutable after Register; loaded once
// at startup from the embedded catalog.
type Spec struct {
	ID       string
	Aliases  []string
	Body     string
	Class    Class
	Cooldown time.Duration

	// AfkKind is set for the AFK command family and selects the message
	// templates of the matching AFK sub-type.
	AfkKind string
}

type Registry struct {
	specs    []*Spec
	byID     map[string]*Spec
	byAlias  map[string]*Spec
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*Spec),
		byAlias:  make(map[string]*Spec),
		handlers: make(map[string]Handler),
	}
}

func (r *Registry) Register(spec *Spec, h Handler) error {
	if spec == nil || spec.ID == "" {
		return fmt.Errorf("registry: empty command spec")
	}
	if _, ok := r.byID[spec.ID]; ok {
		return fmt.Errorf("registry: %q: %w", spec.ID, ErrDuplicateCommand)
	}
	for _, alias := range spec.Aliases {
		if _, ok := r.byAlias[strings.ToLower(alias)]; ok {
			return fmt.Errorf("registry: alias %q: %w", alias, ErrDuplicateCommand)
		}
	}

	r.byID[spec.ID] = spec
	for _, alias := range spec.Aliases {
		r.byAlias[strings.ToLower(alias)] = spec
	}
	r.handlers[spec.ID] = h

	r.specs = append(r.specs, spec)
	sort.SliceStable(r.specs, func(i, j int) bool {
		return r.specs[i].Class < r.specs[j].Class
	})
	return nil
}

// Resolve looks a spec up by alias, case-insensitively.
func (r *Registry) Resolve(alias string) (*Spec, bool) {
	spec, ok := r.byAlias[strings.ToLower(alias)]
	return spec, ok
}

func (r *Registry) ByID(id string) (*Spec, error) {
	spec, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("registry: %q: %w", id, ErrCommandNotFound)
	}
	return spec, nil
}

func (r *Registry) HandlerFor(id string) (Handler, bool) {
	h, ok := r.handlers[id]
	return h, ok
}

// Specs returns commands in match order: moderation class first, then
// registration order within a class.
func (r *Registry) Specs() []*Spec {
	return r.specs
}
