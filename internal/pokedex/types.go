// Package pokedex holds the lookup result model and its projection from
// the raw PokéAPI payload.
package pokedex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/pokedex/internal/pokeapi"
)

// LookupResult is the normalized subset of a Pokémon the UI displays.
type LookupResult struct {
	Name      string   `json:"name" yaml:"name"`
	Image     string   `json:"image,omitempty" yaml:"image,omitempty"` // Empty when upstream has no sprite
	Abilities []string `json:"abilities" yaml:"abilities"`
	Types     []string `json:"types" yaml:"types"`
}

// HasImage reports whether a sprite URL is present.
func (r LookupResult) HasImage() bool {
	return r.Image != ""
}

// AbilityList returns the abilities joined for display.
func (r LookupResult) AbilityList() string {
	return strings.Join(r.Abilities, ", ")
}

// TypeList returns the types joined for display.
func (r LookupResult) TypeList() string {
	return strings.Join(r.Types, ", ")
}

// Summary is a plain-text rendering used for the clipboard and the CLI.
func (r LookupResult) Summary() string {
	var sb strings.Builder
	sb.WriteString("Name: " + r.Name + "\n")
	if r.HasImage() {
		sb.WriteString("Image: " + r.Image + "\n")
	}
	sb.WriteString("Abilities: " + r.AbilityList() + "\n")
	sb.WriteString("Types: " + r.TypeList() + "\n")
	return sb.String()
}

// Project maps a raw payload onto a LookupResult, keeping upstream order.
// A payload missing its name, sprites, abilities or types, or carrying a
// null ability or type entry, is reported as malformed. A null
// front_default is a valid absent image.
func Project(p *pokeapi.Pokemon) (LookupResult, error) {
	if err := checkShape(p); err != nil {
		return LookupResult{}, &pokeapi.Error{Kind: pokeapi.KindMalformed, Err: err}
	}

	result := LookupResult{
		Name:      p.Name,
		Abilities: make([]string, 0, len(p.Abilities)),
		Types:     make([]string, 0, len(p.Types)),
	}
	if p.Sprites.FrontDefault != nil {
		result.Image = *p.Sprites.FrontDefault
	}
	for _, a := range p.Abilities {
		result.Abilities = append(result.Abilities, a.Ability.Name)
	}
	for _, t := range p.Types {
		result.Types = append(result.Types, t.Type.Name)
	}

	return result, nil
}

func checkShape(p *pokeapi.Pokemon) error {
	switch {
	case p == nil:
		return errors.New("empty payload")
	case p.Name == "":
		return errors.New("payload has no name")
	case p.Sprites == nil:
		return errors.New("payload has no sprites")
	case p.Abilities == nil:
		return errors.New("payload has no abilities")
	case p.Types == nil:
		return errors.New("payload has no types")
	}
	for i, a := range p.Abilities {
		if a.Ability == nil {
			return fmt.Errorf("abilities[%d] has no ability", i)
		}
	}
	for i, t := range p.Types {
		if t.Type == nil {
			return fmt.Errorf("types[%d] has no type", i)
		}
	}
	return nil
}
