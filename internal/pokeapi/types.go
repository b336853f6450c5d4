package pokeapi

// NamedResource is the {name, url} pair PokéAPI uses for references.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Sprites holds the sprite URLs of a Pokémon.
// FrontDefault is nil when upstream has no sprite.
type Sprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny,omitempty"`
}

// AbilitySlot is one entry of the abilities array. Ability is nil when
// upstream sent null or left it out.
type AbilitySlot struct {
	Ability  *NamedResource `json:"ability"`
	IsHidden bool           `json:"is_hidden"`
	Slot     int            `json:"slot"`
}

// TypeSlot is one entry of the types array.
type TypeSlot struct {
	Slot int            `json:"slot"`
	Type *NamedResource `json:"type"`
}

// Pokemon is the subset of /pokemon/{name} the lookup consumes.
// Sprites, Abilities and Types are nil when absent or null in the body.
type Pokemon struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Sprites   *Sprites      `json:"sprites"`
	Abilities []AbilitySlot `json:"abilities"`
	Types     []TypeSlot    `json:"types"`
}
