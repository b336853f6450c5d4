package lookup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/pokedex"
)

// Fetcher performs a single normalized lookup.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (pokedex.LookupResult, error)
}

// SpriteFetcher downloads sprite bytes.
type SpriteFetcher interface {
	GetSprite(ctx context.Context, url string) ([]byte, error)
}

// Service fetches from PokéAPI and projects the payload.
type Service struct {
	client *pokeapi.Client
	logger zerolog.Logger
}

// NewService wraps a PokéAPI client.
func NewService(client *pokeapi.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Fetch implements Fetcher.
func (s *Service) Fetch(ctx context.Context, name string) (pokedex.LookupResult, error) {
	raw, err := s.client.GetPokemon(ctx, name)
	if err != nil {
		s.logger.Info().
			Str("query", name).
			Str("kind", string(pokeapi.KindOf(err))).
			Err(err).
			Msg("lookup failed")
		return pokedex.LookupResult{}, fmt.Errorf("fetching %q: %w", name, err)
	}

	result, err := pokedex.Project(raw)
	if err != nil {
		s.logger.Warn().Str("query", name).Err(err).Msg("unexpected payload shape")
		return pokedex.LookupResult{}, fmt.Errorf("projecting %q: %w", name, err)
	}

	s.logger.Debug().
		Str("query", name).
		Str("name", result.Name).
		Strs("types", result.Types).
		Msg("lookup succeeded")
	return result, nil
}

// GetSprite implements SpriteFetcher.
func (s *Service) GetSprite(ctx context.Context, url string) ([]byte, error) {
	return s.client.GetSprite(ctx, url)
}

// Once runs a complete lookup for input outside an interactive session and
// returns the settled state, together with the underlying error if any.
func Once(ctx context.Context, f Fetcher, input string, keepWhitespace bool) (State, error) {
	flow := Flow{KeepWhitespace: keepWhitespace}

	req, ok := flow.Trigger(input)
	if !ok {
		return flow.State(), nil
	}

	result, err := f.Fetch(ctx, req.Name)
	flow.Resolve(req.Seq, result, err)
	return flow.State(), err
}
