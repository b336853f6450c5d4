package views

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/pokedex/internal/lookup"
	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/pokedex"
	"github.com/f3rmion/pokedex/internal/tui/spriteart"
)

type fakeFetcher struct {
	mu       sync.Mutex
	results  map[string]pokedex.LookupResult
	calls    []string
	contexts []context.Context
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{results: map[string]pokedex.LookupResult{
		"pikachu": {
			Name:      "pikachu",
			Image:     "https://sprites.test/25.png",
			Abilities: []string{"static"},
			Types:     []string{"electric"},
		},
		"bulbasaur":  {Name: "bulbasaur", Abilities: []string{"overgrow"}, Types: []string{"grass", "poison"}},
		"charmander": {Name: "charmander", Abilities: []string{"blaze"}, Types: []string{"fire"}},
	}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, name string) (pokedex.LookupResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.contexts = append(f.contexts, ctx)

	r, ok := f.results[name]
	if !ok {
		return pokedex.LookupResult{}, &pokeapi.Error{Kind: pokeapi.KindNotFound, Status: 404, Query: name}
	}
	return r, nil
}

type fakeSprites struct {
	data  []byte
	calls int
}

func (f *fakeSprites) GetSprite(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.data == nil {
		return nil, errors.New("no sprite")
	}
	return f.data, nil
}

func squarePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 250, G: 200, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestModel(f lookup.Fetcher, opts LookupOptions) LookupModel {
	return NewLookupModel(context.Background(), f, nil, opts)
}

func typeText(m LookupModel, s string) LookupModel {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m LookupModel, k tea.KeyType) (LookupModel, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

// runCmd executes cmd and flattens batches. Only use it on commands that
// do not sleep.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func resultOf(t *testing.T, cmd tea.Cmd) lookupResultMsg {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if r, ok := msg.(lookupResultMsg); ok {
			return r
		}
	}
	t.Fatal("command produced no lookup result")
	return lookupResultMsg{}
}

func TestNewLookupModel(t *testing.T) {
	m := newTestModel(newFakeFetcher(), LookupOptions{})

	assert.Equal(t, lookup.StatusIdle, m.State().Status)
	assert.Equal(t, focusInput, m.focus)
	assert.Equal(t, 40, m.opts.SpriteWidth)
	assert.NotNil(t, m.opts.Clipboard)
	assert.Contains(t, m.View(), "Search")
	assert.NotContains(t, m.View(), "Loading...")
}

func TestLookupModel_BlankInput(t *testing.T) {
	for _, input := range []string{"", "   "} {
		t.Run("input ["+input+"]", func(t *testing.T) {
			f := newFakeFetcher()
			m := typeText(newTestModel(f, LookupOptions{}), input)

			m, cmd := press(m, tea.KeyEnter)

			assert.Nil(t, cmd, "no network call for blank input")
			assert.Empty(t, f.calls)
			assert.Equal(t, lookup.StatusFailed, m.State().Status)
			assert.Contains(t, m.View(), lookup.MsgEmptyInput)
		})
	}
}

func TestLookupModel_Success(t *testing.T) {
	f := newFakeFetcher()
	m := typeText(newTestModel(f, LookupOptions{}), "PiKaChu")

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, lookup.StatusLoading, m.State().Status, "loading before any response")
	assert.Contains(t, m.View(), "Loading...")

	msg := resultOf(t, cmd)
	assert.Equal(t, []string{"pikachu"}, f.calls)

	m, _ = m.Update(msg)
	st := m.State()
	require.Equal(t, lookup.StatusSuccess, st.Status)
	assert.Equal(t, "pikachu", st.Result.Name)
	assert.Equal(t, "https://sprites.test/25.png", st.Result.Image)

	view := m.View()
	assert.NotContains(t, view, "Loading...")
	assert.Contains(t, view, "Pikachu")
	assert.Contains(t, view, "Abilities: static")
	assert.Contains(t, view, "Types: electric")
	assert.Equal(t, "PiKaChu", m.Value(), "input text is kept")
}

func TestLookupModel_Failure(t *testing.T) {
	f := newFakeFetcher()
	m := typeText(newTestModel(f, LookupOptions{}), "agumon")

	m, cmd := press(m, tea.KeyEnter)
	m, _ = m.Update(resultOf(t, cmd))

	st := m.State()
	assert.Equal(t, lookup.StatusFailed, st.Status)
	assert.Nil(t, st.Result)

	view := m.View()
	assert.Contains(t, view, "Pokémon not found. Please check the name and try again.")
	assert.NotContains(t, view, "Abilities")
	assert.NotContains(t, view, "Loading...")
}

func TestLookupModel_NewSearchClearsPrevious(t *testing.T) {
	f := newFakeFetcher()
	m := typeText(newTestModel(f, LookupOptions{}), "pikachu")
	m, cmd := press(m, tea.KeyEnter)
	m, _ = m.Update(resultOf(t, cmd))
	require.Equal(t, lookup.StatusSuccess, m.State().Status)

	m.input.SetValue("agumon")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, lookup.StatusLoading, m.State().Status)
	assert.NotContains(t, m.View(), "Abilities")
}

func TestLookupModel_LatestRequestWins(t *testing.T) {
	t.Run("stale response after latest is dropped", func(t *testing.T) {
		f := newFakeFetcher()
		m := typeText(newTestModel(f, LookupOptions{}), "bulbasaur")
		m, first := press(m, tea.KeyEnter)

		m.input.SetValue("charmander")
		m, second := press(m, tea.KeyEnter)

		m, _ = m.Update(resultOf(t, second))
		m, _ = m.Update(resultOf(t, first))

		require.Equal(t, lookup.StatusSuccess, m.State().Status)
		assert.Equal(t, "charmander", m.State().Result.Name)
	})

	t.Run("stale response before latest does not settle", func(t *testing.T) {
		f := newFakeFetcher()
		m := typeText(newTestModel(f, LookupOptions{}), "bulbasaur")
		m, first := press(m, tea.KeyEnter)

		m.input.SetValue("charmander")
		m, second := press(m, tea.KeyEnter)

		m, _ = m.Update(resultOf(t, first))
		assert.Equal(t, lookup.StatusLoading, m.State().Status)

		m, _ = m.Update(resultOf(t, second))
		assert.Equal(t, "charmander", m.State().Result.Name)
	})

	t.Run("new search cancels the previous request", func(t *testing.T) {
		f := newFakeFetcher()
		m := typeText(newTestModel(f, LookupOptions{}), "bulbasaur")
		m, first := press(m, tea.KeyEnter)
		resultOf(t, first)

		m.input.SetValue("charmander")
		_, _ = press(m, tea.KeyEnter)

		require.Len(t, f.contexts, 1)
		assert.ErrorIs(t, f.contexts[0].Err(), context.Canceled)
	})
}

func TestLookupModel_Idempotent(t *testing.T) {
	f := newFakeFetcher()
	m := typeText(newTestModel(f, LookupOptions{}), "pikachu")

	m, cmd := press(m, tea.KeyEnter)
	m, _ = m.Update(resultOf(t, cmd))
	first := *m.State().Result

	m, cmd = press(m, tea.KeyEnter)
	m, _ = m.Update(resultOf(t, cmd))
	second := *m.State().Result

	assert.Equal(t, first, second)
	assert.Len(t, f.calls, 2, "repeated queries are not cached")
}

func TestLookupModel_Focus(t *testing.T) {
	f := newFakeFetcher()
	m := typeText(newTestModel(f, LookupOptions{}), "pikachu")

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, focusButton, m.focus)

	m = typeText(m, "zzz")
	assert.Equal(t, "pikachu", m.Value(), "typing is ignored while the button has focus")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	require.NotNil(t, cmd, "space activates the button")
	assert.Equal(t, lookup.StatusLoading, m.State().Status)

	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, focusInput, m.focus)
}

func TestLookupModel_TrimPolicy(t *testing.T) {
	t.Run("trimmed by default", func(t *testing.T) {
		f := newFakeFetcher()
		m := typeText(newTestModel(f, LookupOptions{}), "  pikachu ")
		_, cmd := press(m, tea.KeyEnter)
		resultOf(t, cmd)
		assert.Equal(t, []string{"pikachu"}, f.calls)
	})

	t.Run("kept when configured", func(t *testing.T) {
		f := newFakeFetcher()
		m := typeText(newTestModel(f, LookupOptions{KeepWhitespace: true}), "  pikachu ")
		_, cmd := press(m, tea.KeyEnter)
		resultOf(t, cmd)
		assert.Equal(t, []string{"  pikachu "}, f.calls)
	})
}

func TestLookupModel_Copy(t *testing.T) {
	var copied string
	f := newFakeFetcher()
	m := typeText(newTestModel(f, LookupOptions{
		Clipboard: func(text string) error {
			copied = text
			return nil
		},
	}), "pikachu")

	_, cmd := press(m, tea.KeyCtrlY)
	assert.Nil(t, cmd, "nothing to copy before a result")

	m, cmd = press(m, tea.KeyEnter)
	m, _ = m.Update(resultOf(t, cmd))

	m, cmd = press(m, tea.KeyCtrlY)
	assert.NotNil(t, cmd)
	assert.Contains(t, copied, "Name: pikachu")
	assert.Contains(t, m.View(), "Copied!")

	m, _ = m.Update(clearCopiedMsg{})
	assert.NotContains(t, m.View(), "Copied!")
}

func TestLookupModel_Sprite(t *testing.T) {
	sprites := &fakeSprites{data: squarePNG(t)}
	cache := spriteart.NewCache(time.Minute)
	f := newFakeFetcher()

	m := NewLookupModel(context.Background(), f, sprites, LookupOptions{
		Sprite:       true,
		SpriteWidth:  8,
		SpriteHeight: 4,
		SpriteCache:  cache,
	})
	m = typeText(m, "pikachu")

	m, cmd := press(m, tea.KeyEnter)
	m, spriteCmd := m.Update(resultOf(t, cmd))
	require.NotNil(t, spriteCmd)

	msgs := runCmd(spriteCmd)
	require.Len(t, msgs, 1)
	m, _ = m.Update(msgs[0])

	assert.NotEmpty(t, m.art)
	assert.Contains(t, m.View(), "▀")
	assert.Equal(t, 1, sprites.calls)
	assert.Equal(t, 1, cache.Len())

	// Second lookup renders from the cache, but still hits the API.
	m, cmd = press(m, tea.KeyEnter)
	assert.Empty(t, m.art)
	m, spriteCmd = m.Update(resultOf(t, cmd))
	assert.Nil(t, spriteCmd)
	assert.NotEmpty(t, m.art)
	assert.Equal(t, 1, sprites.calls)
	assert.Len(t, f.calls, 2)
}

func TestLookupModel_SpriteFailureKeepsResult(t *testing.T) {
	sprites := &fakeSprites{}
	m := NewLookupModel(context.Background(), newFakeFetcher(), sprites, LookupOptions{Sprite: true})
	m = typeText(m, "pikachu")

	m, cmd := press(m, tea.KeyEnter)
	m, spriteCmd := m.Update(resultOf(t, cmd))
	for _, msg := range runCmd(spriteCmd) {
		m, _ = m.Update(msg)
	}

	assert.Empty(t, m.art)
	assert.Equal(t, lookup.StatusSuccess, m.State().Status)
	assert.Contains(t, m.View(), "Abilities: static")
}

func TestLookupModel_SpriteWithoutImage(t *testing.T) {
	sprites := &fakeSprites{data: squarePNG(t)}
	m := NewLookupModel(context.Background(), newFakeFetcher(), sprites, LookupOptions{Sprite: true})
	m = typeText(m, "bulbasaur")

	m, cmd := press(m, tea.KeyEnter)
	_, spriteCmd := m.Update(resultOf(t, cmd))

	assert.Nil(t, spriteCmd)
	assert.Zero(t, sprites.calls)
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "grass, poison", wordWrap("grass, poison", 40))
	assert.Equal(t, "grass,\npoison", wordWrap("grass, poison", 8))
	assert.Equal(t, "", wordWrap("", 10))
}
