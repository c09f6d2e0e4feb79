package viewstate

import (
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testOrigin = "http://127.0.0.1:5001/"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t testing.TB, address string) (*Store, *MemoryAddressBar) {
	t.Helper()
	bar, err := NewMemoryAddressBar(address)
	require.NoError(t, err)
	return New(bar, discardLogger()), bar
}

func TestStore_SetLevelRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		store, _ := newTestStore(t, testOrigin)
		v := domain.FloodLevel(rapid.Float64Range(float64(domain.MinLevel), float64(domain.MaxLevel)).Draw(rt, "level"))

		if err := store.SetLevel(v); err != nil {
			rt.Fatalf("set level %v: %v", v, err)
		}
		if got := store.Level(); got != v {
			rt.Fatalf("Level() = %v after SetLevel(%v)", got, v)
		}
	})
}

func TestStore_SliderLevelsRoundTrip(t *testing.T) {
	store, bar := newTestStore(t, testOrigin)
	for _, v := range domain.Levels() {
		require.NoError(t, store.SetLevel(v))
		assert.Equal(t, v, store.Level())
		assert.Equal(t, v.String(), bar.URL().Query().Get(LevelParam))
	}
}

func TestStore_DefaultFallback(t *testing.T) {
	cases := []string{
		testOrigin,
		testOrigin + "?level=",
		testOrigin + "?level=abc",
		testOrigin + "?level=9",
		testOrigin + "?level=-1",
		testOrigin + "?level=NaN",
		testOrigin + "?other=1",
	}
	for _, address := range cases {
		store, _ := newTestStore(t, address)
		assert.Equal(t, domain.DefaultLevel, store.Level(), address)
	}
}

func TestStore_ReadsLevelFromAddress(t *testing.T) {
	store, _ := newTestStore(t, testOrigin+"?level=0.5")
	assert.Equal(t, domain.FloodLevel(0.5), store.Level())
}

func TestStore_SetLevelPushesWithoutDroppingOtherParams(t *testing.T) {
	store, bar := newTestStore(t, testOrigin+"?theme=dark")

	require.NoError(t, store.SetLevel(1.5))
	require.NoError(t, store.SetLevel(3))

	assert.Equal(t, []string{
		testOrigin + "?theme=dark",
		testOrigin + "?level=1.5&theme=dark",
		testOrigin + "?level=3&theme=dark",
	}, bar.History())
	assert.Equal(t, testOrigin+"?level=3&theme=dark", store.Address())
}

func TestStore_SetLevelRejectsInvalid(t *testing.T) {
	store, bar := newTestStore(t, testOrigin+"?level=1")

	err := store.SetLevel(4)
	require.ErrorIs(t, err, domain.ErrInvalidLevel)
	assert.Equal(t, domain.FloodLevel(1), store.Level())
	assert.Len(t, bar.History(), 1, "no history entry for a rejected level")
}

func TestStore_SubscribeNotifiesOnChange(t *testing.T) {
	store, _ := newTestStore(t, testOrigin)

	var got []domain.FloodLevel
	unsubscribe := store.Subscribe(func(v domain.FloodLevel) { got = append(got, v) })

	require.NoError(t, store.SetLevel(1))
	require.NoError(t, store.SetLevel(1)) // unchanged: no notification
	require.NoError(t, store.SetLevel(2.5))

	unsubscribe()
	require.NoError(t, store.SetLevel(0))

	assert.Equal(t, []domain.FloodLevel{1, 2.5}, got)
}

func TestStore_SyncAfterBack(t *testing.T) {
	store, bar := newTestStore(t, testOrigin)

	require.NoError(t, store.SetLevel(1))
	require.NoError(t, store.SetLevel(3))

	var got []domain.FloodLevel
	store.Subscribe(func(v domain.FloodLevel) { got = append(got, v) })

	require.True(t, bar.Back())
	assert.Equal(t, domain.FloodLevel(1), store.Sync())
	assert.Equal(t, []domain.FloodLevel{1}, got)

	require.True(t, bar.Back())
	assert.Equal(t, domain.DefaultLevel, store.Sync())
	assert.False(t, bar.Back())
}

// pushOnlyBar records addresses but keeps no history.
type pushOnlyBar struct{ u *url.URL }

func (b *pushOnlyBar) URL() *url.URL {
	c := *b.u
	return &c
}

func (b *pushOnlyBar) Push(u *url.URL) {
	c := *u
	b.u = &c
}

func TestStore_Back(t *testing.T) {
	store, _ := newTestStore(t, testOrigin+"?level=0.5")
	require.NoError(t, store.SetLevel(2.5))

	require.True(t, store.Back())
	assert.Equal(t, domain.FloodLevel(0.5), store.Sync())
	assert.False(t, store.Back(), "already at the first entry")

	u, err := url.Parse(testOrigin)
	require.NoError(t, err)
	plain := New(&pushOnlyBar{u: u}, discardLogger())
	require.NoError(t, plain.SetLevel(1))
	assert.False(t, plain.Back())
	assert.Equal(t, domain.FloodLevel(1), plain.Level())
}

func TestMemoryAddressBar_URLIsACopy(t *testing.T) {
	bar, err := NewMemoryAddressBar(testOrigin)
	require.NoError(t, err)

	u := bar.URL()
	u.RawQuery = "level=3"

	assert.Empty(t, bar.URL().RawQuery)
}

func TestNewMemoryAddressBar_InvalidURL(t *testing.T) {
	_, err := NewMemoryAddressBar("http://[::1")
	require.Error(t, err)
}
