package store

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"avnu/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	profileID string
	key       string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, profileID, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{profileID, key})
	return p.err
}

func (p *fakePublisher) snapshot() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

func newTestStore(t *testing.T) (*Store, *fakePublisher, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pub := &fakePublisher{}
	return New(rdb, pub, nil), pub, s
}

func TestCart_AddMergesLines(t *testing.T) {
	st, pub, mr := newTestStore(t)
	ctx := context.Background()

	_, err := st.Cart.Add(ctx, "p1", "prod-001", "hearth-and-loom", 1)
	require.NoError(t, err)
	_, err = st.Cart.Add(ctx, "p1", "prod-002", "hearth-and-loom", 2)
	require.NoError(t, err)
	items, err := st.Cart.Add(ctx, "p1", "prod-001", "hearth-and-loom", 3)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, model.CartItem{ProductID: "prod-001", BrandID: "hearth-and-loom", Quantity: 4}, items[0])
	assert.Equal(t, 2, items[1].Quantity)

	total, err := st.Cart.TotalItems(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	assert.True(t, mr.Exists("avnu:profile:p1:cart"))
	events := pub.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, recordedEvent{"p1", "avnu-cart"}, events[0])
}

func TestCart_InvalidQuantity(t *testing.T) {
	st, pub, _ := newTestStore(t)
	_, err := st.Cart.Add(context.Background(), "p1", "prod-001", "b", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, pub.snapshot())
}

func TestCart_UpdateQuantityAndRemove(t *testing.T) {
	st, pub, _ := newTestStore(t)
	ctx := context.Background()

	_, err := st.Cart.Add(ctx, "p1", "prod-001", "b", 1)
	require.NoError(t, err)
	_, err = st.Cart.Add(ctx, "p1", "prod-002", "b", 1)
	require.NoError(t, err)

	items, err := st.Cart.UpdateQuantity(ctx, "p1", "prod-002", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, items[1].Quantity)

	items, err = st.Cart.UpdateQuantity(ctx, "p1", "prod-001", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "prod-002", items[0].ProductID)

	before := len(pub.snapshot())
	items, err = st.Cart.UpdateQuantity(ctx, "p1", "prod-404", 3)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, pub.snapshot(), before, "no-op update must not notify")

	q, err := st.Cart.Quantity(ctx, "p1", "prod-002")
	require.NoError(t, err)
	assert.Equal(t, 5, q)

	items, err = st.Cart.Remove(ctx, "p1", "prod-002")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCart_IncrementDecrement(t *testing.T) {
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := st.Cart.Add(ctx, "p1", "prod-001", "b", 1)
	require.NoError(t, err)

	items, err := st.Cart.Increment(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)

	items, err = st.Cart.Decrement(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)

	items, err = st.Cart.Decrement(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = st.Cart.Increment(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Empty(t, items, "increment of a missing line is a no-op")
}

func TestCart_QuantityIsBounded(t *testing.T) {
	st, pub, _ := newTestStore(t)
	ctx := context.Background()

	_, err := st.Cart.Add(ctx, "p1", "prod-001", "b", math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = st.Cart.Add(ctx, "p1", "prod-001", "b", MaxQuantity)
	require.NoError(t, err)
	_, err = st.Cart.Add(ctx, "p1", "prod-001", "b", 1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = st.Cart.Increment(ctx, "p1", "prod-001")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = st.Cart.UpdateQuantity(ctx, "p1", "prod-001", math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	q, err := st.Cart.Quantity(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, q)
	assert.Len(t, pub.snapshot(), 1, "rejected writes must not notify")

	items, err := st.Cart.Decrement(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity-1, items[0].Quantity)
}

func TestCart_ClearAndIsolation(t *testing.T) {
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := st.Cart.Add(ctx, "p1", "prod-001", "b", 1)
	require.NoError(t, err)
	_, err = st.Cart.Add(ctx, "p2", "prod-009", "b", 1)
	require.NoError(t, err)

	require.NoError(t, st.Cart.Clear(ctx, "p1"))
	items, err := st.Cart.Items(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	other, err := st.Cart.Items(ctx, "p2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestCart_ConcurrentAddsAreNotLost(t *testing.T) {
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.Cart.Add(ctx, "p1", "prod-001", "b", 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	q, err := st.Cart.Quantity(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.Equal(t, 4, q)
}

func TestFavorites_Toggle(t *testing.T) {
	st, pub, _ := newTestStore(t)
	ctx := context.Background()

	on, err := st.Favorites.Toggle(ctx, "p1", "prod-003")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = st.Favorites.Toggle(ctx, "p1", "prod-001")
	require.NoError(t, err)

	ids, err := st.Favorites.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-003", "prod-001"}, ids)

	on, err = st.Favorites.Toggle(ctx, "p1", "prod-003")
	require.NoError(t, err)
	assert.False(t, on)

	has, err := st.Favorites.Contains(ctx, "p1", "prod-003")
	require.NoError(t, err)
	assert.False(t, has)

	ids, err = st.Favorites.Add(ctx, "p1", "prod-001", "prod-002")
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-001", "prod-002"}, ids)

	events := pub.snapshot()
	require.NotEmpty(t, events)
	assert.Equal(t, "avnu-favorites", events[len(events)-1].key)
}

func TestRatings_NormalizeAndGet(t *testing.T) {
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	_, ok, err := st.Ratings.Get(ctx, "p1", "prod-001")
	require.NoError(t, err)
	assert.False(t, ok)

	cases := map[float64]float64{4.26: 4.5, 4.2: 4, 7: 5, -2: 0, 0.74: 0.5, 2.5: 2.5}
	for in, want := range cases {
		got, err := st.Ratings.Set(ctx, "p1", "prod-001", in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %v", in)

		stored, ok, err := st.Ratings.Get(ctx, "p1", "prod-001")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, stored)
	}

	_, err = st.Ratings.Set(ctx, "p1", "prod-001", math.NaN())
	assert.ErrorIs(t, err, ErrInvalidRating)

	all, err := st.Ratings.All(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettings_PutAndValidate(t *testing.T) {
	st, pub, _ := newTestStore(t)
	ctx := context.Background()

	empty, err := st.Settings.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileSettings{}, empty)

	saved, err := st.Settings.Put(ctx, "p1", model.ProfileSettings{
		Name:        " Robin ",
		Email:       "robin@example.com",
		HideCents:   true,
		CompactGrid: true,
		Zip:         "97205",
		State:       "or",
	})
	require.NoError(t, err)
	assert.Equal(t, "Robin", saved.Name)
	assert.Equal(t, "OR", saved.State)

	got, err := st.Settings.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = st.Settings.Put(ctx, "p1", model.ProfileSettings{State: "ZZ"})
	assert.True(t, errors.Is(err, ErrInvalidSettings))

	before := len(pub.snapshot())
	_, err = st.Settings.Put(ctx, "p1", saved)
	require.NoError(t, err)
	assert.Len(t, pub.snapshot(), before, "unchanged settings must not notify")
}

func TestStore_PublishFailureDoesNotFailWrite(t *testing.T) {
	st, pub, _ := newTestStore(t)
	pub.err = errors.New("redis down")

	_, err := st.Cart.Add(context.Background(), "p1", "prod-001", "b", 1)
	require.NoError(t, err)
	items, err := st.Cart.Items(context.Background(), "p1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestStore_RejectsEmptyProfile(t *testing.T) {
	st, _, _ := newTestStore(t)
	_, err := st.Cart.Items(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = st.Favorites.Toggle(context.Background(), "", "prod-001")
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestStore_CorruptDocument(t *testing.T) {
	st, _, mr := newTestStore(t)
	require.NoError(t, mr.Set(DocumentKey("p1", KeyCart), "{not json"))

	_, err := st.Cart.Items(context.Background(), "p1")
	assert.Error(t, err)
}
