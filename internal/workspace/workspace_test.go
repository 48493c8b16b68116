package workspace

import (
	"context"
	"sync"
	"testing"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func strategyResult(token uint64, summary string) Result {
	return Result{
		Kind:     KindStrategy,
		Token:    token,
		Source:   strategy.SourceLocal,
		Strategy: &strategy.GeneratedStrategy{Summary: summary},
	}
}

// storeContract runs the same behaviour checks against any Store.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("empty snapshot for unknown business", func(t *testing.T) {
		snap, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, snap.BusinessID)
		assert.Nil(t, snap.Strategy)
	})

	t.Run("only the latest token applies", func(t *testing.T) {
		first, err := store.NextToken(ctx, id, KindStrategy)
		require.NoError(t, err)
		second, err := store.NextToken(ctx, id, KindStrategy)
		require.NoError(t, err)
		assert.Greater(t, second, first)

		ok, err := store.Apply(ctx, id, strategyResult(second, "newer"))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Apply(ctx, id, strategyResult(first, "older"))
		require.NoError(t, err)
		assert.False(t, ok, "a stale result must not overwrite a newer one")

		snap, err := store.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, snap.Strategy)
		assert.Equal(t, "newer", snap.Strategy.Summary)
		assert.Equal(t, second, snap.StrategyToken)
	})

	t.Run("kinds have independent tokens", func(t *testing.T) {
		planToken, err := store.NextToken(ctx, id, KindPlan)
		require.NoError(t, err)
		ok, err := store.Apply(ctx, id, Result{
			Kind:   KindPlan,
			Token:  planToken,
			Source: strategy.SourceRemote,
			Plan:   &strategy.MarketingPlan{Actions: []string{"QR en mesas"}},
		})
		require.NoError(t, err)
		assert.True(t, ok)

		snap, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "newer", snap.Strategy.Summary)
		assert.Equal(t, []string{"QR en mesas"}, snap.Plan.Actions)
		assert.Equal(t, strategy.SourceRemote, snap.PlanSource)
	})

	t.Run("profile is kept alongside results", func(t *testing.T) {
		p := business.Profile{Name: "Bar Sol", PrimaryObjective: business.ObjectiveVirality}
		require.NoError(t, store.SaveProfile(ctx, id, p))

		snap, err := store.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, snap.Profile)
		assert.Equal(t, "Bar Sol", snap.Profile.Name)
		assert.Equal(t, business.ObjectiveVirality, snap.Profile.PrimaryObjective)
		assert.NotNil(t, snap.Strategy)
	})

	t.Run("result issued before a newer request is rejected", func(t *testing.T) {
		older, err := store.NextToken(ctx, id, KindStrategy)
		require.NoError(t, err)
		_, err = store.NextToken(ctx, id, KindStrategy)
		require.NoError(t, err)

		ok, err := store.Apply(ctx, id, strategyResult(older, "overtaken"))
		require.NoError(t, err)
		assert.False(t, ok)

		snap, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "newer", snap.Strategy.Summary)
	})

	t.Run("delete clears the snapshot but not the tokens", func(t *testing.T) {
		inFlight, err := store.NextToken(ctx, id, KindStrategy)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))
		snap, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, snap.Profile)
		assert.Nil(t, snap.Strategy)

		next, err := store.NextToken(ctx, id, KindStrategy)
		require.NoError(t, err)
		assert.Greater(t, next, inFlight)

		ok, err := store.Apply(ctx, id, strategyResult(inFlight, "from before delete"))
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = store.Apply(ctx, id, strategyResult(next, "after delete"))
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_ConcurrentRequestsLastIssuedWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const n = 20
	tokens := make([]uint64, n)
	for i := range tokens {
		tok, err := store.NextToken(ctx, "b1", KindStrategy)
		require.NoError(t, err)
		tokens[i] = tok
	}

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(tok uint64) {
			defer wg.Done()
			_, err := store.Apply(ctx, "b1", strategyResult(tok, "r"))
			assert.NoError(t, err)
		}(tokens[i])
	}
	wg.Wait()

	snap, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, tokens[n-1], snap.StrategyToken)
}

func TestSnapshot_MsgpackRoundTrip(t *testing.T) {
	roi := 3.2
	product := "Menú del día"
	in := Snapshot{
		BusinessID: "b1",
		Profile: &business.Profile{
			Name:             "Bar Sol",
			Type:             business.TypeRestaurant,
			PrimaryObjective: business.ObjectiveRaiseTicket,
			Products:         []business.Product{{ID: 1, Name: "Burger", Cost: 3.5, Price: 12.9}},
		},
		Strategy: &strategy.GeneratedStrategy{
			Analysis:     "a",
			EstimatedROI: &roi,
			StampCard:    &strategy.LoyaltyCard{Type: strategy.LoyaltyStamps, Product: &product},
		},
		StrategySource: strategy.SourceLocal,
		StrategyToken:  7,
		UpdatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := msgpack.Marshal(&in)
	require.NoError(t, err)

	var out Snapshot
	require.NoError(t, msgpack.Unmarshal(data, &out))
	assert.Equal(t, business.ObjectiveRaiseTicket, out.Profile.PrimaryObjective)
	assert.InDelta(t, 72.87, out.Profile.Products[0].Margin(), 0.01)
	assert.Equal(t, 3.2, *out.Strategy.EstimatedROI)
	assert.Equal(t, "Menú del día", *out.Strategy.StampCard.Product)
	assert.Equal(t, uint64(7), out.StrategyToken)
	assert.True(t, in.UpdatedAt.Equal(out.UpdatedAt))
}

func newMiniRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newMiniRedisStore(t, time.Hour)
	storeContract(t, store)
}

func TestRedisStore_TokenCountersExpireWithSnapshot(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniRedisStore(t, time.Hour)

	tok, err := store.NextToken(ctx, "b1", KindPlan)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tok)
	assert.Equal(t, time.Hour, mr.TTL(redisTokenKey("b1", KindPlan)))

	mr.FastForward(2 * time.Hour)
	assert.False(t, mr.Exists(redisTokenKey("b1", KindPlan)))
}

func TestRedisStore_MissingCounterRejectsResult(t *testing.T) {
	ctx := context.Background()
	store, _ := newMiniRedisStore(t, time.Hour)

	ok, err := store.Apply(ctx, "b1", strategyResult(1, "never issued"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ConcurrentRequestsLastIssuedWins(t *testing.T) {
	ctx := context.Background()
	store, _ := newMiniRedisStore(t, time.Hour)

	const n = 10
	tokens := make([]uint64, n)
	for i := range tokens {
		tok, err := store.NextToken(ctx, "b1", KindStrategy)
		require.NoError(t, err)
		tokens[i] = tok
	}

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(tok uint64) {
			defer wg.Done()
			_, err := store.Apply(ctx, "b1", strategyResult(tok, "r"))
			assert.NoError(t, err)
		}(tokens[i])
	}
	wg.Wait()

	snap, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, tokens[n-1], snap.StrategyToken)
}
