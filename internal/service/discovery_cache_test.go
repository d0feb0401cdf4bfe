package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomie-match/internal/domain"
)

func sampleResult() DiscoveryResult {
	return DiscoveryResult{
		Zone: domain.ZoneJuja,
		Matches: []DiscoveryMatch{{
			MatchResult: domain.MatchResult{
				Profile:            newProfile("c1", func(p *domain.UserProfile) { p.Zone = domain.ZoneJuja }),
				CompatibilityScore: 65,
				IsExactMatch:       true,
			},
			Label: LabelForScore(65),
		}},
		CandidateCount: 1,
		GeneratedAt:    baseTime,
	}
}

func TestMemoryDiscoveryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryDiscoveryCache()

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", sampleResult(), time.Minute))
	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 65, got.Matches[0].CompatibilityScore)

	// TTL no positivo no guarda nada.
	require.NoError(t, cache.Set(ctx, "skip", sampleResult(), 0))
	_, ok, _ = cache.Get(ctx, "skip")
	assert.False(t, ok)
}

func TestMemoryDiscoveryCache_IsolatesStoredSlices(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryDiscoveryCache()

	in := sampleResult()
	in.RelaxedFilterKeys = []domain.FilterKey{domain.FilterSleepTime}
	require.NoError(t, cache.Set(ctx, "k", in, time.Minute))

	// Editar el valor original no toca la entrada.
	in.Matches[0].CompatibilityScore = -1
	in.RelaxedFilterKeys[0] = domain.FilterNoiseTolerance

	got, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 65, got.Matches[0].CompatibilityScore)
	assert.Equal(t, domain.FilterSleepTime, got.RelaxedFilterKeys[0])

	// Editar lo devuelto tampoco.
	got.Matches[0].CompatibilityScore = -1
	got.RelaxedFilterKeys[0] = domain.FilterNoiseTolerance
	got.Matches = append(got.Matches, got.Matches[0])

	again, _, _ := cache.Get(ctx, "k")
	require.Len(t, again.Matches, 1)
	assert.Equal(t, 65, again.Matches[0].CompatibilityScore)
	assert.Equal(t, domain.FilterSleepTime, again.RelaxedFilterKeys[0])
}

func TestRedisDiscoveryCache_Miniredis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisDiscoveryCache(client)

	_, ok, err := cache.Get(ctx, "v:Juja:1")
	require.NoError(t, err)
	assert.False(t, ok, "missing key is a miss, not an error")

	want := sampleResult()
	require.NoError(t, cache.Set(ctx, "v:Juja:1", want, 30*time.Second))
	assert.True(t, mr.Exists("discovery:v:Juja:1"))
	assert.Equal(t, 30*time.Second, mr.TTL("discovery:v:Juja:1"))

	got, ok, err := cache.Get(ctx, "v:Juja:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Zone, got.Zone)
	assert.Equal(t, want.Matches[0].Profile.UID, got.Matches[0].Profile.UID)
	assert.Equal(t, want.Matches[0].Label, got.Matches[0].Label)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))

	mr.FastForward(31 * time.Second)
	_, ok, err = cache.Get(ctx, "v:Juja:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDiscoveryCache_CorruptPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("discovery:bad", "{not json"))
	_, ok, err := NewRedisDiscoveryCache(client).Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}
