package service

import (
	"sync"
	"testing"

	"github.com/smallbiznis/transitfare/internal/card/domain"
	"github.com/smallbiznis/transitfare/internal/clock"
	"github.com/smallbiznis/transitfare/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	return NewIssuer(IssuerParam{
		Log:    zap.NewNop(),
		Clock:  clock.NewFakeClock(monday),
		IDs:    NewIDAllocator(),
		Policy: StaticPolicy(domain.DefaultPolicy()),
	})
}

func TestIssuer_IDsStrictlyIncrease(t *testing.T) {
	issuer := newTestIssuer(t)

	var last int64
	for _, kind := range []domain.Kind{domain.KindStandard, domain.KindHalfFare, domain.KindDailyFree, domain.KindAlwaysFree} {
		c, err := issuer.Issue(kind)
		require.NoError(t, err)
		assert.Greater(t, c.ID(), last)
		assert.Equal(t, kind, c.Kind())
		last = c.ID()
	}
}

func TestIssuer_UnknownKind(t *testing.T) {
	issuer := newTestIssuer(t)
	before := issuer.ids.last.Load()

	_, err := issuer.Issue(domain.Kind(99))
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
	assert.Equal(t, before, issuer.ids.last.Load(), "no id consumed")
}

func TestIDAllocator_ConcurrentUnique(t *testing.T) {
	ids := NewIDAllocator()

	const workers = 50
	const perWorker = 100
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := ids.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), ids.Next()-1)
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.DefaultFareConfig()
	cfg.Ceiling = 40000

	policy := PolicyFromConfig(cfg)

	assertMoney(t, 40000, policy.Ceiling)
	assertMoney(t, -1200, policy.OverdraftFloor)
	assert.Len(t, policy.Denominations, 10)
	assert.True(t, policy.Multiplier(30).Equal(domain.DefaultPolicy().Multiplier(30)))
	assert.Equal(t, domain.DefaultPolicy().HalfFareMinInterval, policy.HalfFareMinInterval)
}

func TestConfigPolicy_FollowsHolder(t *testing.T) {
	holder, err := config.NewStaticFareConfigHolder(config.DefaultFareConfig())
	require.NoError(t, err)

	issuer := NewIssuer(IssuerParam{
		Log:    zap.NewNop(),
		Clock:  clock.NewFakeClock(monday),
		Policy: ConfigPolicy{Holder: holder},
	})
	c, err := issuer.Issue(domain.KindStandard)
	require.NoError(t, err)
	assertMoney(t, 56000, c.Policy().Ceiling)
}
