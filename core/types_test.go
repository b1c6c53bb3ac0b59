package core

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNarrowingDimensionIsSet(t *testing.T) {
	require.False(t, NarrowingDimension{}.IsSet())
	require.False(t, NarrowingDimension{Value: StringPtr("")}.IsSet())
	require.True(t, NarrowingDimension{Value: StringPtr("b2b")}.IsSet())

	d := NarrowingDimension{Value: StringPtr(DepthFullCustom), Confidence: 0.4}
	require.True(t, d.Is(DepthFullCustom))
	require.False(t, d.Is(DepthNoCode))
	require.False(t, NarrowingDimension{}.Is(""))
}

func TestNarrowingStateNullValuesDecode(t *testing.T) {
	raw := `{
		"customer_type": {"value": "smb", "confidence": 0.8},
		"product_type": {"value": null, "confidence": 0},
		"geography": {"confidence": 0.2}
	}`

	var n NarrowingState
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	require.True(t, n.CustomerType.IsSet())
	require.Equal(t, 0.8, n.CustomerType.Confidence)
	require.False(t, n.ProductType.IsSet())
	require.False(t, n.Geography.IsSet())
	require.False(t, n.TechnicalDepth.IsSet())
}

func TestUUIDProviderUniqueUnderConcurrency(t *testing.T) {
	const workers, perWorker = 8, 200

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	ids := UUIDProvider{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, ids.NewID())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}

func TestFuncAdapters(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.Equal(t, "risk-1", IDProviderFunc(func() string { return "risk-1" }).NewID())
	require.Equal(t, fixed, ClockFunc(func() time.Time { return fixed }).Now())
	require.WithinDuration(t, time.Now(), SystemClock{}.Now(), time.Second)
}
