package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/veldtlabs/veldt/spatial"
	"github.com/veldtlabs/veldt/terrain"
)

func newTestWorld(t *testing.T, bodyCount int) *world {
	t.Helper()

	// flat 5x5 grid, 8-unit cells: a 32x32 world, 3 levels deep
	hf, err := terrain.NewHeightField(make([]float32, 25), nil, 5, 5, 8, 8)
	require.NoError(t, err)

	idx, err := spatial.NewIndex(hf.Bounds(), 3,
		spatial.WithLineOfSight(hf.InLineOfSight),
	)
	require.NoError(t, err)

	tiles := hf.BuildTiles()
	for _, tile := range tiles {
		idx.Insert(tile)
	}

	return newWorld(idx, hf, tiles, bodyCount)
}

func TestWorldReady(t *testing.T) {
	t.Run("ready: not before the first frame", func(t *testing.T) {
		w := newTestWorld(t, 0)
		require.False(t, w.ready())
	})

	t.Run("ready: readable while the frame loop runs", func(t *testing.T) {
		w := newTestWorld(t, 4)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, time.Millisecond)
		}()

		// hammer the readiness snapshot the way server goroutines do
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 1000; j++ {
					w.ready()
				}
			}()
		}

		require.Eventually(t, w.ready, time.Second, time.Millisecond)

		cancel()
		wg.Wait()
		require.True(t, w.ready())
	})
}
