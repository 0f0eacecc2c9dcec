package test

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunParallel calls fn for 0 <= i < n on at most GOMAXPROCS goroutines and
// returns the first error.
func RunParallel(n int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}

	return g.Wait()
}
