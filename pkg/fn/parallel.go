package fn

import "sync"

// FanOut runs the functions concurrently and returns their results in
// argument order. It does not return until every function has finished;
// this is the join barrier callers rely on.
func FanOut[T any](fns ...func() T) []T {
	out := make([]T, len(fns))
	var wg sync.WaitGroup
	for i, f := range fns {
		wg.Add(1)
		go func(i int, f func() T) {
			defer wg.Done()
			out[i] = f()
		}(i, f)
	}
	wg.Wait()
	return out
}
