package concurrency

import (
	"context"
	"sync"
)

// ForEach runs fn for each index in [0, tasks) with at most workers running
// concurrently. It returns once all tasks finish; fn is responsible for
// honoring ctx.
func ForEach(ctx context.Context, workers, tasks int, fn func(ctx context.Context, index int)) {
	if workers > tasks {
		workers = tasks
	}
	if workers < 1 {
		workers = 1
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range idx {
				fn(ctx, n)
			}
		}()
	}

	for n := 0; n < tasks; n++ {
		select {
		case idx <- n:
		case <-ctx.Done():
			close(idx)
			wg.Wait()
			return
		}
	}
	close(idx)
	wg.Wait()
}
