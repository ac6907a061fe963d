package dohbench

import (
	"context"
	"sync"
)

// testFleet tests all servers concurrently and returns their results in the order of servers.
// The optional onResult is called after each server test completes, calls are serialized.
func testFleet(ctx context.Context, prober Prober, servers []ServerSpec, domains []string, onResult func(ServerResult)) []ServerResult {
	results := make([]ServerResult, len(servers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, server := range servers {
		wg.Add(1)
		go func(i int, server ServerSpec) {
			defer wg.Done()
			res := testServer(ctx, prober, server, domains)
			results[i] = res

			if onResult != nil {
				mu.Lock()
				defer mu.Unlock()
				onResult(res)
			}
		}(i, server)
	}
	wg.Wait()

	return results
}
