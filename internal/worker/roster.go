package worker

import (
	"context"
	"fmt"
	"time"
)

// RosterLoader refreshes roster data. *roster.Manager satisfies it.
type RosterLoader interface {
	Load(ctx context.Context) error
}

// StartRosterWorker reloads rosters every interval so a long-running
// server does not validate against stale teams. The cache decides whether
// a reload actually hits the Stats API.
func StartRosterWorker(ctx context.Context, r RosterLoader, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				fmt.Println("Roster worker stopped")
				return
			case <-ticker.C:
				if err := r.Load(ctx); err != nil {
					fmt.Printf("ERROR [RosterWorker]: %v\n", err)
				}
			}
		}
	}()
}
