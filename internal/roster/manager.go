// Package roster verifies player and team references against the active
// MLB rosters published by the Stats API.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

type Status int

const (
	// Unknown means no verdict: rosters are not loaded or the team
	// reference is not an MLB club.
	Unknown Status = iota
	Correct
	NotFound
	WrongTeam
)

type Verdict struct {
	Status Status
	// Actual lists the teams the player was found on for WrongTeam.
	Actual []Team
}

type Manager struct {
	Client *Client
	Cache  Cache
	TTL    time.Duration
	Logger *slog.Logger
	Now    func() time.Time

	state atomic.Pointer[rosterState]
}

// rosterState is swapped whole so a background refresh never races the
// lookups of a running validation.
type rosterState struct {
	snap  *Snapshot
	index map[string][]int
}

// Load restores rosters from the cache when fresh, otherwise fetches every
// team and refreshes the cache. Teams that fail to fetch are skipped.
func (m *Manager) Load(ctx context.Context) error {
	if m.Cache != nil {
		snap, err := m.Cache.Get(ctx)
		if err != nil {
			m.logger().Warn("roster cache unavailable", "err", err)
		}
		if snap != nil && m.now().Sub(snap.FetchedAt) <= m.TTL {
			m.use(snap)
			m.logger().Info("rosters loaded from cache", "players", m.PlayerCount(), "fetched_at", snap.FetchedAt)
			return nil
		}
	}
	if m.Client == nil {
		return errors.New("roster: no client configured")
	}

	snap := &Snapshot{FetchedAt: m.now(), Rosters: map[int][]Player{}}
	var errs []error
	for _, id := range TeamIDs() {
		players, err := m.Client.ActiveRoster(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
			m.logger().Warn("roster fetch failed", "team", Teams[id].Name, "err", err)
			continue
		}
		snap.Rosters[id] = players
	}
	if len(snap.Rosters) == 0 {
		return fmt.Errorf("roster: no team could be fetched: %w", errors.Join(errs...))
	}
	m.use(snap)

	if m.Cache != nil {
		if err := m.Cache.Put(ctx, snap, m.TTL); err != nil {
			m.logger().Warn("roster cache save failed", "err", err)
		}
	}
	m.logger().Info("rosters fetched", "players", m.PlayerCount(), "teams", len(snap.Rosters))
	return nil
}

// Use installs a snapshot directly.
func (m *Manager) Use(s *Snapshot) { m.use(s) }

func (m *Manager) use(s *Snapshot) {
	st := &rosterState{snap: s, index: map[string][]int{}}
	for id, players := range s.Rosters {
		for _, p := range players {
			full := Fold(p.Name)
			st.add(full, id)
			if parts := strings.Fields(full); len(parts) > 1 {
				st.add(parts[len(parts)-1], id)
			}
		}
	}
	for k := range st.index {
		sort.Ints(st.index[k])
	}
	m.state.Store(st)
}

func (st *rosterState) add(key string, id int) {
	for _, existing := range st.index[key] {
		if existing == id {
			return
		}
	}
	st.index[key] = append(st.index[key], id)
}

func (m *Manager) Loaded() bool { return m.state.Load() != nil }

func (m *Manager) PlayerCount() int {
	st := m.state.Load()
	if st == nil {
		return 0
	}
	n := 0
	for _, p := range st.snap.Rosters {
		n += len(p)
	}
	return n
}

// FindPlayer returns the teams whose roster carries the full name, or
// failing that the last name.
func (m *Manager) FindPlayer(name string) []Team {
	st := m.state.Load()
	if st == nil {
		return nil
	}
	key := Fold(name)
	ids := st.index[key]
	if len(ids) == 0 {
		if parts := strings.Fields(key); len(parts) > 0 {
			ids = st.index[parts[len(parts)-1]]
		}
	}
	out := make([]Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, Teams[id])
	}
	return out
}

func (m *Manager) Verify(player, teamRef string) Verdict {
	if !m.Loaded() {
		return Verdict{Status: Unknown}
	}
	want, ok := ResolveTeam(teamRef)
	if !ok {
		return Verdict{Status: Unknown}
	}
	actual := m.FindPlayer(player)
	if len(actual) == 0 {
		return Verdict{Status: NotFound}
	}
	for _, t := range actual {
		if t.ID == want {
			return Verdict{Status: Correct}
		}
	}
	return Verdict{Status: WrongTeam, Actual: actual}
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
