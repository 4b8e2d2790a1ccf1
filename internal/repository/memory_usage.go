package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/victorwamb/IA-PF/internal/entities"
)

// MemoryUsage is the UsageRecorder used when no database is configured.
type MemoryUsage struct {
	mu   sync.Mutex
	days map[string]*entities.DailyUsage
	now  func() time.Time
}

func NewMemoryUsage() *MemoryUsage {
	return &MemoryUsage{
		days: make(map[string]*entities.DailyUsage),
		now:  time.Now,
	}
}

func (m *MemoryUsage) Record(_ context.Context, source entities.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := m.today()
	key := today.Format(time.DateOnly)
	d, ok := m.days[key]
	if !ok {
		d = &entities.DailyUsage{Date: today}
		m.days[key] = d
	}
	addUsage(d, source, 1)
	return nil
}

func (m *MemoryUsage) History(_ context.Context, days int) ([]entities.DailyUsage, error) {
	if days < 1 {
		days = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.today().AddDate(0, 0, -days)
	history := make([]entities.DailyUsage, 0, len(m.days))
	for _, d := range m.days {
		if d.Date.After(cutoff) {
			history = append(history, *d)
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}

func (m *MemoryUsage) today() time.Time {
	y, mo, d := m.now().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
