package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorwamb/IA-PF/internal/entities"
)

// UsageRepository counts answered messages per day and source.
type UsageRepository struct {
	db *pgxpool.Pool
}

func NewUsageRepository(db *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Record(ctx context.Context, source entities.Source) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chat_usage (date, source, answered)
		VALUES (CURRENT_DATE, $1, 1)
		ON CONFLICT (date, source)
		DO UPDATE SET answered = chat_usage.answered + 1
	`, string(source))
	return err
}

// History returns one entry per day that has usage, newest first, covering the last days days.
func (r *UsageRepository) History(ctx context.Context, days int) ([]entities.DailyUsage, error) {
	if days < 1 {
		days = 1
	}
	rows, err := r.db.Query(ctx, `
		SELECT date, source, answered FROM chat_usage
		WHERE date > CURRENT_DATE - $1::int
		ORDER BY date DESC
	`, days)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var (
		history []entities.DailyUsage
		current *entities.DailyUsage
	)
	for rows.Next() {
		var (
			date     time.Time
			source   string
			answered int
		)
		if err := rows.Scan(&date, &source, &answered); err != nil {
			return nil, err
		}
		if current == nil || !current.Date.Equal(date) {
			history = append(history, entities.DailyUsage{Date: date})
			current = &history[len(history)-1]
		}
		addUsage(current, entities.Source(source), answered)
	}
	return history, rows.Err()
}

func addUsage(d *entities.DailyUsage, source entities.Source, n int) {
	switch source {
	case entities.SourceRemote:
		d.Remote += n
	case entities.SourcePredefined:
		d.Predefined += n
	default:
		d.Default += n
	}
}
