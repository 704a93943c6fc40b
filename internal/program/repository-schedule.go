package program

import (
	"context"
	"errors"
	"fmt"
)

// sqliteScheduleRepository reads the immutable schedule template.
type sqliteScheduleRepository struct {
	baseRepository
}

// List retrieves the whole schedule template in day-in-cycle order.
func (r *sqliteScheduleRepository) List(ctx context.Context) (_ []Day, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT day_in_cycle, title, category, duration_minutes, description_markdown
		FROM schedule_days
		ORDER BY day_in_cycle`)
	if err != nil {
		return nil, fmt.Errorf("query schedule days: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var days []Day
	for rows.Next() {
		var (
			day         Day
			categoryStr string
		)
		if err = rows.Scan(&day.DayInCycle, &day.Title, &categoryStr,
			&day.DurationMinutes, &day.DescriptionMarkdown); err != nil {
			return nil, fmt.Errorf("scan schedule day: %w", err)
		}
		day.Category = Category(categoryStr)
		days = append(days, day)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return days, nil
}
