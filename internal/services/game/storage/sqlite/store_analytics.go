package sqlite

import (
	"context"
	"fmt"

	"github.com/nightbus/nightbus/internal/services/game/domain/session"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// AppendAnalyticsEvent appends one analytics event.
func (s *Store) AppendAnalyticsEvent(ctx context.Context, evt storage.AnalyticsEvent) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if evt.Kind == "" {
		return fmt.Errorf("analytics kind is required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO analytics_events (kind, character_id, story_id, option_id, reason, request_id, trace_id, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(evt.Kind),
		evt.CharacterID,
		evt.StoryID,
		evt.OptionID,
		string(evt.Reason),
		evt.RequestID,
		evt.TraceID,
		toMillis(evt.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append analytics event: %w", err)
	}
	return nil
}

// ListAnalyticsEvents returns events after req.AfterSeq in sequence order.
func (s *Store) ListAnalyticsEvents(ctx context.Context, req storage.ListAnalyticsEventsRequest) (storage.AnalyticsEventPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.AnalyticsEventPage{}, err
	}
	if req.PageSize <= 0 {
		return storage.AnalyticsEventPage{}, fmt.Errorf("page size must be greater than zero")
	}

	where := "seq > ?"
	params := []any{req.AfterSeq}
	if req.FilterClause != "" {
		where += " AND " + req.FilterClause
		params = append(params, req.FilterParams...)
	}
	params = append(params, req.PageSize+1)

	rows, err := s.db.QueryContext(ctx, `
SELECT seq, kind, character_id, story_id, option_id, reason, request_id, trace_id, timestamp
FROM analytics_events
WHERE `+where+`
ORDER BY seq
LIMIT ?`, params...)
	if err != nil {
		return storage.AnalyticsEventPage{}, fmt.Errorf("list analytics events: %w", err)
	}
	defer rows.Close()

	var page storage.AnalyticsEventPage
	for rows.Next() {
		var (
			evt    storage.AnalyticsEvent
			kind   string
			reason string
			ts     int64
		)
		if err := rows.Scan(&evt.Seq, &kind, &evt.CharacterID, &evt.StoryID, &evt.OptionID, &reason, &evt.RequestID, &evt.TraceID, &ts); err != nil {
			return storage.AnalyticsEventPage{}, fmt.Errorf("scan analytics event: %w", err)
		}
		evt.Kind = storage.AnalyticsKind(kind)
		evt.Reason = session.EndReason(reason)
		evt.Timestamp = fromMillis(ts)
		page.Events = append(page.Events, evt)
	}
	if err := rows.Err(); err != nil {
		return storage.AnalyticsEventPage{}, fmt.Errorf("list analytics events: %w", err)
	}
	if len(page.Events) > req.PageSize {
		page.Events = page.Events[:req.PageSize]
		page.HasMore = true
	}
	return page, nil
}
