package game

import (
	"time"

	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/play"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

func characterToMap(c character.Character) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"user_id":    c.UserID,
		"name":       c.Name,
		"health":     c.Health,
		"sanity":     c.Sanity,
		"alive":      character.IsAlive(c),
		"deleted_at": timestampOrNil(c.DeletedAt),
	}
}

func storyToMap(s narrative.Story) map[string]any {
	return map[string]any{
		"id":          s.ID,
		"title":       s.Title,
		"location_id": s.LocationID,
		"page_count":  s.PageCount,
	}
}

func pageToMap(p narrative.Page) map[string]any {
	options := make([]any, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, map[string]any{
			"id":    o.ID,
			"label": o.Label,
		})
	}
	return map[string]any{
		"id":      p.ID,
		"number":  p.Number,
		"content": p.Content,
		"options": options,
	}
}

func snapshotToMap(s play.Snapshot) map[string]any {
	return map[string]any{
		"story":     storyToMap(s.Story),
		"page":      pageToMap(s.Page),
		"character": characterToMap(s.Character),
	}
}

func stateToMap(s play.State) map[string]any {
	out := map[string]any{"active": s.Active}
	if s.Active {
		for key, value := range snapshotToMap(s.Snapshot) {
			out[key] = value
		}
	}
	return out
}

func choiceResultToMap(r play.ChoiceResult) map[string]any {
	out := map[string]any{
		"game_over":      r.GameOver,
		"character":      characterToMap(r.Character),
		"story":          storyToMap(r.Story),
		"effect_message": r.EffectMessage,
	}
	if r.GameOver {
		out["reason"] = r.Reason
		out["end_reason"] = string(r.EndReason)
	}
	if r.Page != nil {
		out["page"] = pageToMap(*r.Page)
	}
	return out
}

func analyticsEventToMap(e storage.AnalyticsEvent) map[string]any {
	return map[string]any{
		"seq":          e.Seq,
		"kind":         string(e.Kind),
		"character_id": e.CharacterID,
		"story_id":     e.StoryID,
		"option_id":    e.OptionID,
		"reason":       string(e.Reason),
		"request_id":   e.RequestID,
		"trace_id":     e.TraceID,
		"ts":           e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func timestampOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
