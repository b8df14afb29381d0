package play

import (
	"context"
	"strings"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"github.com/nightbus/nightbus/internal/services/game/domain/character"
	"github.com/nightbus/nightbus/internal/services/game/domain/narrative"
	"github.com/nightbus/nightbus/internal/services/game/domain/session"
	"github.com/nightbus/nightbus/internal/services/game/storage"
)

// ChoiceResult is the outcome of one choice.
type ChoiceResult struct {
	// GameOver is set when the choice ended the session.
	GameOver bool
	// Reason is "character died" or "story complete" when GameOver is set.
	Reason string
	// EndReason is the machine-readable form of Reason.
	EndReason session.EndReason
	Character character.Character
	Story     narrative.Story
	// Page is the next page; nil when GameOver is set.
	Page *narrative.Page
	// Delta describes what the option did to the character.
	Delta         character.Delta
	EffectMessage string
}

// ChoiceResolver applies a chosen option and advances or ends the session.
type ChoiceResolver struct {
	deps       Deps
	sessions   *SessionManager
	characters *CharacterState
}

// NewChoiceResolver builds a ChoiceResolver.
func NewChoiceResolver(deps Deps, sessions *SessionManager, characters *CharacterState) (*ChoiceResolver, error) {
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	if sessions == nil || characters == nil {
		return nil, apperrors.New(apperrors.CodeUnknown, "play: session manager and character state are required")
	}
	return &ChoiceResolver{deps: deps, sessions: sessions, characters: characters}, nil
}

// MakeChoice applies optionID for characterID. The option must be on the
// character's current page; a mismatch fails with OPTION_NOT_ON_PAGE and
// changes nothing. The whole step runs under the character lock in one
// transaction, and analytics are recorded after it commits.
func (r *ChoiceResolver) MakeChoice(ctx context.Context, characterID, optionID string) (result ChoiceResult, err error) {
	ctx, span := startSpan(ctx, "ChoiceResolver.MakeChoice", characterID)
	defer func() { endSpan(span, err) }()

	characterID = strings.TrimSpace(characterID)
	optionID = strings.TrimSpace(optionID)
	if characterID == "" || optionID == "" {
		return ChoiceResult{}, invalidArgument("character_id and option_id are required", "option_id")
	}

	unlock := r.deps.Locks.Lock(characterID)
	defer unlock()

	var events []storage.AnalyticsEvent
	err = r.deps.Store.WithTx(ctx, func(tx storage.GameStore) error {
		var err error
		result, events, err = r.resolve(ctx, tx, characterID, optionID)
		return err
	})
	if err != nil {
		return ChoiceResult{}, err
	}

	for _, evt := range events {
		r.deps.Recorder.Record(ctx, evt)
	}
	return result, nil
}

func (r *ChoiceResolver) resolve(ctx context.Context, tx storage.GameStore, characterID, optionID string) (ChoiceResult, []storage.AnalyticsEvent, error) {
	sess, err := tx.GetSession(ctx, characterID)
	if err != nil {
		return ChoiceResult{}, nil, notFoundAs(err, EntityActiveGame, characterID)
	}

	graph := NewGraph(tx)
	option, err := graph.Option(ctx, optionID)
	if err != nil {
		return ChoiceResult{}, nil, err
	}
	if option.PageID != sess.PageID {
		return ChoiceResult{}, nil, apperrors.WithMetadata(apperrors.CodeOptionNotOnPage, "option "+optionID+" is not on page "+sess.PageID, map[string]string{
			"OptionID": optionID,
			"PageID":   sess.PageID,
		})
	}

	current, err := graph.Page(ctx, sess.PageID)
	if err != nil {
		return ChoiceResult{}, nil, err
	}
	story, err := graph.Story(ctx, sess.StoryID)
	if err != nil {
		return ChoiceResult{}, nil, err
	}
	c, err := loadCharacter(ctx, tx, characterID)
	if err != nil {
		return ChoiceResult{}, nil, err
	}
	if !character.IsAlive(c) {
		return ChoiceResult{}, nil, characterDead(characterID)
	}

	c, delta, err := r.characters.apply(ctx, tx, c, option.Effect)
	if err != nil {
		return ChoiceResult{}, nil, err
	}

	result := ChoiceResult{
		Character:     c,
		Story:         story,
		Delta:         delta,
		EffectMessage: delta.Message(),
	}
	events := []storage.AnalyticsEvent{{
		Kind:        storage.AnalyticsChoiceMade,
		CharacterID: characterID,
		StoryID:     sess.StoryID,
		OptionID:    optionID,
	}}

	if !character.HasVitals(c) {
		dead, err := r.characters.kill(ctx, tx, c)
		if err != nil {
			return ChoiceResult{}, nil, err
		}
		result.Character = dead
		return gameOver(result, session.EndDeath), append(events, sessionEnded(sess, session.EndDeath)), nil
	}

	next := narrative.NextNumber(current.Number)
	hasNext, err := graph.HasPage(ctx, sess.StoryID, next)
	if err != nil {
		return ChoiceResult{}, nil, err
	}
	if !hasNext {
		if err := r.sessions.Terminate(ctx, tx, characterID); err != nil {
			return ChoiceResult{}, nil, err
		}
		return gameOver(result, session.EndCompletion), append(events, sessionEnded(sess, session.EndCompletion)), nil
	}

	page, err := graph.PageAt(ctx, sess.StoryID, next)
	if err != nil {
		return ChoiceResult{}, nil, err
	}
	if err := tx.AdvanceSession(ctx, characterID, page.ID, r.deps.now()); err != nil {
		return ChoiceResult{}, nil, err
	}
	result.Page = &page
	return result, events, nil
}

func gameOver(result ChoiceResult, reason session.EndReason) ChoiceResult {
	result.GameOver = true
	result.EndReason = reason
	result.Reason = reason.Message()
	result.Page = nil
	return result
}

func sessionEnded(sess session.Session, reason session.EndReason) storage.AnalyticsEvent {
	return storage.AnalyticsEvent{
		Kind:        storage.AnalyticsSessionEnded,
		CharacterID: sess.CharacterID,
		StoryID:     sess.StoryID,
		Reason:      reason,
	}
}
