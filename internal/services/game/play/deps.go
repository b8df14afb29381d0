package play

import (
	"context"
	"errors"
	"time"

	"github.com/nightbus/nightbus/internal/services/game/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nightbus/nightbus/internal/services/game/play"

// Deps are the collaborators shared by the play components.
type Deps struct {
	Store storage.TxStore
	// Locks must be shared by every component built from these Deps;
	// NewEngine arranges that when it is nil.
	Locks    *KeyedLocker
	Recorder *Recorder
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (d Deps) withDefaults() (Deps, error) {
	if d.Store == nil {
		return Deps{}, errors.New("play: store is required")
	}
	if d.Locks == nil {
		d.Locks = NewKeyedLocker()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d, nil
}

func (d Deps) now() time.Time {
	return d.Clock().UTC()
}

func startSpan(ctx context.Context, name, characterID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(
		attribute.String("nightbus.character_id", characterID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
