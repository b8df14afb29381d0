package game

import (
	"testing"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestPayloadFields(t *testing.T) {
	in, err := structpb.NewStruct(map[string]any{
		"name":   "  stop-7 ",
		"count":  7,
		"ratio":  1.5,
		"flag":   true,
		"absent": nil,
	})
	if err != nil {
		t.Fatalf("new struct: %v", err)
	}

	if got, err := stringField(in, "name"); err != nil || got != "stop-7" {
		t.Fatalf("string field = %q, %v", got, err)
	}
	if got, err := stringField(in, "absent"); err != nil || got != "" {
		t.Fatalf("null string field = %q, %v", got, err)
	}
	if _, err := stringField(in, "flag"); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("bool as string error = %v", err)
	}
	if _, err := requiredStringField(in, "missing"); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("missing required error = %v", err)
	}

	if got, err := intField(in, "count", 0); err != nil || got != 7 {
		t.Fatalf("int field = %d, %v", got, err)
	}
	if got, err := intField(in, "missing", 42); err != nil || got != 42 {
		t.Fatalf("fallback = %d, %v", got, err)
	}
	if _, err := intField(in, "ratio", 0); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("fraction error = %v", err)
	}
	if _, err := intField(in, "name", 0); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("string as int error = %v", err)
	}
}
