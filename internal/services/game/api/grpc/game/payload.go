package game

import (
	"math"
	"strings"

	apperrors "github.com/nightbus/nightbus/internal/platform/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// Request field names.
const (
	fieldLocationID  = "location_id"
	fieldStoryID     = "story_id"
	fieldOptionID    = "option_id"
	fieldCharacterID = "character_id"
	fieldMaxAgeDays  = "max_age_days"
	fieldFilter      = "filter"
	fieldPageSize    = "page_size"
	fieldPageToken   = "page_token"
	fieldRemoved     = "removed"
)

// stringField returns the trimmed string value of name, or "" when absent.
// A present value of another kind is an invalid argument.
func stringField(in *structpb.Struct, name string) (string, error) {
	value, ok := in.GetFields()[name]
	if !ok || value == nil {
		return "", nil
	}
	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}
	s, isString := value.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", invalidField(name, "must be a string")
	}
	return strings.TrimSpace(s.StringValue), nil
}

func requiredStringField(in *structpb.Struct, name string) (string, error) {
	value, err := stringField(in, name)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", invalidField(name, "is required")
	}
	return value, nil
}

// intField returns the integer value of name, or fallback when absent.
func intField(in *structpb.Struct, name string, fallback int) (int, error) {
	value, ok := in.GetFields()[name]
	if !ok || value == nil {
		return fallback, nil
	}
	n, isNumber := value.GetKind().(*structpb.Value_NumberValue)
	if !isNumber {
		return 0, invalidField(name, "must be a number")
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, invalidField(name, "must be an integer")
	}
	return int(f), nil
}

func invalidField(name, problem string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, name+" "+problem, map[string]string{"Field": name})
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "encode response", err)
	}
	return out, nil
}
