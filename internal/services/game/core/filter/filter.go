// Package filter translates AIP-160 filter expressions over analytics events
// into SQL conditions.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "kind = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// column describes how a filter field maps onto storage.
type column struct {
	name      string
	timestamp bool
}

var analyticsFields = map[string]column{
	"kind":         {name: "kind"},
	"character_id": {name: "character_id"},
	"story_id":     {name: "story_id"},
	"option_id":    {name: "option_id"},
	"reason":       {name: "reason"},
	"request_id":   {name: "request_id"},
	"ts":           {name: "timestamp", timestamp: true},
}

// AnalyticsDeclarations returns the field declarations for analytics filtering.
func AnalyticsDeclarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for field, col := range analyticsFields {
		kind := filtering.TypeString
		if col.timestamp {
			kind = filtering.TypeTimestamp
		}
		opts = append(opts, filtering.DeclareIdent(field, kind))
	}
	return filtering.NewDeclarations(opts...)
}

// ParseAnalyticsFilter parses an AIP-160 filter and returns a SQL condition.
// An empty filter yields an empty condition.
func ParseAnalyticsFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := AnalyticsDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}
	return translate(parsed.CheckedExpr.GetExpr())
}

var comparisons = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func translate(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}

	fn := strings.Trim(call.CallExpr.Function, "_")
	args := call.CallExpr.Args
	switch fn {
	case "AND", "&&":
		return join("AND", args)
	case "OR", "||":
		return join("OR", args)
	case "NOT", "!":
		if len(args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translate(args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT (" + inner.Clause + ")", Params: inner.Params}, nil
	}
	if op, ok := comparisons[fn]; ok {
		return compare(args, op)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.CallExpr.Function)
}

func join(op string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translate(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := translate(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func compare(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	field := ident.IdentExpr.GetName()
	col, ok := analyticsFields[field]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", field)
	}

	var (
		value any
		err   error
	)
	if col.timestamp {
		value, err = timestampMillis(args[1])
	} else {
		value, err = constant(args[1])
	}
	if err != nil {
		return SQLCondition{}, fmt.Errorf("field %s: %w", field, err)
	}
	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", col.name, op),
		Params: []any{value},
	}, nil
}

func constant(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// timestampMillis accepts timestamp("RFC3339") and returns unix milliseconds,
// the unit analytics timestamps are stored in.
func timestampMillis(e *expr.Expr) (int64, error) {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok || call.CallExpr.GetFunction() != "timestamp" || len(call.CallExpr.GetArgs()) != 1 {
		return 0, fmt.Errorf("expected timestamp(\"...\")")
	}
	raw, err := constant(call.CallExpr.GetArgs()[0])
	if err != nil {
		return 0, err
	}
	text, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", text)
	}
	return t.UTC().UnixMilli(), nil
}
