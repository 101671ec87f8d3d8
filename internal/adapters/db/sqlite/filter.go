package sqlite

import (
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// SQLCondition is a WHERE fragment with positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

type filterField struct {
	column string
	kind   *expr.Type
}

// filterSchema maps AIP-160 identifiers of one resource to SQL columns.
type filterSchema map[string]filterField

var (
	campaignFilter = filterSchema{
		"title":        {column: "title", kind: filtering.TypeString},
		"status":       {column: "status", kind: filtering.TypeString},
		"game_edition": {column: "game_edition", kind: filtering.TypeString},
	}
	characterFilter = filterSchema{
		"name":           {column: "name", kind: filtering.TypeString},
		"character_type": {column: "character_type", kind: filtering.TypeString},
		"race":           {column: "race", kind: filtering.TypeString},
		"alignment":      {column: "alignment", kind: filtering.TypeString},
		"background":     {column: "background", kind: filtering.TypeString},
		"hit_points":     {column: "hit_points", kind: filtering.TypeInt},
		"armor_class":    {column: "armor_class", kind: filtering.TypeInt},
		"adventure_id":   {column: "adventure_id", kind: filtering.TypeInt},
	}
	wikiFilter = filterSchema{
		"title":         {column: "title", kind: filtering.TypeString},
		"content_type":  {column: "content_type", kind: filtering.TypeString},
		"imported_from": {column: "imported_from", kind: filtering.TypeString},
		"wiki_url":      {column: "wiki_url", kind: filtering.TypeString},
	}
	magicItemFilter = filterSchema{
		"name":                {column: "name", kind: filtering.TypeString},
		"rarity":              {column: "rarity", kind: filtering.TypeString},
		"item_type":           {column: "item_type", kind: filtering.TypeString},
		"requires_attunement": {column: "requires_attunement", kind: filtering.TypeBool},
	}
)

func (s filterSchema) declarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, field := range s {
		opts = append(opts, filtering.DeclareIdent(name, field.kind))
	}
	return filtering.NewDeclarations(opts...)
}

// Parse turns an AIP-160 filter into a SQL condition. An empty filter
// yields an empty condition. Syntax errors and unknown fields are
// validation errors on the filter field.
func (s filterSchema) Parse(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := s.declarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, domain.Invalid("filter", "%v", err)
	}

	cond, err := s.translateExpr(filter.CheckedExpr.GetExpr())
	if err != nil {
		return SQLCondition{}, domain.Invalid("filter", "%v", err)
	}
	return cond, nil
}

func (s filterSchema) translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return s.translateCall(kind.CallExpr)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func (s filterSchema) translateCall(call *expr.Expr_Call) (SQLCondition, error) {
	switch call.Function {
	case "_&&_", filtering.FunctionAnd:
		return s.translateJunction(call.Args, "AND")
	case "_||_", filtering.FunctionOr:
		return s.translateJunction(call.Args, "OR")
	case "_!_", filtering.FunctionNot:
		if len(call.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := s.translateExpr(call.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	case "_==_", filtering.FunctionEquals:
		return s.translateComparison(call.Args, "=")
	case "_!=_", filtering.FunctionNotEquals:
		return s.translateComparison(call.Args, "!=")
	case "_<_", filtering.FunctionLessThan:
		return s.translateComparison(call.Args, "<")
	case "_<=_", filtering.FunctionLessEquals:
		return s.translateComparison(call.Args, "<=")
	case "_>_", filtering.FunctionGreaterThan:
		return s.translateComparison(call.Args, ">")
	case "_>=_", filtering.FunctionGreaterEquals:
		return s.translateComparison(call.Args, ">=")
	case filtering.FunctionHas:
		return s.translateHas(call.Args)
	default:
		return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func (s filterSchema) translateJunction(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := s.translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	right, err := s.translateExpr(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func (s filterSchema) translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	column, err := s.column(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

// translateHas maps the ":" operator to a substring match on text columns.
func (s filterSchema) translateHas(args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("has requires 2 arguments")
	}

	column, err := s.column(args[0])
	if err != nil {
		return SQLCondition{}, err
	}

	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	text, ok := value.(string)
	if !ok {
		return SQLCondition{}, fmt.Errorf("has requires a string operand")
	}

	return SQLCondition{
		Clause: fmt.Sprintf("%s LIKE ?", column),
		Params: []any{"%" + text + "%"},
	}, nil
}

func (s filterSchema) column(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	ident, ok := e.ExprKind.(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected identifier, got %T", e.ExprKind)
	}
	field, ok := s[ident.IdentExpr.Name]
	if !ok {
		return "", fmt.Errorf("unknown field: %s", ident.IdentExpr.Name)
	}
	return field.column, nil
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	constant, ok := e.ExprKind.(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.ExprKind)
	}

	switch kind := constant.ConstExpr.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
