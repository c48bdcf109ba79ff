package aggregation

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Expr is an aggregation expression. Every variant renders to the server's
// expression syntax and can also be evaluated against an in-memory document.
type Expr interface {
	render() interface{}
	eval(s *scope) interface{}
}

type scope struct {
	root Document
	vars map[string]interface{}
}

func (s *scope) with(name string, v interface{}) *scope {
	vars := make(map[string]interface{}, len(s.vars)+1)
	for k, val := range s.vars {
		vars[k] = val
	}
	vars[name] = v
	return &scope{root: s.root, vars: vars}
}

// Eval evaluates e against doc.
func Eval(e Expr, doc Document) interface{} {
	return e.eval(&scope{root: doc})
}

// Render returns the server representation of e.
func Render(e Expr) interface{} {
	return e.render()
}

// FieldRef points at a field of the current document, or at a field of a
// variable bound by Map when Var is set.
type FieldRef struct {
	Var  string
	Path string
}

// Field references path on the current document.
func Field(path string) FieldRef {
	return FieldRef{Path: path}
}

// This references path on the element currently bound by Map.
func This(path string) FieldRef {
	return FieldRef{Var: "this", Path: path}
}

func (f FieldRef) render() interface{} {
	if f.Var == "" {
		return "$" + f.Path
	}
	if f.Path == "" {
		return "$$" + f.Var
	}
	return "$$" + f.Var + "." + f.Path
}

func (f FieldRef) eval(s *scope) interface{} {
	var root interface{} = s.root
	if f.Var != "" {
		root = s.vars[f.Var]
	}
	v, _ := resolvePath(root, splitPath(f.Path))
	return v
}

// NamedExpr binds an expression to an output field name.
type NamedExpr struct {
	Name string
	Expr Expr
}

// As names e for use in Project, AddFields and Object.
func As(name string, e Expr) NamedExpr {
	return NamedExpr{Name: name, Expr: e}
}

// Object builds an embedded document. Fields that evaluate to nil are left out.
type Object []NamedExpr

func (o Object) render() interface{} {
	d := make(bson.D, 0, len(o))
	for _, f := range o {
		d = append(d, bson.E{Key: f.Name, Value: f.Expr.render()})
	}
	return d
}

func (o Object) eval(s *scope) interface{} {
	out := make(Document, len(o))
	for _, f := range o {
		if v := f.Expr.eval(s); v != nil {
			out[f.Name] = v
		}
	}
	return out
}

type literal struct {
	value interface{}
}

// Lit is a constant value.
func Lit(v interface{}) Expr {
	return literal{value: v}
}

func (l literal) render() interface{} {
	return bson.D{{Key: "$literal", Value: l.value}}
}

func (l literal) eval(*scope) interface{} {
	return Normalize(l.value)
}

type sizeExpr struct {
	arg Expr
}

// Size is the length of an array.
func Size(arg Expr) Expr {
	return sizeExpr{arg: arg}
}

func (e sizeExpr) render() interface{} {
	return bson.D{{Key: "$size", Value: e.arg.render()}}
}

func (e sizeExpr) eval(s *scope) interface{} {
	arr, _ := asArray(e.arg.eval(s))
	return int64(len(arr))
}

type arraySumExpr struct {
	arg Expr
}

// ArraySum adds up the numeric elements of an array.
func ArraySum(arg Expr) Expr {
	return arraySumExpr{arg: arg}
}

func (e arraySumExpr) render() interface{} {
	return bson.D{{Key: "$sum", Value: e.arg.render()}}
}

func (e arraySumExpr) eval(s *scope) interface{} {
	v := e.arg.eval(s)
	var sum numericSum
	if arr, ok := asArray(v); ok {
		for _, el := range arr {
			sum.add(el)
		}
		return sum.value()
	}
	sum.add(v)
	return sum.value()
}

type mapExpr struct {
	input Expr
	in    Expr
}

// Map applies in to every element of input. Elements are bound to "this".
func Map(input, in Expr) Expr {
	return mapExpr{input: input, in: in}
}

func (e mapExpr) render() interface{} {
	return bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: e.input.render()},
		{Key: "as", Value: "this"},
		{Key: "in", Value: e.in.render()},
	}}}
}

func (e mapExpr) eval(s *scope) interface{} {
	arr, ok := asArray(e.input.eval(s))
	if !ok {
		return nil
	}
	out := make([]interface{}, len(arr))
	for i, el := range arr {
		out[i] = e.in.eval(s.with("this", el))
	}
	return out
}

type condExpr struct {
	cond, then, otherwise Expr
}

// Cond picks then when cond is truthy, otherwise the last argument.
func Cond(cond, then, otherwise Expr) Expr {
	return condExpr{cond: cond, then: then, otherwise: otherwise}
}

func (e condExpr) render() interface{} {
	return bson.D{{Key: "$cond", Value: bson.D{
		{Key: "if", Value: e.cond.render()},
		{Key: "then", Value: e.then.render()},
		{Key: "else", Value: e.otherwise.render()},
	}}}
}

func (e condExpr) eval(s *scope) interface{} {
	if truthy(e.cond.eval(s)) {
		return e.then.eval(s)
	}
	return e.otherwise.eval(s)
}

type gtExpr struct {
	a, b Expr
}

// Gt reports whether a sorts after b.
func Gt(a, b Expr) Expr {
	return gtExpr{a: a, b: b}
}

func (e gtExpr) render() interface{} {
	return bson.D{{Key: "$gt", Value: bson.A{e.a.render(), e.b.render()}}}
}

func (e gtExpr) eval(s *scope) interface{} {
	return compareValues(e.a.eval(s), e.b.eval(s)) > 0
}

type ifNullExpr struct {
	value, fallback Expr
}

// IfNull yields fallback when value is missing or null.
func IfNull(value, fallback Expr) Expr {
	return ifNullExpr{value: value, fallback: fallback}
}

func (e ifNullExpr) render() interface{} {
	return bson.D{{Key: "$ifNull", Value: bson.A{e.value.render(), e.fallback.render()}}}
}

func (e ifNullExpr) eval(s *scope) interface{} {
	if v := e.value.eval(s); v != nil {
		return v
	}
	return e.fallback.eval(s)
}

type isArrayExpr struct {
	arg Expr
}

// IsArray reports whether arg is an array.
func IsArray(arg Expr) Expr {
	return isArrayExpr{arg: arg}
}

func (e isArrayExpr) render() interface{} {
	return bson.D{{Key: "$isArray", Value: bson.A{e.arg.render()}}}
}

func (e isArrayExpr) eval(s *scope) interface{} {
	_, ok := asArray(e.arg.eval(s))
	return ok
}

type toDoubleExpr struct {
	arg Expr
}

// ToDouble converts numbers and numeric strings to a double. Anything that
// cannot be converted, including null, becomes 0.
func ToDouble(arg Expr) Expr {
	return toDoubleExpr{arg: arg}
}

func (e toDoubleExpr) render() interface{} {
	return bson.D{{Key: "$convert", Value: bson.D{
		{Key: "input", Value: e.arg.render()},
		{Key: "to", Value: "double"},
		{Key: "onError", Value: 0.0},
		{Key: "onNull", Value: 0.0},
	}}}
}

func (e toDoubleExpr) eval(s *scope) interface{} {
	return toDouble(e.arg.eval(s))
}

type arrayElemAtExpr struct {
	arr, idx Expr
}

// ArrayElemAt returns the element at idx. Negative indexes count from the end.
func ArrayElemAt(arr, idx Expr) Expr {
	return arrayElemAtExpr{arr: arr, idx: idx}
}

func (e arrayElemAtExpr) render() interface{} {
	return bson.D{{Key: "$arrayElemAt", Value: bson.A{e.arr.render(), e.idx.render()}}}
}

func (e arrayElemAtExpr) eval(s *scope) interface{} {
	arr, ok := asArray(e.arr.eval(s))
	if !ok {
		return nil
	}
	f, ok := toFloat(e.idx.eval(s))
	if !ok {
		return nil
	}
	i := int(f)
	if i < 0 {
		i += len(arr)
	}
	if i < 0 || i >= len(arr) {
		return nil
	}
	return arr[i]
}

type monthExpr struct {
	arg Expr
}

// Month is the UTC calendar month, 1 through 12, of a date.
func Month(arg Expr) Expr {
	return monthExpr{arg: arg}
}

func (e monthExpr) render() interface{} {
	return bson.D{{Key: "$month", Value: e.arg.render()}}
}

func (e monthExpr) eval(s *scope) interface{} {
	t, ok := toTime(e.arg.eval(s))
	if !ok {
		return nil
	}
	return int64(t.UTC().Month())
}
