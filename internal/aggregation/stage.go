package aggregation

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoSource is returned when a stage that reads another collection is
// evaluated without a Source.
var ErrNoSource = errors.New("aggregation: stage needs a document source")

// Source gives the in-memory evaluator access to other collections.
type Source interface {
	Documents(ctx context.Context, collection string) ([]Document, error)
}

// Stage is one step of a pipeline.
type Stage interface {
	render() bson.D
	apply(ctx context.Context, src Source, in []Document) ([]Document, error)
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

// BSON renders the pipeline for the driver.
func (p Pipeline) BSON() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(p))
	for _, st := range p {
		out = append(out, st.render())
	}
	return out
}

// With returns a new pipeline with stages appended. p is never modified.
func (p Pipeline) With(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

// Evaluate runs p over docs in memory.
func Evaluate(ctx context.Context, src Source, docs []Document, p Pipeline) ([]Document, error) {
	cur := docs
	for _, st := range p {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := st.apply(ctx, src, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == nil {
		cur = []Document{}
	}
	return cur, nil
}

// Match keeps documents that satisfy Filter.
type Match struct {
	Filter Filter
}

func (m Match) render() bson.D {
	return bson.D{{Key: "$match", Value: m.Filter.BSON()}}
}

func (m Match) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	out := make([]Document, 0, len(in))
	for _, d := range in {
		if m.Filter.Matches(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Lookup joins documents of From whose ForeignField equals LocalField into
// the array As.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

func (l Lookup) render() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: l.From},
		{Key: "localField", Value: l.LocalField},
		{Key: "foreignField", Value: l.ForeignField},
		{Key: "as", Value: l.As},
	}}}
}

func (l Lookup) apply(ctx context.Context, src Source, in []Document) ([]Document, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	foreign, err := src.Documents(ctx, l.From)
	if err != nil {
		return nil, err
	}

	foreignSegs := splitPath(l.ForeignField)
	index := make(map[string][]int)
	for i, f := range foreign {
		seen := make(map[string]bool)
		for _, c := range matchCandidates(f, foreignSegs) {
			key := canonicalKey(c)
			if seen[key] {
				continue
			}
			seen[key] = true
			index[key] = append(index[key], i)
		}
	}

	localSegs := splitPath(l.LocalField)
	asSegs := splitPath(l.As)
	out := make([]Document, 0, len(in))
	for _, d := range in {
		hits := make(map[int]bool)
		for _, c := range matchCandidates(d, localSegs) {
			for _, i := range index[canonicalKey(c)] {
				hits[i] = true
			}
		}
		positions := make([]int, 0, len(hits))
		for i := range hits {
			positions = append(positions, i)
		}
		sort.Ints(positions)

		joined := make([]interface{}, len(positions))
		for n, i := range positions {
			joined[n] = foreign[i]
		}
		out = append(out, setPath(d, asSegs, joined))
	}
	return out, nil
}

// Unwind emits one document per element of the array at Path.
type Unwind struct {
	Path                       string
	PreserveNullAndEmptyArrays bool
}

func (u Unwind) render() bson.D {
	if !u.PreserveNullAndEmptyArrays {
		return bson.D{{Key: "$unwind", Value: "$" + u.Path}}
	}
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + u.Path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

func (u Unwind) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	segs := splitPath(u.Path)
	out := make([]Document, 0, len(in))
	for _, d := range in {
		v, ok := getPath(d, segs)
		if arr, isArr := asArray(v); ok && isArr {
			if len(arr) == 0 {
				if u.PreserveNullAndEmptyArrays {
					out = append(out, unsetPath(d, segs))
				}
				continue
			}
			for _, el := range arr {
				out = append(out, setPath(d, segs, el))
			}
			continue
		}
		if (!ok || v == nil) && !u.PreserveNullAndEmptyArrays {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Project reshapes documents into exactly the listed fields. _id is dropped
// unless it is listed.
type Project []NamedExpr

func (p Project) render() bson.D {
	d := make(bson.D, 0, len(p)+1)
	hasID := false
	for _, f := range p {
		if f.Name == "_id" {
			hasID = true
		}
		d = append(d, bson.E{Key: f.Name, Value: f.Expr.render()})
	}
	if !hasID {
		d = append(bson.D{{Key: "_id", Value: 0}}, d...)
	}
	return bson.D{{Key: "$project", Value: d}}
}

func (p Project) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	out := make([]Document, 0, len(in))
	for _, d := range in {
		s := &scope{root: d}
		shaped := make(Document, len(p))
		for _, f := range p {
			if v := f.Expr.eval(s); v != nil {
				shaped = setPath(shaped, splitPath(f.Name), v)
			}
		}
		out = append(out, shaped)
	}
	return out, nil
}

// AddFields sets computed fields and keeps the rest of the document.
type AddFields []NamedExpr

func (a AddFields) render() bson.D {
	d := make(bson.D, 0, len(a))
	for _, f := range a {
		d = append(d, bson.E{Key: f.Name, Value: f.Expr.render()})
	}
	return bson.D{{Key: "$addFields", Value: d}}
}

func (a AddFields) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	out := make([]Document, 0, len(in))
	for _, d := range in {
		s := &scope{root: d}
		next := d
		for _, f := range a {
			next = setPath(next, splitPath(f.Name), f.Expr.eval(s))
		}
		out = append(out, next)
	}
	return out, nil
}

// Accumulator operators supported by Group.
const (
	OpSum      = "$sum"
	OpPush     = "$push"
	OpAddToSet = "$addToSet"
	OpFirst    = "$first"
)

// Accumulator computes one output field of a Group.
type Accumulator struct {
	Name string
	Op   string
	Expr Expr
}

// SumOf totals e across the group.
func SumOf(name string, e Expr) Accumulator {
	return Accumulator{Name: name, Op: OpSum, Expr: e}
}

// PushOf collects e for every member of the group.
func PushOf(name string, e Expr) Accumulator {
	return Accumulator{Name: name, Op: OpPush, Expr: e}
}

// AddToSetOf collects the distinct values of e.
func AddToSetOf(name string, e Expr) Accumulator {
	return Accumulator{Name: name, Op: OpAddToSet, Expr: e}
}

// FirstOf keeps e of the first member of the group.
func FirstOf(name string, e Expr) Accumulator {
	return Accumulator{Name: name, Op: OpFirst, Expr: e}
}

// Group buckets documents by ID. A nil ID puts everything in one bucket.
type Group struct {
	ID           Expr
	Accumulators []Accumulator
}

func (g Group) render() bson.D {
	var id interface{}
	if g.ID != nil {
		id = g.ID.render()
	}
	d := bson.D{{Key: "_id", Value: id}}
	for _, a := range g.Accumulators {
		d = append(d, bson.E{Key: a.Name, Value: bson.D{{Key: a.Op, Value: a.Expr.render()}}})
	}
	return bson.D{{Key: "$group", Value: d}}
}

type accumulatorState struct {
	sum      numericSum
	values   []interface{}
	first    interface{}
	hasFirst bool
}

type bucket struct {
	id     interface{}
	states []accumulatorState
}

func (g Group) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	var order []string
	buckets := make(map[string]*bucket)
	for _, d := range in {
		s := &scope{root: d}
		var id interface{}
		if g.ID != nil {
			id = g.ID.eval(s)
		}
		key := canonicalKey(id)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{id: id, states: make([]accumulatorState, len(g.Accumulators))}
			buckets[key] = b
			order = append(order, key)
		}
		for i, a := range g.Accumulators {
			st := &b.states[i]
			v := a.Expr.eval(s)
			switch a.Op {
			case OpSum:
				st.sum.add(v)
			case OpPush:
				if v != nil {
					st.values = append(st.values, v)
				}
			case OpAddToSet:
				if v != nil && !containsEqual(st.values, v) {
					st.values = append(st.values, v)
				}
			case OpFirst:
				if !st.hasFirst {
					st.first, st.hasFirst = v, true
				}
			}
		}
	}

	out := make([]Document, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		doc := Document{"_id": b.id}
		for i, a := range g.Accumulators {
			st := b.states[i]
			switch a.Op {
			case OpSum:
				doc[a.Name] = st.sum.value()
			case OpPush, OpAddToSet:
				if st.values == nil {
					st.values = []interface{}{}
				}
				doc[a.Name] = st.values
			case OpFirst:
				doc[a.Name] = st.first
			}
		}
		out = append(out, doc)
	}
	return out, nil
}

// SortKey orders by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Sort orders documents by its keys in turn. Equal documents keep their
// relative order.
type Sort []SortKey

func (s Sort) render() bson.D {
	keys := make(bson.D, 0, len(s))
	for _, k := range s {
		dir := 1
		if k.Desc {
			dir = -1
		}
		keys = append(keys, bson.E{Key: k.Field, Value: dir})
	}
	return bson.D{{Key: "$sort", Value: keys}}
}

func (s Sort) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	segs := make([][]string, len(s))
	for i, k := range s {
		segs[i] = splitPath(k.Field)
	}
	out := make([]Document, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		for n, k := range s {
			a, _ := resolvePath(out[i], segs[n])
			b, _ := resolvePath(out[j], segs[n])
			if c := compareValues(a, b); c != 0 {
				if k.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

// Fields lists the sorted fields.
func (s Sort) Fields() []string {
	out := make([]string, len(s))
	for i, k := range s {
		out[i] = k.Field
	}
	return out
}

// Skip drops the first n documents.
type Skip int64

func (n Skip) render() bson.D {
	return bson.D{{Key: "$skip", Value: int64(n)}}
}

func (n Skip) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	if n <= 0 {
		return in, nil
	}
	if int64(n) >= int64(len(in)) {
		return []Document{}, nil
	}
	return in[n:], nil
}

// Limit keeps at most n documents.
type Limit int64

func (n Limit) render() bson.D {
	return bson.D{{Key: "$limit", Value: int64(n)}}
}

func (n Limit) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	if int64(n) >= int64(len(in)) {
		return in, nil
	}
	return in[:n], nil
}

// UnionWith appends the output of Pipeline run over Collection.
type UnionWith struct {
	Collection string
	Pipeline   Pipeline
}

func (u UnionWith) render() bson.D {
	args := bson.D{{Key: "coll", Value: u.Collection}}
	if len(u.Pipeline) > 0 {
		args = append(args, bson.E{Key: "pipeline", Value: u.Pipeline.BSON()})
	}
	return bson.D{{Key: "$unionWith", Value: args}}
}

func (u UnionWith) apply(ctx context.Context, src Source, in []Document) ([]Document, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	docs, err := src.Documents(ctx, u.Collection)
	if err != nil {
		return nil, err
	}
	extra, err := Evaluate(ctx, src, docs, u.Pipeline)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(in)+len(extra))
	out = append(out, in...)
	return append(out, extra...), nil
}

// FacetBranch is one named sub-pipeline of a Facet.
type FacetBranch struct {
	Name     string
	Pipeline Pipeline
}

// Facet runs every branch over the same input and emits a single document
// holding each branch's output under its name.
type Facet []FacetBranch

func (f Facet) render() bson.D {
	d := make(bson.D, 0, len(f))
	for _, b := range f {
		d = append(d, bson.E{Key: b.Name, Value: b.Pipeline.BSON()})
	}
	return bson.D{{Key: "$facet", Value: d}}
}

func (f Facet) apply(ctx context.Context, src Source, in []Document) ([]Document, error) {
	doc := make(Document, len(f))
	for _, b := range f {
		res, err := Evaluate(ctx, src, in, b.Pipeline)
		if err != nil {
			return nil, err
		}
		rows := make([]interface{}, len(res))
		for i := range res {
			rows[i] = res[i]
		}
		doc[b.Name] = rows
	}
	return []Document{doc}, nil
}

// Count emits one document holding the number of inputs under the given
// field, or nothing when there are no inputs.
type Count string

func (c Count) render() bson.D {
	return bson.D{{Key: "$count", Value: string(c)}}
}

func (c Count) apply(_ context.Context, _ Source, in []Document) ([]Document, error) {
	if len(in) == 0 {
		return []Document{}, nil
	}
	return []Document{{string(c): int64(len(in))}}, nil
}
