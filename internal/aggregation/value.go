package aggregation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the in-memory shape of a stored record.
type Document = map[string]interface{}

// BSON type ordering used when values of different kinds are compared.
const (
	rankNull = iota + 1
	rankNumber
	rankString
	rankDocument
	rankArray
	rankBinary
	rankObjectID
	rankBool
	rankDate
	rankOther
)

func asDocument(v interface{}) (Document, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case primitive.M:
		return Document(t), true
	case primitive.D:
		doc := make(Document, len(t))
		for _, e := range t {
			doc[e.Key] = e.Value
		}
		return doc, true
	}
	return nil, false
}

func asArray(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case primitive.A:
		return []interface{}(t), true
	case []Document:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []primitive.M:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []string:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}

// Normalize converts driver and Go container types into Document and
// []interface{} so the evaluator only has to deal with one shape of each.
func Normalize(v interface{}) interface{} {
	if d, ok := asDocument(v); ok {
		out := make(Document, len(d))
		for k, val := range d {
			out[k] = Normalize(val)
		}
		return out
	}
	if a, ok := asArray(v); ok {
		out := make([]interface{}, len(a))
		for i, val := range a {
			out[i] = Normalize(val)
		}
		return out
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case decimal.Decimal:
		f, _ := t.Float64()
		return f, true
	case primitive.Decimal128:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0, false
		}
		f, _ := d.Float64()
		return f, true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

func typeRank(v interface{}) int {
	if v == nil {
		return rankNull
	}
	if _, ok := toFloat(v); ok {
		return rankNumber
	}
	if _, ok := toTime(v); ok {
		return rankDate
	}
	if _, ok := asDocument(v); ok {
		return rankDocument
	}
	if _, ok := asArray(v); ok {
		return rankArray
	}
	switch v.(type) {
	case string:
		return rankString
	case bool:
		return rankBool
	case primitive.ObjectID:
		return rankObjectID
	case []byte, primitive.Binary:
		return rankBinary
	case primitive.Null, primitive.Undefined:
		return rankNull
	}
	return rankOther
}

func compareValues(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return compareInts(ra, rb)
	}
	switch ra {
	case rankNull:
		return 0
	case rankNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankDate:
		ta, _ := toTime(a)
		tb, _ := toTime(b)
		return ta.Compare(tb)
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case rankObjectID:
		return strings.Compare(a.(primitive.ObjectID).Hex(), b.(primitive.ObjectID).Hex())
	}
	return strings.Compare(canonicalKey(a), canonicalKey(b))
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func valuesEqual(a, b interface{}) bool {
	return compareValues(a, b) == 0
}

// canonicalKey renders a value so that equal values produce equal keys,
// regardless of numeric width or map iteration order.
func canonicalKey(v interface{}) string {
	if v == nil {
		return "null"
	}
	if f, ok := toFloat(v); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	if t, ok := toTime(v); ok {
		return "d:" + t.UTC().Format(time.RFC3339Nano)
	}
	if d, ok := asDocument(v); ok {
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(":")
			b.WriteString(canonicalKey(d[k]))
		}
		b.WriteString("}")
		return b.String()
	}
	if a, ok := asArray(v); ok {
		parts := make([]string, len(a))
		for i, el := range a {
			parts[i] = canonicalKey(el)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	switch t := v.(type) {
	case string:
		return "s:" + strconv.Quote(t)
	case bool:
		return "b:" + strconv.FormatBool(t)
	case primitive.ObjectID:
		return "o:" + t.Hex()
	case primitive.Null, primitive.Undefined:
		return "null"
	}
	return fmt.Sprintf("x:%v", v)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// resolvePath follows an expression path. Arrays of documents fan out the
// same way "$a.b" does on the server.
func resolvePath(v interface{}, segs []string) (interface{}, bool) {
	if len(segs) == 0 {
		return v, true
	}
	if doc, ok := asDocument(v); ok {
		next, ok := doc[segs[0]]
		if !ok {
			return nil, false
		}
		return resolvePath(next, segs[1:])
	}
	if arr, ok := asArray(v); ok {
		out := make([]interface{}, 0, len(arr))
		for _, el := range arr {
			if _, isDoc := asDocument(el); !isDoc {
				continue
			}
			if r, ok := resolvePath(el, segs); ok {
				out = append(out, r)
			}
		}
		return out, true
	}
	return nil, false
}

// matchCandidates lists the values a query predicate on path is tested
// against: the value itself, the elements of an array value, and nil when
// the path is missing.
func matchCandidates(doc Document, segs []string) []interface{} {
	var out []interface{}
	var walk func(v interface{}, segs []string)
	walk = func(v interface{}, segs []string) {
		if len(segs) == 0 {
			out = append(out, v)
			if arr, ok := asArray(v); ok {
				out = append(out, arr...)
			}
			return
		}
		if d, ok := asDocument(v); ok {
			next, ok := d[segs[0]]
			if !ok {
				out = append(out, nil)
				return
			}
			walk(next, segs[1:])
			return
		}
		if arr, ok := asArray(v); ok {
			for _, el := range arr {
				if _, isDoc := asDocument(el); isDoc {
					walk(el, segs)
				}
			}
			return
		}
		out = append(out, nil)
	}
	walk(doc, segs)
	return out
}

func getPath(doc Document, segs []string) (interface{}, bool) {
	var cur interface{} = doc
	for _, s := range segs {
		d, ok := asDocument(cur)
		if !ok {
			return nil, false
		}
		cur, ok = d[s]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath returns a copy of doc with val stored at segs. Only the documents
// along the path are copied.
func setPath(doc Document, segs []string, val interface{}) Document {
	out := cloneDocument(doc)
	if len(segs) == 1 {
		out[segs[0]] = val
		return out
	}
	child, ok := asDocument(out[segs[0]])
	if !ok {
		child = Document{}
	}
	out[segs[0]] = setPath(child, segs[1:], val)
	return out
}

func unsetPath(doc Document, segs []string) Document {
	out := cloneDocument(doc)
	if len(segs) == 1 {
		delete(out, segs[0])
		return out
	}
	child, ok := asDocument(out[segs[0]])
	if !ok {
		return out
	}
	out[segs[0]] = unsetPath(child, segs[1:])
	return out
}

func cloneDocument(d Document) Document {
	out := make(Document, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

// toDouble mirrors $convert to double with onError and onNull set to zero.
func toDouble(v interface{}) float64 {
	if v == nil {
		return 0
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	if t, ok := toTime(v); ok {
		return float64(t.UnixMilli())
	}
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return 0
		}
		f, _ := d.Float64()
		return f
	case bool:
		if t {
			return 1
		}
	}
	return 0
}

// numericSum accumulates like $sum: integers stay integral until a
// floating point value joins in. Non-numeric inputs are ignored.
type numericSum struct {
	ints    int64
	floats  float64
	isFloat bool
}

func (n *numericSum) add(v interface{}) {
	switch t := v.(type) {
	case int:
		n.ints += int64(t)
		return
	case int32:
		n.ints += int64(t)
		return
	case int64:
		n.ints += t
		return
	}
	if f, ok := toFloat(v); ok {
		n.isFloat = true
		n.floats += f
	}
}

func (n numericSum) value() interface{} {
	if n.isFloat {
		return n.floats + float64(n.ints)
	}
	return n.ints
}
