package aggregation

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
)

// Decode converts a raw result row into out through a BSON round trip, so
// struct tags behave exactly as they do for driver cursors. Untyped nested
// documents decode as bson.M.
func Decode(raw interface{}, out interface{}) error {
	data, err := bson.Marshal(raw)
	if err != nil {
		return err
	}
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	if err != nil {
		return err
	}
	dec.DefaultDocumentM()
	return dec.Decode(out)
}

// DecodeAll decodes every row into a T. The result is never nil.
func DecodeAll[T any](rows []bson.M) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := Decode(row, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
