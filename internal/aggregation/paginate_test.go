package aggregation

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type memExecutor struct {
	data       mapSource
	pipelines  []Pipeline
	countCalls []Filter
}

func (m *memExecutor) Aggregate(ctx context.Context, collection string, pipeline Pipeline) ([]bson.M, error) {
	m.pipelines = append(m.pipelines, pipeline)
	docs, err := Evaluate(ctx, m.data, m.data[collection], pipeline)
	if err != nil {
		return nil, err
	}
	out := make([]bson.M, len(docs))
	for i, d := range docs {
		out[i] = bson.M(d)
	}
	return out, nil
}

func (m *memExecutor) Count(_ context.Context, collection string, filter Filter) (int64, error) {
	m.countCalls = append(m.countCalls, filter)
	var n int64
	for _, d := range m.data[collection] {
		if filter.Matches(d) {
			n++
		}
	}
	return n, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type doctorRow struct {
	ID                 int    `bson:"id"`
	Name               string `bson:"name"`
	VerificationStatus string `bson:"verificationStatus"`
	Profile            bson.M `bson:"profile,omitempty"`
}

func doctorFixture() mapSource {
	return mapSource{
		"doctors": {
			{"_id": 1, "id": 1, "name": "Dr. A"},
			{"_id": 2, "id": 2, "name": "Dr. B"},
			{"_id": 3, "id": 3, "name": "Dr. C"},
		},
		"doctorprofiles": {
			{"idDoctor": 1, "verificationStatus": "unverified"},
			{"idDoctor": 2, "verificationStatus": "verified"},
			{"idDoctor": 3, "verificationStatus": "verified"},
		},
	}
}

func doctorPipeline() Pipeline {
	return Pipeline{
		Lookup{From: "doctorprofiles", LocalField: "id", ForeignField: "idDoctor", As: "profile"},
		Unwind{Path: "profile"},
		Project{
			As("id", Field("id")),
			As("name", Field("name")),
			As("verificationStatus", Field("profile.verificationStatus")),
		},
	}
}

func TestParseOptions(t *testing.T) {
	o := ParseOptions(" name:desc ", "abc", "2", "doctor.profile")
	assert.Equal(t, Options{SortBy: "name:desc", Limit: 0, Page: 2, Populate: "doctor.profile"}, o)

	limit, page := o.window()
	assert.Equal(t, DefaultLimit, limit)
	assert.Equal(t, 2, page)
}

func TestParseSortBy(t *testing.T) {
	assert.Equal(t, Sort{{Field: "createdAt"}}, ParseSortBy(""))
	assert.Equal(t, Sort{
		{Field: "name", Desc: true},
		{Field: "createdAt"},
	}, ParseSortBy("name:desc, createdAt:asc,name:asc,:desc"))
	assert.Equal(t, Sort{{Field: "name"}}, ParseSortBy("name:sideways"))
}

func TestParsePopulate(t *testing.T) {
	specs := ParsePopulate("doctor.profile, clinic")
	require.Len(t, specs, 2)
	assert.Equal(t, "doctor", specs[0].Path)
	require.NotNil(t, specs[0].Populate)
	assert.Equal(t, "profile", specs[0].Populate.Path)
	assert.Nil(t, specs[0].Populate.Populate)
	assert.Equal(t, PopulateSpec{Path: "clinic"}, specs[1])
	assert.Empty(t, ParsePopulate(""))
}

func TestPaginateReshapingPipelineUsesFacet(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())

	res, err := Paginate[doctorRow](context.Background(), p, Query{
		Collection: "doctors",
		Pipeline:   doctorPipeline(),
		Filter:     Filter{"verificationStatus": "verified"},
		Options:    Options{Limit: 1, Page: 2},
		TieBreak:   []string{"id"},
	})
	require.NoError(t, err)

	assert.Empty(t, exec.countCalls)
	assert.Equal(t, int64(2), res.TotalResults)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 1, res.Limit)
	require.Len(t, res.Results, 1)
	assert.Equal(t, doctorRow{ID: 3, Name: "Dr. C", VerificationStatus: "verified"}, res.Results[0])
}

func TestPaginateMatchOnlyPipelineCountsCollection(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())

	res, err := p.Run(context.Background(), Query{
		Collection: "doctorprofiles",
		Pipeline:   Pipeline{Match{Filter: Filter{"verificationStatus": "verified"}}},
		Filter:     Filter{"idDoctor": 3},
		Options:    Options{SortBy: "idDoctor:desc"},
	})
	require.NoError(t, err)

	require.Len(t, exec.countCalls, 1)
	assert.Equal(t, Filter{"verificationStatus": "verified", "idDoctor": 3}, exec.countCalls[0])
	assert.Equal(t, int64(1), res.TotalResults)
	assert.Len(t, res.Results, 1)
}

func TestPaginateConflictingMatchFallsBackToFacet(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())

	res, err := p.Run(context.Background(), Query{
		Collection: "doctorprofiles",
		Pipeline:   Pipeline{Match{Filter: Filter{"verificationStatus": "verified"}}},
		Filter:     Filter{"verificationStatus": "unverified"},
	})
	require.NoError(t, err)
	assert.Empty(t, exec.countCalls)
	assert.Equal(t, int64(0), res.TotalResults)
	assert.Equal(t, 0, res.TotalPages)
	assert.NotNil(t, res.Results)
}

func TestPaginatePageBeyondLastIsEmpty(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())

	res, err := Paginate[doctorRow](context.Background(), p, Query{
		Collection: "doctors",
		Pipeline:   doctorPipeline(),
		Options:    Options{Limit: 2, Page: 5},
		TieBreak:   []string{"id"},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.NotNil(t, res.Results)
	assert.Equal(t, int64(3), res.TotalResults)
	assert.Equal(t, 2, res.TotalPages)
}

func TestPaginateHugePageIsEmpty(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())

	for _, opts := range []Options{
		ParseOptions("", "10", "9223372036854775807", ""),
		ParseOptions("", "9223372036854775807", "3", ""),
		ParseOptions("", "9223372036854775807", "9223372036854775807", ""),
	} {
		res, err := Paginate[doctorRow](context.Background(), p, Query{
			Collection: "doctors",
			Pipeline:   doctorPipeline(),
			Options:    opts,
			TieBreak:   []string{"id"},
		})
		require.NoError(t, err, "%+v", opts)
		assert.Empty(t, res.Results, "%+v", opts)
		assert.Equal(t, int64(3), res.TotalResults, "%+v", opts)
		assert.Equal(t, opts.Page, res.Page)
		assert.LessOrEqual(t, 1, res.TotalPages)
	}
}

func TestSkipSaturates(t *testing.T) {
	assert.Equal(t, int64(0), skip(10, 1))
	assert.Equal(t, int64(20), skip(10, 3))
	assert.Equal(t, int64(math.MaxInt64), skip(10, math.MaxInt))
	assert.Equal(t, int64(math.MaxInt64), skip(math.MaxInt, 3))
}

func TestPaginateDefaultSortAppliesWithoutSortBy(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())

	q := Query{
		Collection:  "doctors",
		Pipeline:    doctorPipeline(),
		TieBreak:    []string{"id"},
		DefaultSort: Sort{{Field: "name", Desc: true}},
	}
	res, err := Paginate[doctorRow](context.Background(), p, q)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "Dr. C", res.Results[0].Name)

	q.Options.SortBy = "name:asc"
	res, err = Paginate[doctorRow](context.Background(), p, q)
	require.NoError(t, err)
	assert.Equal(t, "Dr. A", res.Results[0].Name)
}

func TestPaginatePopulatesNestedReferences(t *testing.T) {
	data := doctorFixture()
	data["doctorfeedbacks"] = []Document{
		{"_id": 10, "id": 1, "name": "Dr. A"},
		{"_id": 11, "id": 9, "name": "Unknown"},
	}
	refs := References{
		"doctorfeedbacks": {"doctor": {LocalField: "id", From: "doctors", ForeignField: "id"}},
		"doctors":         {"profile": {LocalField: "id", From: "doctorprofiles", ForeignField: "idDoctor"}},
	}
	exec := &memExecutor{data: data}
	p := NewPaginator(exec, refs, quietLogger())

	res, err := p.Run(context.Background(), Query{
		Collection: "doctorfeedbacks",
		Options:    Options{Populate: "doctor.profile,missing"},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)

	doctor, ok := asDocument(res.Results[0]["doctor"])
	require.True(t, ok)
	assert.Equal(t, "Dr. A", doctor["name"])
	profile, ok := asDocument(doctor["profile"])
	require.True(t, ok)
	assert.Equal(t, "unverified", profile["verificationStatus"])

	unmatched, _ := asDocument(res.Results[1]["doctor"])
	assert.Empty(t, unmatched)

	window := exec.pipelines[0]
	assert.Equal(t, Lookup{From: "doctorprofiles", LocalField: "doctor.id", ForeignField: "idDoctor", As: "doctor.profile"}, window[5])
}

func TestPaginationPartitionsResultSet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("pages cover every row exactly once", prop.ForAll(
		func(n, limit int) bool {
			docs := make([]Document, n)
			for i := range docs {
				docs[i] = Document{"_id": i, "createdAt": i % 3}
			}
			exec := &memExecutor{data: mapSource{"rows": docs}}
			p := NewPaginator(exec, nil, quietLogger())

			seen := make(map[interface{}]bool)
			var pages int
			for page := 1; ; page++ {
				res, err := p.Run(context.Background(), Query{
					Collection: "rows",
					Options:    Options{SortBy: "createdAt:desc", Limit: limit, Page: page},
				})
				if err != nil || res.TotalResults != int64(n) {
					return false
				}
				pages = res.TotalPages
				if len(res.Results) == 0 {
					break
				}
				for _, r := range res.Results {
					if seen[r["_id"]] {
						return false
					}
					seen[r["_id"]] = true
				}
			}
			return len(seen) == n && pages == (n+limit-1)/limit
		},
		gen.IntRange(0, 40),
		gen.IntRange(1, 7),
	))

	properties.TestingRun(t)
}

func TestPaginateIsIdempotent(t *testing.T) {
	exec := &memExecutor{data: doctorFixture()}
	p := NewPaginator(exec, nil, quietLogger())
	q := Query{Collection: "doctors", Pipeline: doctorPipeline(), Options: Options{SortBy: "name:desc"}, TieBreak: []string{"id"}}

	first, err := Paginate[doctorRow](context.Background(), p, q)
	require.NoError(t, err)
	second, err := Paginate[doctorRow](context.Background(), p, q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Dr. C", first.Results[0].Name)
}
