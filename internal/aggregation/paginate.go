package aggregation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit     = 10
	DefaultPage      = 1
	DefaultSortField = "createdAt"
	DefaultTieBreak  = "_id"
)

// Options are the pagination parameters accepted by list queries.
//
// SortBy is a comma separated list of field:direction pairs, for example
// "name:asc,createdAt:desc". Populate is a comma separated list of dotted
// reference paths such as "doctor.profile".
type Options struct {
	SortBy   string
	Limit    int
	Page     int
	Populate string
}

// ParseOptions builds Options from raw query string values. Limit and page
// values that are not integers are left at zero so the defaults apply.
func ParseOptions(sortBy, limit, page, populate string) Options {
	return Options{
		SortBy:   strings.TrimSpace(sortBy),
		Limit:    atoiOrZero(limit),
		Page:     atoiOrZero(page),
		Populate: strings.TrimSpace(populate),
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (o Options) window() (limit, page int) {
	limit, page = o.Limit, o.Page
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	return limit, page
}

// skip is the number of rows before page. It saturates instead of
// overflowing, so an absurd page number yields an empty page.
func skip(limit, page int) int64 {
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}

// QueryResult is one page of a list query.
type QueryResult[T any] struct {
	Results      []T   `json:"results"`
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

// Executor runs pipelines and counts against a record store.
type Executor interface {
	Aggregate(ctx context.Context, collection string, pipeline Pipeline) ([]bson.M, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
}

// Query describes a paginated aggregation. Pipeline is the caller's base
// pipeline. Filter is applied after it. TieBreak lists the fields appended
// to the sort so that page boundaries are stable; it defaults to _id.
//
// DefaultSort replaces the createdAt default when Options.SortBy names no
// field. Pipelines that project createdAt away should set it, otherwise
// only the tie-break orders their pages.
type Query struct {
	Collection  string
	Pipeline    Pipeline
	Filter      Filter
	Options     Options
	TieBreak    []string
	DefaultSort Sort
}

func (q Query) sort() Sort {
	keys := parseSortKeys(q.Options.SortBy)
	if len(keys) == 0 {
		keys = q.DefaultSort
	}
	if len(keys) == 0 {
		keys = Sort{{Field: DefaultSortField}}
	}
	return withTieBreak(keys, q.TieBreak)
}

// Paginator runs paginated queries against an Executor.
type Paginator struct {
	exec Executor
	refs References
	log  *logrus.Logger
}

// NewPaginator creates a Paginator. refs resolves populate paths.
func NewPaginator(exec Executor, refs References, log *logrus.Logger) *Paginator {
	return &Paginator{exec: exec, refs: refs, log: log}
}

// Paginate runs q and decodes every result row into T.
func Paginate[T any](ctx context.Context, p *Paginator, q Query) (*QueryResult[T], error) {
	raw, err := p.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	results, err := DecodeAll[T](raw.Results)
	if err != nil {
		return nil, fmt.Errorf("decode %s page: %w", q.Collection, err)
	}
	return &QueryResult[T]{
		Results:      results,
		Page:         raw.Page,
		Limit:        raw.Limit,
		TotalPages:   raw.TotalPages,
		TotalResults: raw.TotalResults,
	}, nil
}

// Run executes q and returns raw result rows.
//
// When the base pipeline only filters, the total comes from a count on the
// collection issued alongside the page query. Otherwise both the page and
// the total are computed in one pass with a facet.
func (p *Paginator) Run(ctx context.Context, q Query) (*QueryResult[bson.M], error) {
	limit, page := q.Options.window()
	window := Pipeline{
		q.sort(),
		Skip(skip(limit, page)),
		Limit(int64(limit)),
	}
	window = append(window, p.populateStages(q.Collection, q.Options.Populate)...)

	base := q.Pipeline
	if len(q.Filter) > 0 {
		base = base.With(Match{Filter: q.Filter})
	}

	var (
		total   int64
		results []bson.M
	)
	if filter, ok := q.countableFilter(); ok {
		p.log.Debugf("Paginating %s with a collection count", q.Collection)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := p.exec.Count(gctx, q.Collection, filter)
			total = n
			return err
		})
		g.Go(func() error {
			rows, err := p.exec.Aggregate(gctx, q.Collection, base.With(window...))
			results = rows
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		p.log.Debugf("Paginating %s with a facet count", q.Collection)
		rows, err := p.exec.Aggregate(ctx, q.Collection, base.With(Facet{
			{Name: "results", Pipeline: window},
			{Name: "total", Pipeline: Pipeline{Count("count")}},
		}))
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			var fp facetPage
			if err := Decode(rows[0], &fp); err != nil {
				return nil, fmt.Errorf("decode %s facet: %w", q.Collection, err)
			}
			results = fp.Results
			if len(fp.Total) > 0 {
				total = fp.Total[0].Count
			}
		}
	}

	if results == nil {
		results = []bson.M{}
	}
	return &QueryResult[bson.M]{
		Results:      results,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages(total, limit),
		TotalResults: total,
	}, nil
}

type facetPage struct {
	Results []bson.M `bson:"results"`
	Total   []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

// countableFilter returns the combined filter of a pipeline made only of
// Match stages, or false when the pipeline reshapes documents.
func (q Query) countableFilter() (Filter, bool) {
	merged := Filter{}
	for _, st := range q.Pipeline {
		m, ok := st.(Match)
		if !ok {
			return nil, false
		}
		if merged, ok = merged.Merge(m.Filter); !ok {
			return nil, false
		}
	}
	return merged.Merge(q.Filter)
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total-1)/int64(limit) + 1)
}

// ParseSortBy turns "field:desc,other:asc" into sort keys. Directions other
// than desc sort ascending. An empty value sorts by createdAt ascending.
func ParseSortBy(sortBy string) Sort {
	keys := parseSortKeys(sortBy)
	if len(keys) == 0 {
		keys = Sort{{Field: DefaultSortField}}
	}
	return keys
}

func parseSortKeys(sortBy string) Sort {
	var keys Sort
	seen := make(map[string]bool)
	for _, part := range strings.Split(sortBy, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		field = strings.TrimSpace(field)
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true
		keys = append(keys, SortKey{Field: field, Desc: strings.EqualFold(strings.TrimSpace(dir), "desc")})
	}
	return keys
}

func withTieBreak(keys Sort, tieBreak []string) Sort {
	if len(tieBreak) == 0 {
		tieBreak = []string{DefaultTieBreak}
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k.Field] = true
	}
	out := append(Sort{}, keys...)
	for _, f := range tieBreak {
		if !seen[f] {
			seen[f] = true
			out = append(out, SortKey{Field: f})
		}
	}
	return out
}
