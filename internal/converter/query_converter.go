package converter

import (
	"net/url"
	"strconv"
	"strings"

	"medical-admin-dashboard/internal/aggregation"
)

// QueryToFilter picks the allowed keys out of a query string. An "id" or
// "...Id" value that parses as an integer is matched numerically, since
// stored ids are numbers.
func QueryToFilter(values url.Values, allowed ...string) aggregation.Filter {
	filter := aggregation.Filter{}
	for _, key := range allowed {
		raw := strings.TrimSpace(values.Get(key))
		if raw == "" {
			continue
		}
		if key == "id" || strings.HasSuffix(key, "Id") {
			if n, err := strconv.Atoi(raw); err == nil {
				filter[key] = n
				continue
			}
		}
		filter[key] = raw
	}
	return filter
}

// QueryToOptions reads sortBy, limit, page and populate from a query string.
func QueryToOptions(values url.Values) aggregation.Options {
	return aggregation.ParseOptions(
		values.Get("sortBy"),
		values.Get("limit"),
		values.Get("page"),
		values.Get("populate"),
	)
}
