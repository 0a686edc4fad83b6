package rest

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Param is a single query string parameter.
type Param struct {
	Key   string
	Value interface{}
}

// Query is an ordered list of query parameters. Parameters are written to the
// URL in slice order.
type Query []Param

// NewQuery builds a Query from alternating key/value arguments.
// A trailing key without a value gets an empty value.
//
// Example:
//
//	q := rest.NewQuery("limit", 10, "offset", 0) // ?limit=10&offset=0
func NewQuery(kv ...interface{}) Query {
	q := make(Query, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		p := Param{Key: fmt.Sprint(kv[i])}
		if i+1 < len(kv) {
			p.Value = kv[i+1]
		} else {
			p.Value = ""
		}
		q = append(q, p)
	}
	return q
}

// QueryFromMap converts a map into a Query ordered by key, since map
// iteration order is not stable in Go.
func QueryFromMap(m map[string]interface{}) Query {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make(Query, 0, len(keys))
	for _, k := range keys {
		q = append(q, Param{Key: k, Value: m[k]})
	}
	return q
}

// Add appends a parameter and returns the extended Query.
func (q Query) Add(key string, value interface{}) Query {
	return append(q, Param{Key: key, Value: value})
}

// Encode renders the query as k1=v1&k2=v2. When escape is false keys and
// values are concatenated raw, which is what existing integrations expect.
func (q Query) Encode(escape bool) string {
	var buf strings.Builder
	for i, p := range q {
		if i > 0 {
			buf.WriteByte('&')
		}
		key, value := p.Key, formatValue(p.Value)
		if escape {
			key, value = url.QueryEscape(key), url.QueryEscape(value)
		}
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(value)
	}
	return buf.String()
}

func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
