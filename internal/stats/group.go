package stats

// Group-by helpers over string keys
// Missing keys (empty strings) are dropped, NaN values are skipped in means
// Key order: numeric when every key parses as a number, lexicographic otherwise

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Group is one aggregated bucket.
type Group struct {
	Key   string
	Value float64
}

// Keys returns the group keys in order.
func Keys(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

// Values returns the group values in order.
func Values(groups []Group) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = g.Value
	}
	return out
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "na")
}

// SortKeys orders keys the way pandas orders group labels.
func SortKeys(keys []string) {
	numeric := true
	parsed := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			numeric = false
			break
		}
		parsed[k] = v
	}
	if numeric {
		sort.SliceStable(keys, func(i, j int) bool { return parsed[keys[i]] < parsed[keys[j]] })
		return
	}
	sort.Strings(keys)
}

// GroupMean averages values per key.
func GroupMean(keys []string, values []float64) []Group {
	buckets := make(map[string][]float64)
	n := min(len(keys), len(values))
	for i := 0; i < n; i++ {
		if IsMissing(keys[i]) {
			continue
		}
		k := keys[i]
		if _, ok := buckets[k]; !ok {
			buckets[k] = nil
		}
		if math.IsNaN(values[i]) {
			continue
		}
		buckets[k] = append(buckets[k], values[i])
	}

	ordered := make([]string, 0, len(buckets))
	for k := range buckets {
		ordered = append(ordered, k)
	}
	SortKeys(ordered)

	out := make([]Group, 0, len(ordered))
	for _, k := range ordered {
		vs := buckets[k]
		mean := math.NaN()
		if len(vs) > 0 {
			mean = stat.Mean(vs, nil)
		}
		out = append(out, Group{Key: k, Value: mean})
	}
	return out
}

// CountBy counts rows per key in key order.
func CountBy(keys []string) []Group {
	counts := make(map[string]float64)
	for _, k := range keys {
		if IsMissing(k) {
			continue
		}
		counts[k]++
	}

	ordered := make([]string, 0, len(counts))
	for k := range counts {
		ordered = append(ordered, k)
	}
	SortKeys(ordered)

	out := make([]Group, 0, len(ordered))
	for _, k := range ordered {
		out = append(out, Group{Key: k, Value: counts[k]})
	}
	return out
}

// ValueCounts counts rows per key, most frequent first. Ties keep key order.
func ValueCounts(keys []string) []Group {
	out := CountBy(keys)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}
