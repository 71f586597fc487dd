package store

import (
	"fmt"
	"strings"
)

// OrderKey is one sort key for ordered iteration.
type OrderKey string

const (
	OrderSeqID       OrderKey = "seqid"
	OrderFeatureType OrderKey = "featuretype"
	OrderStrand      OrderKey = "strand"
	OrderStart       OrderKey = "start"
)

// DefaultOrder is the iteration order used by the merge pass.
var DefaultOrder = []OrderKey{OrderSeqID, OrderFeatureType, OrderStrand, OrderStart}

var orderColumns = map[OrderKey]string{
	OrderSeqID:       "seqid",
	OrderFeatureType: "featuretype",
	OrderStrand:      "strand",
	OrderStart:       "start_pos",
}

// ParseOrder validates a list of sort key names. Duplicates are rejected.
func ParseOrder(names []string) ([]OrderKey, error) {
	keys := make([]OrderKey, 0, len(names))
	seen := make(map[OrderKey]struct{}, len(names))
	for _, n := range names {
		k := OrderKey(strings.ToLower(strings.TrimSpace(n)))
		if k == "" {
			continue
		}
		if k == "feature_type" {
			k = OrderFeatureType
		}
		if _, ok := orderColumns[k]; !ok {
			return nil, fmt.Errorf("unknown sort key %q (want seqid, featuretype, strand or start)", n)
		}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("sort key %q given twice", n)
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

// orderClause renders keys as an ORDER BY list. The id is always the final
// tiebreak so the order is total.
func orderClause(keys []OrderKey) string {
	cols := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		cols = append(cols, orderColumns[k])
	}
	cols = append(cols, "id")
	return strings.Join(cols, ", ")
}
