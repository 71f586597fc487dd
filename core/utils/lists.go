package utils

import (
	"strings"
)

// SplitList splits a comma-joined field into its members.
// An empty string yields an empty slice.
func SplitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// ContainsListMember reports whether the comma-joined list contains member.
func ContainsListMember(list, member string) bool {
	for _, m := range SplitList(list) {
		if m == member {
			return true
		}
	}
	return false
}

// AppendListMember appends member to the comma-joined list unless already present.
func AppendListMember(list, member string) string {
	if list == "" {
		return member
	}
	if ContainsListMember(list, member) {
		return list
	}
	return list + "," + member
}

// Unique returns the distinct values in first-seen order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// JoinUnique joins the distinct values in first-seen order with sep.
func JoinUnique(values []string, sep string) string {
	return strings.Join(Unique(values), sep)
}

// UnionOrdered appends to base every value of extra not already in base.
// The result is a new slice; neither input is modified.
func UnionOrdered(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	seen := make(map[string]struct{}, len(out))
	for _, v := range out {
		seen[v] = struct{}{}
	}
	for _, v := range extra {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
