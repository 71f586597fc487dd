package gff

import "feature-merge/core/utils"

// Attribute is one name with its values.
type Attribute struct {
	Key    string   `json:"k"`
	Values []string `json:"v"`
}

// Attributes is an ordered mapping from attribute name to values.
type Attributes []Attribute

func (a Attributes) index(key string) int {
	for i := range a {
		if a[i].Key == key {
			return i
		}
	}
	return -1
}

// Get returns the values stored under key, or nil.
func (a Attributes) Get(key string) []string {
	if i := a.index(key); i >= 0 {
		return a[i].Values
	}
	return nil
}

// First returns the first value stored under key, or "".
func (a Attributes) First(key string) string {
	if v := a.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	return a.index(key) >= 0
}

// Set replaces the values of key, appending the key if absent.
func (a *Attributes) Set(key string, values ...string) {
	vals := append([]string(nil), values...)
	if i := a.index(key); i >= 0 {
		(*a)[i].Values = vals
		return
	}
	*a = append(*a, Attribute{Key: key, Values: vals})
}

// Add appends values to key, skipping values already present.
func (a *Attributes) Add(key string, values ...string) {
	i := a.index(key)
	if i < 0 {
		a.Set(key)
		i = len(*a) - 1
	}
	(*a)[i].Values = utils.UnionOrdered((*a)[i].Values, values)
}

// Keys returns the attribute names in order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i := range a {
		keys[i] = a[i].Key
	}
	return keys
}

// Clone returns a deep copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	c := make(Attributes, len(a))
	for i := range a {
		c[i] = Attribute{Key: a[i].Key, Values: append([]string(nil), a[i].Values...)}
	}
	return c
}

// Merge unions other into a. Keys keep their first-seen order and each value
// list gains the values it does not already hold.
func (a *Attributes) Merge(other Attributes) {
	for _, attr := range other {
		a.Add(attr.Key, attr.Values...)
	}
}
