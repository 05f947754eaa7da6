package framework

import (
	"runtime"
	"sort"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Metadata keys written by the builder functions. They are ordinary entries;
// the engine itself never reads them, but reporters may.
const (
	MetaSourceFile = "sourceFile"
	MetaSourceLine = "sourceLine"
)

// Metadata is an opaque key/value bag attached to every node and carried
// through unchanged to the matching result. The engine never inspects it; it
// exists for the benefit of reporters and tooling. The zero value is an empty
// bag. Values are immutable ldvalue.Value instances and the bag itself is
// copy-on-write, so sharing a Metadata between nodes is safe.
type Metadata struct {
	values map[string]ldvalue.Value
}

// With returns a copy of the bag with one entry added or replaced.
func (m Metadata) With(key string, value ldvalue.Value) Metadata {
	values := make(map[string]ldvalue.Value, len(m.values)+1)
	for k, v := range m.values {
		values[k] = v
	}
	values[key] = value
	return Metadata{values: values}
}

// Get returns the value for a key, or ldvalue.Null() if the key is absent.
func (m Metadata) Get(key string) ldvalue.Value {
	if v, ok := m.values[key]; ok {
		return v
	}
	return ldvalue.Null()
}

// Has reports whether the key is present, distinguishing an absent key from a
// stored null.
func (m Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the bag's keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// callerMetadata records the source location of the declaration site so that
// reporters can point at the file and line a test was declared on. skip is
// interpreted as by runtime.Caller.
func callerMetadata(skip int) Metadata {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Metadata{}
	}
	return Metadata{}.
		With(MetaSourceFile, ldvalue.String(file)).
		With(MetaSourceLine, ldvalue.Int(line))
}
