// Package query is an in-memory filter and sort layer over record collections.
//
// Records are opaque to the engine. Every field access goes through an
// [Accessor]: a typed [Schema] for Go structs, or [MapAccessor] for
// schema-free map[string]any records decoded from JSON.
//
// A query is a list of [Predicate] values (AND-composed) plus a [Sort]:
//
//	eng := query.New(todoSchema)
//	open, err := eng.Query(todos, []query.Predicate{
//	    {Field: "completed", Kind: query.KindBoolEquals, Value: false},
//	    {Field: "category", Kind: query.KindEquals, Value: "all"}, // disabled
//	}, query.Sort{Field: "priority", Order: query.Asc})
//
// The engine never mutates its input and keeps no state between calls. An
// [Engine] is safe for concurrent use once constructed.
//
// Missing or malformed record fields never fail a query; they evaluate as the
// zero value of the type the predicate or comparator expects (empty string,
// false, 0, the Unix epoch, an empty list). Only malformed predicates surface
// as errors, see [ErrInvalidFilterSpec].
package query
