// Package containers provides the specialized container types backing the
// engine's per-frame bookkeeping: registries of live objects, cached decoded
// resources, and layered configuration lookup.
//
// # Ordered sets
//
// OrderedSet is a mutable set that remembers insertion order, so every entry
// has a stable index. It carries full set algebra (Union, Intersection,
// Difference, SymmetricDifference) whose results preserve left-operand order,
// while comparisons (Equal, IsSubsetOf, ...) follow pure set semantics.
// OrderedWeakSet keeps the same ordering contract over weakly-held elements
// and prunes reclaimed entries lazily without disturbing survivors.
//
// # Sorted mappings
//
// SortedDict maintains comparator-defined ascending key order across every
// mutation, placing new keys by binary search. Its Keys, Values and Items
// views are live and reversible:
//
//	d := containers.NewSortedDict[int, string]()
//	d.Set(5, "e")
//	d.Set(1, "a")
//	for k := range d.Keys().All() { ... }      // 1, 5
//	for k := range d.Keys().Backward() { ... } // 5, 1
//
// # Layered views
//
// ChainMapProxy composes mappings owned elsewhere into one read-only view
// where earlier layers shadow later ones. Layers are aliased, not copied:
// a scope mutating its own map is immediately visible through every proxy
// referencing it, which is what makes layered theme and configuration
// override resolution work. Anything satisfying MapLike can be a layer.
//
// # Weak default dictionaries
//
// WeakKeyDefaultDictionary and WeakValueDefaultDictionary combine a mapping
// whose key (or value) side never keeps its referent alive with a lazy
// default factory invoked once per missing key. Reclaimed entries vanish
// silently, so cache-miss-and-recreate code paths need no error handling.
//
// # Concurrency
//
// All containers assume a single owner on a single goroutine, matching the
// engine's synchronous update/draw loop; none of them locks internally.
// Strong references obtained from a weak container are valid snapshots only
// within the scope where they are used.
package containers
