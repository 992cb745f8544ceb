// Package hierarchy manages a gate DAG: explicit parent/children maps over
// gate ids, not owning pointers (§4.G). Cycles are rejected at mutation
// time by a descendant scan; TopologicalSort is the second, independent
// cycle check, which callers run directly.
//
// Mutations are not thread-safe across goroutines the way core.Graph's are
// (§5 Concurrency: "Hierarchy mutations are not thread-safe; callers must
// serialize them"), so this package takes no internal lock; callers own
// synchronization.
package hierarchy
