// Package watch reports settled changes to source files under a set of
// directory trees.
//
// A [Watcher] registers every directory below its roots with fsnotify,
// including directories created later, and skips subtrees excluded by its
// [tooltip.PathFilter]. Events for matching files are debounced: a path is
// delivered once no new event has arrived for it within the debounce
// window. Settled paths are delivered together to the [Handler] as one
// [Batch].
//
// Handlers run on the watcher goroutine, so no two batches overlap. A
// handler that rewrites the files it is given will see them again in a
// later batch; handlers must therefore be idempotent.
package watch
