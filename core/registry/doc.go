// Package registry provides the insertion-ordered registry shared by the
// dispatch packages.
//
// A naive map-based participant directory yields implementation-defined
// iteration order, which makes broadcast order nondeterministic and
// untestable. Ordered pairs a map index with an entry slice so lookup stays
// O(1) while iteration order is exactly insertion order.
//
// The registry is deliberately unsynchronized: its owners (subscription.List,
// channel.Channel) guard mutation and snapshot-taking with their own lock,
// and dispatch loops run on snapshots.
package registry
