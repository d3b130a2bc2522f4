// Package chanconsole instruments bounded, unbounded, and oneshot Go
// channels with transparent statistics-collecting wrappers: the returned
// sender/receiver pair exposes the same Send/Recv/Clone/Close operations
// and blocking behavior as the underlying channel, while the library
// tracks sent/received counts, queue depth, byte volume, and lifecycle
// state for every instrumented channel in the process.
//
// Statistics are served as JSON over a loopback HTTP endpoint
// (http://127.0.0.1:6770/metrics by default, overridable with the
// CHANCONSOLE_METRICS_PORT environment variable), printed as a summary
// table when a ChannelsGuard is released, and explorable live with the
// "chanconsole console" terminal UI.
package chanconsole
