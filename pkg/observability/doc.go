/*
Package observability provides tools for monitoring the arbor editor.

It exposes Prometheus counters fed by lifecycle hooks: structural edits by kind,
dispatched events by type and rejected events by error kind.
*/
package observability
