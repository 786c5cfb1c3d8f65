/*
Package observability turns simulation lifecycle events into signals for the outside world.

It provides Prometheus collectors fed by lifecycle hooks and a structured-logging hook set.
Both are plain domain.LifecycleHooks values, so they can be merged with each other and
with any caller-provided hooks before being handed to the engine.
*/
package observability
