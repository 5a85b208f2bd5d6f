/*
Package observability provides tools for monitoring beetflow engines.

Both tools are delivered as domain.LifecycleHooks, so they compose with
each other and with user hooks through domain.MergeHooks:

  - Recorder groups run, end and interrupt events into traces, one per
    run chain, and can persist finished traces to a ports.TraceStore.
  - Metrics exposes Prometheus counters and a gauge of running actions.
*/
package observability
