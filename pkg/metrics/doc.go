/*
Package metrics defines and registers the Prometheus metrics for the
combinatorial map engine: dart/cell counts, sew and unsew throughput,
STM transaction retries, attribute operations, and operation latency.
All metrics are registered against the default Prometheus registry at
package init and exposed for scraping via Handler.

# Metrics

Gauges track instance state:

  - honeycomb_darts_total{instance,state}: dart-space size, split by
    "used" and "unused".
  - honeycomb_cells_total{instance,kind}: i-cell counts by kind
    (vertex, edge, face, volume).

Counters track cumulative operation outcomes:

  - honeycomb_sews_total{instance,dimension}
  - honeycomb_unsews_total{instance,dimension}
  - honeycomb_sew_failures_total{instance,dimension,reason}
  - honeycomb_transaction_retries_total{instance}: STM transactions
    that restarted on a validation conflict.
  - honeycomb_attribute_ops_total{instance,op}: merge/split calls
    against bound attribute storage.

Histograms track latency:

  - honeycomb_sew_duration_seconds{instance,dimension,op}
  - honeycomb_build_duration_seconds{instance,kind}: grid builder
    runs, bucketed for sub-millisecond to multi-second generation
    times rather than Prometheus's HTTP-request-shaped defaults.

# Usage

	metrics.SewsTotal.WithLabelValues("map-1", "2").Inc()

	timer := metrics.NewTimer()
	err := m.TwoSew(d1, d2)
	timer.ObserveDurationVec(metrics.SewDuration, "map-1", "2", "sew")

Handler exposes the registry for scraping:

	http.Handle("/metrics", metrics.Handler())

# Design notes

Metrics are package-level vars registered once in init, so callers
never need to construct or register anything themselves; this mirrors
the rest of the module's "no setup required beyond Init/Open" style.
Labels are kept low-cardinality (instance name, dimension, op, state)
deliberately: a dart or cell ID would make every series unique and
defeat aggregation.
*/
package metrics
