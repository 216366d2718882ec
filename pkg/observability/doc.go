/*
Package observability exposes request lifecycle metrics.

Metrics turns lifecycle hooks into Prometheus counters and histograms;
NewHandler serves them next to a health probe on a chi router.
*/
package observability
