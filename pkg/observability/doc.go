/*
Package observability turns engine lifecycle events into Prometheus metrics and structured log lines.

Both are plain domain.LifecycleHooks values and can be combined with LifecycleHooks.Merge:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	eng := expertsystem.New(expertsystem.WithLifecycleHooks(hooks))
*/
package observability
