/*
Package observability turns engine lifecycle events into logs and metrics.

Both plug into the engine through domain.LifecycleHooks; combine them with
LifecycleHooks.Merge.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LoggingHooks(logger))
	engine := inet.New(inet.WithLifecycleHooks(hooks))
*/
package observability
