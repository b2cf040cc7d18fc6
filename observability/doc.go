// Package observability defines the hook through which dbscope and its drivers
// report completed operations.
//
// An Observer receives one OperationContext per finished operation (connect,
// begin, commit, rollback, query, exec, cancel, close, migration steps). The
// hook is optional: every package works with a nil observer, and NoOpObserver
// exists for callers that want a non-nil value.
//
// Several observers can be combined with Multi, for example a Prometheus
// collector next to an in-process Recorder:
//
//	obs := observability.Multi(metricsClient, observability.NewRecorder())
//	mgr := dbscope.New().WithObserver(obs)
package observability
