// Package tracer sets up OpenTelemetry tracing for dbscope applications.
//
// NewClient builds an SDK TracerProvider with service resource attributes,
// optionally exporting spans over OTLP HTTP, and installs it together with
// the W3C trace context propagator as the OpenTelemetry globals. dbscope
// starts its spans from the global provider unless a Manager is given one
// explicitly:
//
//	tc, err := tracer.NewClient(tracer.Config{ServiceName: "orders", EnableExport: true})
//	if err != nil {
//	    return err
//	}
//	defer tc.Shutdown(ctx)
//
//	manager := dbscope.New().WithTracerProvider(tc.Provider())
//
// The exporter honors the standard OTEL_EXPORTER_OTLP_* environment variables;
// Config.Endpoint and Config.Insecure override them.
//
// Application code can open its own spans around scope operations with
// StartSpan, and carry trace context across process boundaries with
// GetCarrier and SetCarrierOnContext.
package tracer
