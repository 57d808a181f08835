package main

import (
	"context"
	"fmt"
	"time"

	"spheretrace/render"

	"contrib.go.opencensus.io/exporter/stackdriver"
	cloudmetrics "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	cloudtrace "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"github.com/golang/glog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// setupMonitoring exports render traces to Cloud Trace and render metrics to
// Cloud Monitoring.  The returned func flushes and stops the exporters.
func setupMonitoring(ctx context.Context, project string, traceRatio float64) (func(), error) {
	metricsOpts := []cloudmetrics.Option{}
	traceOpts := []cloudtrace.Option{}
	if project != "" {
		metricsOpts = append(metricsOpts, cloudmetrics.WithProjectID(project))
		traceOpts = append(traceOpts, cloudtrace.WithProjectID(project))
	}

	_, traceShutdown, err := cloudtrace.InstallNewPipeline(traceOpts, sdktrace.WithSampler(sdktrace.TraceIDRatioBased(traceRatio)))
	if err != nil {
		return nil, fmt.Errorf("while installing Cloud Trace OpenTelemetry trace pipeline: %w", err)
	}

	pusher, err := cloudmetrics.InstallNewPipeline(metricsOpts)
	if err != nil {
		traceShutdown()
		return nil, fmt.Errorf("while installing Cloud Metrics OpenTelemetry meter pipeline: %w", err)
	}

	if err := render.RegisterViews(); err != nil {
		pusher.Stop(ctx)
		traceShutdown()
		return nil, fmt.Errorf("while registering render metric views: %w", err)
	}

	exporter, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:         project,
		MetricPrefix:      "spheretrace",
		ReportingInterval: 60 * time.Second,
	})
	if err != nil {
		pusher.Stop(ctx)
		traceShutdown()
		return nil, fmt.Errorf("while initializing Stackdriver metrics exporter: %w", err)
	}
	if err := exporter.StartMetricsExporter(); err != nil {
		pusher.Stop(ctx)
		traceShutdown()
		return nil, fmt.Errorf("while starting Stackdriver metrics exporter: %w", err)
	}

	glog.Infof("Monitoring enabled (project %q, trace ratio %v)", project, traceRatio)

	return func() {
		exporter.Flush()
		exporter.StopMetricsExporter()
		if err := pusher.Stop(context.Background()); err != nil {
			glog.Errorf("Error stopping metrics pusher: %v", err)
		}
		traceShutdown()
	}, nil
}
