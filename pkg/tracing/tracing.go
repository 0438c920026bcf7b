package tracing

import (
	"fmt"
	"signal_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jCfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

var (
	// Неверное не самое элегантное решение, но лучше чем выносить константу в отдельный пакет
	// лучше инициализирвоать при инстанцировании через аргументы.
	serviceName = "default"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

type Config struct {
	Enabled bool
	Host    string
	Port    int
}

// InitTracer регистрирует глобальный jaeger-трейсер. При Enabled=false остаётся
// NoopTracer из opentracing, спаны ничего не стоят.
func InitTracer(conf Config) (opentracing.Tracer, func(), error) {
	if !conf.Enabled {
		return opentracing.GlobalTracer(), func() {}, nil
	}

	cfg := &jCfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jCfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jCfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		},
	}

	jMetricsFactory := metrics.NullFactory
	tracer, closer, err := cfg.NewTracer(
		jCfg.Metrics(jMetricsFactory),
	)
	if err != nil {
		return nil, nil, err
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, func() {
		if err := closer.Close(); err != nil {
			logger.Error("Error closing Jaeger tracer: %v", err)
		}
	}, nil
}

// TraceID — id трейса для логов; пусто, если трейсер не jaeger.
func TraceID(span opentracing.Span) string {
	if span == nil {
		return ""
	}
	if sc, ok := span.Context().(jaeger.SpanContext); ok {
		return sc.TraceID().String()
	}
	return ""
}
