package router

import (
	"airtalk-service/internal/usecase"
	"airtalk-service/pkg/logger"
)

// MetricRouter routes score requests to the handler that computes the
// requested metric.
type MetricRouter struct {
	handlers []usecase.MetricHandler
	logger   logger.Logger
}

// NewMetricRouter creates a new metric router
func NewMetricRouter(logger logger.Logger) *MetricRouter {
	return &MetricRouter{
		handlers: make([]usecase.MetricHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler for a metric
func (r *MetricRouter) Register(handler usecase.MetricHandler) {
	r.handlers = append(r.handlers, handler)
}

// GetHandler returns the handler for a metric, or nil if the metric is
// unknown. Callers must treat nil as a fatal configuration error before any
// corpus data is read.
func (r *MetricRouter) GetHandler(metric string) usecase.MetricHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(metric) {
			return handler
		}
	}
	return nil
}
