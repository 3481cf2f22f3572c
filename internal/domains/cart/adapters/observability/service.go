package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/storely/cart-service/internal/domains/cart/application"
	"github.com/storely/cart-service/internal/domains/cart/domain"
	"github.com/storely/cart-service/internal/domains/cart/ports"
)

const tracerName = "github.com/storely/cart-service/internal/domains/cart/adapters/observability/service"

// Service decorates the cart application port with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core cart service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Cart returns the current snapshot with instrumentation.
func (s *Service) Cart(ctx context.Context) []domain.Product {
	ctx, span := s.startSpan(ctx, "Service.Cart")
	defer span.End()

	items := s.inner.Cart(ctx)
	span.SetAttributes(attribute.Int("cart.size", len(items)))
	return items
}

// AddProduct adds one unit of the product with instrumentation.
func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	ctx, span := s.startSpan(ctx, "Service.AddProduct", attribute.Int64("product.id", productID))
	defer span.End()

	s.logInfo(ctx, "adding product", slog.Int64("product.id", productID))
	if err := s.inner.AddProduct(ctx, productID); err != nil {
		s.recordRejection(ctx, err)
		return s.handleError(ctx, span, err, "failed to add product", slog.Int64("product.id", productID))
	}
	s.metrics.recordAdded(ctx)
	s.logInfo(ctx, "product added", slog.Int64("product.id", productID))
	return nil
}

// RemoveProduct drops the line item with instrumentation.
func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	ctx, span := s.startSpan(ctx, "Service.RemoveProduct", attribute.Int64("product.id", productID))
	defer span.End()

	s.logInfo(ctx, "removing product", slog.Int64("product.id", productID))
	if err := s.inner.RemoveProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, err, "failed to remove product", slog.Int64("product.id", productID))
	}
	s.metrics.recordRemoved(ctx)
	s.logInfo(ctx, "product removed", slog.Int64("product.id", productID))
	return nil
}

// UpdateProductAmount sets the line item quantity with instrumentation.
func (s *Service) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	ctx, span := s.startSpan(ctx, "Service.UpdateProductAmount",
		attribute.Int64("product.id", productID),
		attribute.Int("product.amount.requested", amount),
	)
	defer span.End()

	s.logInfo(ctx, "updating product amount", slog.Int64("product.id", productID), slog.Int("amount", amount))
	if err := s.inner.UpdateProductAmount(ctx, productID, amount); err != nil {
		s.recordRejection(ctx, err)
		return s.handleError(ctx, span, err, "failed to update product amount", slog.Int64("product.id", productID))
	}
	s.metrics.recordAmountChanged(ctx)
	s.logInfo(ctx, "product amount updated", slog.Int64("product.id", productID), slog.Int("amount", amount))
	return nil
}

func (s *Service) recordRejection(ctx context.Context, err error) {
	if errors.Is(err, application.ErrOutOfStock) {
		s.metrics.recordOutOfStock(ctx)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	productsAdded   metric.Int64Counter
	productsRemoved metric.Int64Counter
	amountsChanged  metric.Int64Counter
	outOfStock      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsAdded, _ := m.Int64Counter("cart.service.products_added", metric.WithDescription("Number of products added to the cart"))
	productsRemoved, _ := m.Int64Counter("cart.service.products_removed", metric.WithDescription("Number of products removed from the cart"))
	amountsChanged, _ := m.Int64Counter("cart.service.amounts_changed", metric.WithDescription("Number of quantity updates"))
	outOfStock, _ := m.Int64Counter("cart.service.out_of_stock_rejections", metric.WithDescription("Number of mutations rejected for insufficient stock"))
	return serviceMetrics{
		productsAdded:   productsAdded,
		productsRemoved: productsRemoved,
		amountsChanged:  amountsChanged,
		outOfStock:      outOfStock,
	}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	addCounter(ctx, m.productsAdded, 1)
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	addCounter(ctx, m.productsRemoved, 1)
}

func (m serviceMetrics) recordAmountChanged(ctx context.Context) {
	addCounter(ctx, m.amountsChanged, 1)
}

func (m serviceMetrics) recordOutOfStock(ctx context.Context) {
	addCounter(ctx, m.outOfStock, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
