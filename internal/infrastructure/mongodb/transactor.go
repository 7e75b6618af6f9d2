package mongodb

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartdine/restaurant-service/pkg/errors"
	"github.com/smartdine/restaurant-service/pkg/logging"
	"github.com/smartdine/restaurant-service/pkg/metrics"
	mongoclient "github.com/smartdine/restaurant-service/pkg/mongodb"
	"github.com/smartdine/restaurant-service/pkg/tracing"
)

// Transactor runs a function inside a MongoDB multi-document
// transaction. Transient transaction errors surface as retryable
// concurrency conflicts so callers can re-run the whole operation.
type Transactor struct {
	client  *mongoclient.Client
	tracer  trace.Tracer
	metrics *metrics.Metrics
	logger  *logging.Logger
}

func NewTransactor(client *mongoclient.Client, tracer trace.Tracer, m *metrics.Metrics, logger *logging.Logger) *Transactor {
	if tracer == nil {
		tracer = otel.Tracer("mongodb")
	}
	return &Transactor{client: client, tracer: tracer, metrics: m, logger: logger}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := tracing.TracedVoidOperation(ctx, t.tracer, "mongodb.transaction", func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(
			tracing.DatabaseSpanAttributes("mongodb", t.client.Database().Name(), "transaction", "multi")...,
		)
		return t.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			return fn(sessCtx)
		})
	})
	t.observe(ctx, time.Since(start), err == nil)

	if err == nil {
		return nil
	}
	if isTransient(err) {
		return errors.ErrConcurrencyConflict("transaction").Wrap(err)
	}
	return err
}

func (t *Transactor) observe(ctx context.Context, duration time.Duration, success bool) {
	if t.metrics != nil {
		t.metrics.RecordMongoDBOperation("multi", "transaction", success, duration)
	}
	if t.logger != nil {
		t.logger.DatabaseQuery(ctx, "multi", "transaction", duration, success)
	}
}

func isTransient(err error) bool {
	if mongo.IsTimeout(err) {
		return true
	}
	var cmdErr mongo.CommandError
	if stderrors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
