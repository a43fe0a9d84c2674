package components

import (
	"log/slog"

	"rentspace/internal/infra/notifier"
	"rentspace/internal/infra/payment"
	"rentspace/internal/pkg/config"
	"rentspace/internal/usecase/commands"

	"go.uber.org/fx"
)

// GatewayModule wires the out-of-process dependencies: the payment processor
// client and the notification sink.
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewPaymentClient,
			fx.As(new(commands.PaymentProcessor)),
		),
		NewNotifierSink,
		fx.Annotate(
			notifier.NewDispatcher,
			fx.As(new(commands.EventDispatcher)),
		),
	),
)

func NewPaymentClient(cfg config.Config) *payment.Client {
	return payment.NewClient(cfg.Payment)
}

// NewNotifierSink picks Kafka when a broker is configured and falls back to
// the log sink otherwise, so local runs need no broker.
func NewNotifierSink(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (notifier.Sink, error) {
	if !cfg.Kafka.Enabled {
		return notifier.NewLogSink(logger), nil
	}

	sink, cleanup, err := notifier.NewKafkaSink(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(cleanup))
	return sink, nil
}
