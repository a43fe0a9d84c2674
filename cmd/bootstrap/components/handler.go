package components

import (
	"rentspace/internal/handler"
	"rentspace/internal/handler/api"
	"rentspace/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAvailabilityHandler,
		api.NewCalendarHandler,
		api.NewSettlementHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
