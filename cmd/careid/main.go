package main

import (
	"context"
	"log/slog"
	"os"

	"careid/config"
	"careid/internal/delivery"
	"careid/internal/delivery/http"
	"careid/internal/delivery/http/middleware"
	"careid/internal/delivery/http/router/handler"
	"careid/internal/delivery/scheduler"
	"careid/internal/domain/service"
	"careid/internal/infra/auth"
	"careid/internal/infra/cache"
	logs "careid/internal/infra/log"
	"careid/internal/infra/notification"
	"careid/internal/infra/persistence/postgres"
	"careid/internal/infra/pubsub"
	"careid/internal/infra/qrcode"
	"careid/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			auth.NewRandomKeyGenerator,
			cache.NewUserCache,
			newQRCodeService,
			newAlertNotifier,
		),
	)
}

// newAlertNotifier creates the Firebase alert notifier with dependency injection
func newAlertNotifier(ctx context.Context, cfg *config.Config) (service.AlertNotifier, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		// Firebase is optional
		return notification.NoopAlertNotifier{}, nil
	}

	return notification.NewFirebaseAlertNotifier(ctx, cfg.Firebase.CredentialsPath)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M", "")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				scheduler.NewScheduler,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
