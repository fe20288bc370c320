package bootstrap

import (
	"context"
	"log"
	"time"

	"sms-rental-be/internal/config"
	"sms-rental-be/internal/controller"
	"sms-rental-be/internal/pkg/logger"
	"sms-rental-be/internal/pkg/mailer"
	"sms-rental-be/internal/repository/unitofwork"
	"sms-rental-be/internal/service"
	"sms-rental-be/pkg/keylock"
	pktNats "sms-rental-be/pkg/nats"
	"sms-rental-be/pkg/provider"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const alertTopic = "reconciliation-alerts"

type Container struct {
	// Controllers
	UserController       controller.IUserController
	ActivationController controller.IActivationController
	AdminController      controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ReconcilerService service.IReconcilerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.OpsEmail,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	var locker keylock.Locker
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-process locks", err)
		locker = keylock.NewLocal()
	} else {
		locker = keylock.NewRedis(rdb, 30*time.Second)
	}

	// SMS provider adapter
	providerClient := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey)

	// 3. Services
	publisherService := service.NewPublisherService(alertTopic, pubSub)
	alertService := service.NewAlertService(publisherService, sysLogger)
	reconcilerService := service.NewReconcilerService(
		pubSub,
		alertTopic,
		uowFactory,
		emailService,
		sysLogger,
	)

	userService := service.NewUserService(
		uowFactory,
		natsPub,
		cfg.Billing.DefaultBalance,
		cfg.Billing.LowBalanceThreshold,
	)
	activationService := service.NewActivationService(
		uowFactory,
		userService,
		providerClient,
		alertService,
		natsPub,
		locker,
		sysLogger,
		cfg.Provider.Country,
		cfg.Billing.CancelCooldown,
	)
	adminService := service.NewAdminService(uowFactory, natsPub, sysLogger)

	// 4. Controllers
	return &Container{
		UserController:       controller.NewUserController(userService),
		ActivationController: controller.NewActivationController(activationService),
		AdminController:      controller.NewAdminController(adminService),

		ReconcilerService: reconcilerService,

		Logger: sysLogger,
	}
}
