package wire

import (
	"PastPort/internal/api"
	"PastPort/internal/api/config"
	"PastPort/internal/api/handler"
	"PastPort/internal/job"
	"PastPort/internal/pkg/authz"
	"PastPort/internal/pkg/cron"
	"PastPort/internal/pkg/es"
	"PastPort/internal/pkg/kafka"
	"PastPort/internal/pkg/mail"
	mng "PastPort/internal/pkg/mongo"
	"PastPort/internal/repository"
	"PastPort/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronManager  *cron.Manager
	KafkaManager *kafka.ConsumerManager
	MailProducer *kafka.MailProducer
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	prefRepo := repository.NewUserPreferenceRepo(db)

	capsuleRepo := mng.NewCapsuleRepo(mongoDB)
	journalRepo := mng.NewJournalRepo(mongoDB)
	notificationRepo := mng.NewNotificationRepo(mongoDB)
	esCapsuleRepo := es.NewCapsuleRepo()

	mailClient := mail.NewClient(cfg.Mail)

	var producer *kafka.MailProducer
	var publisher service.MailPublisher
	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		producer, err = kafka.NewMailProducer(cfg)
		if err != nil {
			return nil, err
		}
		publisher = producer

		kafkaMgr, err = kafka.NewConsumerManager(cfg, mailClient)
		if err != nil {
			return nil, err
		}
	}

	notificationService := service.NewNotificationService(notificationRepo, userRepo, prefRepo, publisher, mailClient)
	userService := service.NewUserService(userRepo, prefRepo)
	capsuleService := service.NewCapsuleService(capsuleRepo, esCapsuleRepo, notificationService)
	journalService := service.NewJournalService(journalRepo, notificationService)
	discoverService := service.NewDiscoverService(capsuleRepo, esCapsuleRepo)

	registry := authz.NewRegistry()
	registry.Register(authz.KindCapsule, capsuleService.OwnerOf)
	registry.Register(authz.KindJournal, journalService.OwnerOf)
	registry.Register(authz.KindNotification, notificationService.OwnerOf)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		CapsuleHandler:      handler.NewCapsuleHandler(capsuleService),
		JournalHandler:      handler.NewJournalHandler(journalService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		DiscoverHandler:     handler.NewDiscoverHandler(discoverService),
		MediaHandler:        handler.NewMediaHandler(),
	}

	router := api.SetupRouter(handlers, registry)

	locker := job.NewRedisLocker()
	cronMgr := cron.NewCronManager(
		job.NewUnlockScanJob(capsuleRepo, journalRepo, esCapsuleRepo, notificationService, locker),
		job.NewReminderJob(capsuleRepo, journalRepo, notificationService, locker),
		job.NewNotificationCleanJob(notificationRepo, locker),
		job.NewMediaCleanJob(locker),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronManager:  cronMgr,
		KafkaManager: kafkaMgr,
		MailProducer: producer,
	}, nil
}
