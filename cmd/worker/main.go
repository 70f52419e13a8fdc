// Воркер обработки расписаний. Забирает выгруженные краулером страницы
// журнала из очереди Redis, прогоняет их через конвейер нормализации,
// сливает результат с базой и публикует события об изменениях.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/joho/godotenv"

	"github.com/eklase-hub/schedule-hub/config"
	"github.com/eklase-hub/schedule-hub/internal/application/command"
	"github.com/eklase-hub/schedule-hub/internal/changes"
	"github.com/eklase-hub/schedule-hub/internal/domain/shared"
	"github.com/eklase-hub/schedule-hub/internal/infrastructure/messaging"
	"github.com/eklase-hub/schedule-hub/internal/infrastructure/persistence/postgres"
	"github.com/eklase-hub/schedule-hub/internal/infrastructure/persistence/redis"
	"github.com/eklase-hub/schedule-hub/pkg/logger"
)

// pagesQueueKey очередь заданий от краулера.
const pagesQueueKey = "crawl:pages:queue"

// crawlJob задание краулера: страницы журнала одного ученика,
// по одной на неделю.
type crawlJob struct {
	Nickname string   `json:"nickname"`
	Pages    []string `json:"pages"`
}

func main() {
	// Переменные окружения из .env, если файл существует.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.App.LogLevel))
	log.Info("starting schedule worker", logger.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ──
	pgCfg := postgres.DefaultConfig()
	pgCfg.Host = cfg.Postgres.Host
	pgCfg.Port = cfg.Postgres.Port
	pgCfg.User = cfg.Postgres.User
	pgCfg.Password = cfg.Postgres.Password
	pgCfg.Database = cfg.Postgres.Database
	pgCfg.SSLMode = cfg.Postgres.SSLMode
	pgCfg.MaxConns = int32(cfg.Postgres.MaxConns)

	conn, err := postgres.NewConnection(ctx, pgCfg)
	if err != nil {
		log.Fatal("failed to connect to postgres", logger.Err(err))
	}
	defer conn.Close()

	migrator := postgres.NewMigrator(conn, log)
	if err := migrator.Migrate(ctx); err != nil {
		log.Fatal("failed to run migrations", logger.Err(err))
	}

	// ── Redis ──
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB

	kv, err := redis.NewKVStore(ctx, redisCfg)
	if err != nil {
		log.Fatal("failed to connect to redis", logger.Err(err))
	}
	defer kv.Close()

	// ── Шина событий ──
	// Локальная шина с пулом воркеров; каждое событие дополнительно
	// публикуется в Redis pub/sub для процесса бота.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	bus := messaging.NewInMemoryEventBus(cfg.Worker.EventQueueSize, cfg.Worker.EventWorkers, slogger)
	defer bus.Close()

	publisher := messaging.NewRedisPublisher(kv.Client(), slogger)
	forwardToRedis := func(ctx context.Context, event shared.Event) error {
		return publisher.Publish(ctx, event)
	}
	for _, eventType := range []shared.EventType{
		shared.EventScheduleCreated,
		shared.EventNewMark,
		shared.EventNewAnnouncement,
		shared.EventLessonsOrderChanged,
		shared.EventSubjectChanged,
		shared.EventCrawlError,
	} {
		bus.Subscribe(eventType, forwardToRedis)
	}

	// ── Доменные сервисы ──
	detector := changes.NewDetector(changes.Config{
		ElectiveMarkers: cfg.Changes.ElectiveMarkers,
	}, log)
	repo := postgres.NewScheduleRepository(conn, detector, log)
	dispatcher := messaging.NewReportDispatcher(bus, slogger)

	translations, err := config.LoadTranslations(cfg.Portal.TranslationsFile)
	if err != nil {
		log.Fatal("failed to load translations", logger.Err(err))
	}

	processor := command.NewProcessScheduleHandler(repo, dispatcher, kv, command.ProcessScheduleConfig{
		BaseURL:      cfg.Portal.BaseURL,
		Translations: translations,
	}, log)
	weekSets := command.NewProcessWeekSetHandler(processor, log)

	// ── Потребители очереди ──
	var wg sync.WaitGroup
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumeJobs(ctx, kv.Client(), weekSets, cfg, log)
		}()
	}

	log.Info("worker started",
		logger.Int("consumers", cfg.Worker.Concurrency),
		logger.String("queue", pagesQueueKey),
	)

	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
}

// consumeJobs блокирующе читает задания из очереди до отмены контекста.
func consumeJobs(ctx context.Context, client *goredis.Client, handler *command.ProcessWeekSetHandler, cfg *config.Config, log *logger.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}

		values, err := client.BLPop(ctx, 5*time.Second, pagesQueueKey).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error("failed to pop crawl job", logger.Err(err))
			time.Sleep(time.Second)
			continue
		}
		if len(values) < 2 {
			continue
		}

		var job crawlJob
		if err := json.Unmarshal([]byte(values[1]), &job); err != nil {
			log.Error("malformed crawl job", logger.Err(err))
			continue
		}

		// При непустом списке учеников чужие задания отбрасываются.
		if len(cfg.Students) > 0 {
			if _, ok := cfg.StudentByNickname(job.Nickname); !ok {
				log.Warn("crawl job for unknown student dropped",
					logger.Nickname(job.Nickname),
				)
				continue
			}
		}

		if _, err := handler.Handle(ctx, command.ProcessWeekSetCommand{
			Nickname: job.Nickname,
			Pages:    job.Pages,
		}); err != nil {
			log.Error("failed to process crawl job",
				logger.Nickname(job.Nickname),
				logger.Err(err),
			)
		}
	}
}
