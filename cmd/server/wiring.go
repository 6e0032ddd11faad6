package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"

	"residency/internal/admin"
	"residency/internal/admin/adapters"
	citizenstore "residency/internal/citizen/store"
	identitystore "residency/internal/identity/store"
	jwttoken "residency/internal/jwt_token"
	"residency/internal/platform/config"
	"residency/internal/platform/kafka"
	httpmetrics "residency/internal/platform/metrics"
	"residency/internal/platform/postgres"
	"residency/internal/platform/redis"
	httptransport "residency/internal/transport/http"
	"residency/internal/verification/dispatch"
	verificationhandler "residency/internal/verification/handler"
	verificationmetrics "residency/internal/verification/metrics"
	"residency/internal/verification/models"
	"residency/internal/verification/ports"
	"residency/internal/verification/service"
	"residency/internal/zipcode"
	"residency/pkg/platform/audit"
	"residency/pkg/platform/audit/publishers/compliance"
	"residency/pkg/platform/audit/publishers/ops"
	auditmemory "residency/pkg/platform/audit/store/memory"
	auditpostgres "residency/pkg/platform/audit/store/postgres"
	"residency/pkg/platform/circuit"
	txcontext "residency/pkg/platform/tx"
	"residency/pkg/requestcontext"
)

const (
	tokenIssuer    = "residency"
	tokenAudience  = "residency-api"
	kafkaClientID  = "residency-server"
	kafkaPartition = 3
)

// app holds the wired server and the resources it must release.
type app struct {
	Router   http.Handler
	Zipcodes *zipcode.Set

	db       *sql.DB
	redis    *redis.Client
	producer *kgo.Client
}

func (a *app) Close() {
	if a.producer != nil {
		a.producer.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

type storage struct {
	citizens interface {
		ports.CitizenStore
		adapters.CitizenStore
	}
	index ports.DocumentIndex
	audit audit.Store
	tx    txcontext.Runner
}

func build(ctx context.Context, cfg config.Server, log *slog.Logger) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := a.connect(ctx, cfg, log); err != nil {
		return nil, err
	}
	st := a.selectStorage(cfg)

	opsAudit := ops.New(st.audit, ops.WithLogger(log), ops.WithMetrics(ops.NewMetrics(reg)))
	zipcodes, err := loadZipcodes(ctx, cfg, a.db, zipcode.NewMetrics(reg), opsAudit, log)
	if err != nil {
		return nil, err
	}
	a.Zipcodes = zipcodes

	dispatcher, err := a.dispatcher(ctx, cfg, opsAudit, log)
	if err != nil {
		return nil, err
	}

	rules, err := service.ConfigFrom(cfg.Verification.MinimumAge, cfg.Verification.DocumentTypes)
	if err != nil {
		return nil, err
	}
	svc, err := service.New(st.citizens, st.index, zipcodes, rules,
		service.WithLogger(log),
		service.WithMetrics(verificationmetrics.New(reg)),
		service.WithAuditPublisher(compliance.New(st.audit,
			compliance.WithLogger(log),
			compliance.WithMetrics(compliance.NewMetrics(reg)),
		)),
		service.WithDispatcher(dispatcher),
		service.WithTxRunner(st.tx),
	)
	if err != nil {
		return nil, err
	}

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, tokenIssuer, tokenAudience)
	a.Router = httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        httpmetrics.New(reg),
		Gatherer:       reg,
		TokenValidator: jwttoken.NewJWTServiceAdapter(tokens),
		AdminToken:     cfg.AdminToken,
		Citizen:        []httptransport.RouteRegistrar{verificationhandler.New(svc, log)},
		Admin: []httptransport.RouteRegistrar{
			admin.New(adapters.NewCitizenStoreAdapter(st.citizens), st.audit, zipcodes, log),
		},
		Ready: a.ready,
	})

	ok = true
	return a, nil
}

// connect opens the database and Redis connections the backend needs.
func (a *app) connect(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	if cfg.Storage.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return err
		}
		a.db = db
		if cfg.Storage.Migrate {
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			log.Info("database migrations applied")
		}
	}
	if cfg.Storage.Backend == config.BackendRedis {
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		a.redis = client
	}
	return nil
}

// selectStorage picks stores for the configured backend. Citizens and audit
// events live in Postgres whenever a database is configured; the redis
// backend only moves the document index.
func (a *app) selectStorage(cfg config.Server) storage {
	st := storage{
		citizens: citizenstore.NewInMemory(),
		index:    identitystore.NewInMemory(),
		audit:    auditmemory.NewInMemoryStore(),
		tx:       txcontext.NoopRunner{},
	}
	if a.db != nil {
		st.citizens = citizenstore.NewPostgres(a.db)
		st.audit = auditpostgres.New(a.db)
		st.tx = txcontext.NewSQLRunner(a.db)
	}
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		st.index = identitystore.NewPostgres(a.db)
	case config.BackendRedis:
		st.index = identitystore.NewRedis(a.redis.Client)
	}
	return st
}

func (a *app) dispatcher(ctx context.Context, cfg config.Server, opsAudit *ops.Publisher, log *slog.Logger) (ports.Dispatcher, error) {
	logDispatcher := dispatch.NewLogDispatcher(log)
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, kafkaClientID)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return logDispatcher, nil
	}
	a.producer = producer

	if cfg.Kafka.CreateTopics {
		if err := kafka.EnsureTopics(ctx, producer, log, kafkaPartition, cfg.Kafka.MailTopic, cfg.Kafka.VerifiedTopic); err != nil {
			return nil, err
		}
	}
	kafkaDispatcher := dispatch.NewKafkaDispatcher(producer, dispatch.Topics{
		models.EffectSendSecurityCodeByMail: cfg.Kafka.MailTopic,
		models.EffectMarkVerified:           cfg.Kafka.VerifiedTopic,
	})
	return dispatch.NewFailover(kafkaDispatcher, logDispatcher, circuit.New("kafka-dispatch"), log,
		dispatch.WithStateObserver(func(ctx context.Context, breaker string, opened bool) {
			event, decision := audit.EventDispatchCircuitClosed, "closed"
			if opened {
				event, decision = audit.EventDispatchCircuitOpened, "opened"
			}
			opsAudit.Track(ctx, audit.OpsEvent{
				Action:    string(event),
				Decision:  decision,
				Reason:    "breaker=" + breaker,
				RequestID: requestcontext.RequestID(ctx),
			})
		}),
	), nil
}

func (a *app) ready(ctx context.Context) error {
	var errs []error
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func loadZipcodes(ctx context.Context, cfg config.Server, db *sql.DB, m *zipcode.Metrics, opsAudit *ops.Publisher, log *slog.Logger) (*zipcode.Set, error) {
	sources := []zipcode.Source{zipcode.StaticSource(cfg.Zipcodes.Codes)}
	if cfg.Zipcodes.SeedFile != "" {
		sources = append(sources, zipcode.FileSource{Path: cfg.Zipcodes.SeedFile})
	}
	if cfg.Zipcodes.FromDatabase {
		sources = append(sources, zipcode.NewPostgresStore(db))
	}

	set, err := zipcode.Load(ctx, sources...)
	if err != nil {
		return nil, err
	}
	m.Observe(set)
	if set.Len() == 0 {
		log.Warn("zipcode registry is empty; every attempt will be rejected as ineligible")
	}
	opsAudit.Track(ctx, audit.OpsEvent{
		Action:   string(audit.EventZipcodesLoaded),
		Decision: "loaded",
		Reason:   fmt.Sprintf("codes=%d sources=%d", set.Len(), len(sources)),
	})
	return set, nil
}
