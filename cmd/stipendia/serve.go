package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stipendia/internal/db"
	"stipendia/internal/metrics"
	"stipendia/internal/server"
	"stipendia/internal/storage"
	"stipendia/internal/store"
	"stipendia/internal/workflow"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)
	s3Client := s3.NewFromConfig(awsConfig)

	var (
		caseStore         workflow.CaseStore
		sponsorStore      workflow.SponsorStore
		feeStore          workflow.FeeStore
		proofStore        workflow.ProofStore
		notificationStore workflow.NotificationStore
	)

	if config.InMemory {
		logger.Warn("running with in-memory stores, data will not survive a restart")
		feeMem := store.NewMemoryFeeStore()
		caseStore = store.NewMemoryCaseStore()
		sponsorStore = store.NewMemorySponsorStore()
		feeStore = feeMem
		proofStore = store.NewMemoryProofStore(feeMem)
		notificationStore = store.NewMemoryNotificationStore()
	} else {
		pool, err := db.Connect(ctx, config)
		if err != nil {
			return err
		}
		defer pool.Close()

		caseStore = store.NewCaseRepository(pool)
		sponsorStore = store.NewSponsorRepository(pool)
		feeStore = store.NewFeeRepository(pool)
		proofStore = store.NewProofRepository(pool)
		notificationStore = store.NewNotificationRepository(pool)
	}

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initilaize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwk with cache: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	dispatcher := workflow.NewDispatcher(logger, notificationStore, m)
	cases := workflow.NewCaseService(logger, caseStore, dispatcher, m)
	assignments := workflow.NewAssignmentService(logger, sponsorStore, caseStore, feeStore, dispatcher, m)
	fees := workflow.NewFeeService(logger, feeStore, dispatcher, m)
	proofs := workflow.NewProofService(logger, proofStore, feeStore, sponsorStore, dispatcher, m)

	evidence := storage.NewEvidenceStore(s3Client, config.EvidenceBucket, config.EvidenceMaxSize)

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		cases,
		assignments,
		fees,
		proofs,
		dispatcher,
		evidence,
		jwkCache,
		jwksURL,
		registry,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
