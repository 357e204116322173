package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"stipendia/internal/storage"
	"stipendia/internal/workflow"
	"stipendia/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	cases       *workflow.CaseService
	assignments *workflow.AssignmentService
	fees        *workflow.FeeService
	proofs      *workflow.ProofService
	dispatcher  *workflow.Dispatcher

	evidence      *storage.EvidenceStore
	cognitoClient *cognitoidentityprovider.Client
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	registry *prometheus.Registry

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient *cognitoidentityprovider.Client,
	cases *workflow.CaseService,
	assignments *workflow.AssignmentService,
	fees *workflow.FeeService,
	proofs *workflow.ProofService,
	dispatcher *workflow.Dispatcher,
	evidence *storage.EvidenceStore,
	jwkCache *jwk.Cache,
	jwksURL string,
	registry *prometheus.Registry,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		cases:       cases,
		assignments: assignments,
		fees:        fees,
		proofs:      proofs,
		dispatcher:  dispatcher,
		evidence:    evidence,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		registry:  registry,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}), http.MethodGet)

	r.HandleFunc("/api/login", s.handlePostLogin, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/cases", s.handleSubmitCase, http.MethodPost)
		r.HandleFunc("/api/cases", s.handleListCases, http.MethodGet)
		r.HandleFunc("/api/cases/:caseID", s.handleGetCase, http.MethodGet)
		r.HandleFunc("/api/cases/:caseID/review", s.handleReviewCase, http.MethodPost)

		r.HandleFunc("/api/assignments", s.handleAssign, http.MethodPost)
		r.HandleFunc("/api/sponsors/:sponsorID/assignments", s.handleListAssigned, http.MethodGet)

		r.HandleFunc("/api/fees", s.handleAddFee, http.MethodPost)
		r.HandleFunc("/api/fees", s.handleListFees, http.MethodGet)
		r.HandleFunc("/api/fees/:feeID", s.handleUpdateFee, http.MethodPatch)

		r.HandleFunc("/api/proofs", s.handleSubmitProof, http.MethodPost)
		r.HandleFunc("/api/proofs", s.handleListPendingProofs, http.MethodGet)
		r.HandleFunc("/api/proofs/:proofID/approve", s.handleApproveProof, http.MethodPost)
		r.HandleFunc("/api/proofs/:proofID/reject", s.handleRejectProof, http.MethodPost)

		r.HandleFunc("/api/notifications", s.handleListUnread, http.MethodGet)
		r.HandleFunc("/api/notifications/:notificationID/viewed", s.handleMarkViewed, http.MethodPost)

		r.HandleFunc("/api/evidence", s.handleUploadEvidence, http.MethodPost)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) actorFromContext(ctx context.Context) (types.Actor, error) {
	actor, ok := ctx.Value(contextKeyActor).(types.Actor)
	if !ok {
		return types.Actor{}, fmt.Errorf("actor not found in context")
	}
	return actor, nil
}
