package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mynextid/zk-agegate/attestation"
	"github.com/mynextid/zk-agegate/events"
	"github.com/mynextid/zk-agegate/models"
	"github.com/mynextid/zk-agegate/oracle"
	"github.com/mynextid/zk-agegate/oracle/mocks"
)

const bundleDir = "/srv/agegate/bundle"

func signals(vals ...int64) *oracle.Result {
	out := &oracle.Result{}
	for _, v := range vals {
		out.PublicSignals = append(out.PublicSignals, big.NewInt(v))
	}
	return out
}

type VerifySuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	oracle   *mocks.MockOracle
	registry *prometheus.Registry
	router   http.Handler
}

func (s *VerifySuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.oracle = mocks.NewMockOracle(s.ctrl)
	s.router = s.newRouter(Config{})
}

func (s *VerifySuite) newRouter(cfg Config) http.Handler {
	cfg.Oracle = s.oracle
	cfg.BundleDir = bundleDir
	s.registry = prometheus.NewRegistry()
	cfg.Metrics = NewMetrics(s.registry)
	r := chi.NewRouter()
	NewServer(cfg).Register(r)
	return r
}

func TestVerifySuite(t *testing.T) {
	suite.Run(t, new(VerifySuite))
}

func (s *VerifySuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *VerifySuite) decodeOK(rec *httptest.ResponseRecorder) models.VerificationResponse {
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp models.VerificationResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *VerifySuite) decodeError(rec *httptest.ResponseRecorder) models.ErrorResponse {
	s.Require().Equal(http.StatusInternalServerError, rec.Code, rec.Body.String())
	var resp models.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Verification failed", resp.Error)
	return resp
}

func (s *VerifySuite) counter(outcome string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)
	for _, mf := range families {
		if mf.GetName() != "agegate_verifications_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func (s *VerifySuite) TestEligible() {
	s.oracle.EXPECT().
		Verify(gomock.Any(), oracle.Input{BirthYear: 1990}, bundleDir).
		Return(signals(1, 2026, 18), nil)

	resp := s.decodeOK(s.post(`{"birthYear":1990}`))
	s.Equal(1, resp.IsValid)
	s.Empty(resp.Attestation)
	s.Equal(1.0, s.counter(OutcomeEligible))
}

func (s *VerifySuite) TestIneligible() {
	s.oracle.EXPECT().
		Verify(gomock.Any(), oracle.Input{BirthYear: 2015}, bundleDir).
		Return(signals(0, 2026, 18), nil)

	rec := s.post(`{"birthYear":2015}`)
	resp := s.decodeOK(rec)
	s.Equal(0, resp.IsValid)
	s.JSONEq(`{"isValid":0}`, rec.Body.String())
	s.Equal(1.0, s.counter(OutcomeIneligible))
}

func (s *VerifySuite) TestSameInputSameAnswer() {
	s.oracle.EXPECT().
		Verify(gomock.Any(), oracle.Input{BirthYear: 2000}, bundleDir).
		Return(signals(1, 2026, 18), nil).
		Times(3)

	for i := 0; i < 3; i++ {
		s.Equal(1, s.decodeOK(s.post(`{"birthYear":2000}`)).IsValid)
	}
}

func (s *VerifySuite) TestMalformedBodies() {
	for _, body := range []string{``, `{`, `{}`, `null`, `{"birthYear":"1990"}`, `{"birthYear":1990.5}`} {
		resp := s.decodeError(s.post(body))
		s.Equalf(models.CodeInvalidRequest, resp.Code, "body %q", body)
	}
	s.Equal(6.0, s.counter(OutcomeError))
}

func (s *VerifySuite) TestOracleError() {
	s.oracle.EXPECT().
		Verify(gomock.Any(), gomock.Any(), bundleDir).
		Return(nil, errors.New("bundle missing"))

	resp := s.decodeError(s.post(`{"birthYear":1990}`))
	s.Equal(models.CodeOracleFailed, resp.Code)
}

func (s *VerifySuite) TestOracleTimeout() {
	s.router = s.newRouter(Config{OracleTimeout: 10 * time.Millisecond})
	s.oracle.EXPECT().
		Verify(gomock.Any(), gomock.Any(), bundleDir).
		DoAndReturn(func(ctx context.Context, _ oracle.Input, _ string) (*oracle.Result, error) {
			<-ctx.Done()
			return nil, fmt.Errorf("proving interrupted: %w", ctx.Err())
		})

	resp := s.decodeError(s.post(`{"birthYear":1990}`))
	s.Equal(models.CodeOracleTimeout, resp.Code)
}

func (s *VerifySuite) TestInvalidSignals() {
	for _, res := range []*oracle.Result{signals(2, 2026, 18), signals(-1), signals(), nil} {
		s.oracle.EXPECT().Verify(gomock.Any(), gomock.Any(), bundleDir).Return(res, nil)

		resp := s.decodeError(s.post(`{"birthYear":1990}`))
		s.Equal(models.CodeInvalidSignal, resp.Code)
	}
}

func (s *VerifySuite) TestAttestationOnlyWhenEligible() {
	issuer := attestation.NewIssuer("test-secret", time.Hour)
	s.router = s.newRouter(Config{Attestation: issuer, MinAge: 21})

	s.oracle.EXPECT().
		Verify(gomock.Any(), oracle.Input{BirthYear: 1990}, bundleDir).
		Return(signals(1, 2026, 21), nil)
	resp := s.decodeOK(s.post(`{"birthYear":1990}`))
	s.Require().NotEmpty(resp.Attestation)

	claims, err := issuer.Validate(resp.Attestation)
	s.Require().NoError(err)
	s.Equal(21, claims.MinAge)

	s.oracle.EXPECT().
		Verify(gomock.Any(), oracle.Input{BirthYear: 2015}, bundleDir).
		Return(signals(0, 2026, 21), nil)
	resp = s.decodeOK(s.post(`{"birthYear":2015}`))
	s.Empty(resp.Attestation)
}

type staticInspector struct {
	*mocks.MockOracle
}

func (staticInspector) Info(dir string) oracle.BundleInfo {
	return oracle.BundleInfo{Name: "age", Version: 1, Loaded: true, Constraints: 42}
}

func (s *VerifySuite) TestGetCircuit() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/circuit", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"name":"age","version":1,"loaded":false}`, rec.Body.String())

	r := chi.NewRouter()
	NewServer(Config{Oracle: staticInspector{s.oracle}, BundleDir: bundleDir}).Register(r)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/circuit", nil))
	s.JSONEq(`{"name":"age","version":1,"loaded":true,"constraints":42}`, rec.Body.String())
}

func (s *VerifySuite) TestHealth() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"healthy"`)
}

func (s *VerifySuite) TestEventsRouteDisabledWithoutProvider() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *VerifySuite) TestEventsOpen() {
	s.router = s.newRouter(Config{Events: events.NewStaticProvider()})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp models.EventListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(6, resp.Count)
	s.Len(resp.Events, 6)
}

func (s *VerifySuite) TestEventsRequireAttestation() {
	issuer := attestation.NewIssuer("test-secret", time.Hour)
	s.router = s.newRouter(Config{Events: events.NewStaticProvider(), Attestation: issuer})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)

	token, err := issuer.Issue(18)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
}

type brokenProvider struct{}

func (brokenProvider) List(context.Context) ([]models.Event, error) {
	return nil, errors.New("db down")
}

func (s *VerifySuite) TestEventsProviderError() {
	s.router = s.newRouter(Config{Events: brokenProvider{}})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Contains(rec.Body.String(), "events_unavailable")
}
