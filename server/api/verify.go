package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mynextid/zk-agegate/models"
	"github.com/mynextid/zk-agegate/oracle"
)

// HandleVerify runs the age predicate for the submitted birth year. Every
// failure is answered with 500 "Verification failed" and a code.
func (s *Server) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req models.VerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, models.CodeInvalidRequest, "Failed to decode verification request", err)
		return
	}
	defer r.Body.Close()

	if req.BirthYear == nil {
		s.fail(w, models.CodeInvalidRequest, "Verification request without birth year", errors.New("birthYear is required"))
		return
	}

	result, err := s.runOracle(r.Context(), *req.BirthYear)
	if err != nil {
		code := models.CodeOracleFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = models.CodeOracleTimeout
		}
		s.fail(w, code, "Proof oracle failed", err)
		return
	}

	eligible, err := oracle.Signal(result)
	if err != nil {
		s.fail(w, models.CodeInvalidSignal, "Proof oracle returned an invalid signal", err)
		return
	}
	s.logger.Info("Age verification signal", "signal", result.PublicSignals[0].String())
	s.logger.Debug("Proof timings", "prove_ms", result.Duration.Milliseconds())

	resp := models.VerificationResponse{}
	if !eligible {
		s.metrics.IncrementVerification(OutcomeIneligible)
		respondJSON(w, http.StatusOK, resp)
		return
	}

	resp.IsValid = 1
	if s.attestation != nil {
		token, err := s.attestation.Issue(s.minAge)
		if err != nil {
			// the verification itself succeeded
			s.logger.Error("Failed to issue attestation", "error", err)
		} else {
			resp.Attestation = token
		}
	}
	s.metrics.IncrementVerification(OutcomeEligible)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) runOracle(ctx context.Context, birthYear int) (*oracle.Result, error) {
	ctx, span := s.tracer.Start(ctx, "oracle.verify")
	span.SetAttributes(attribute.Bool("birth_year_present", true))
	defer span.End()

	ctx, cancel := s.oracleContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := s.oracle.Verify(ctx, oracle.Input{BirthYear: birthYear}, s.bundleDir)
	s.metrics.ObserveOracle(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("outcome", OutcomeError))
		return nil, err
	}
	span.SetAttributes(attribute.String("outcome", "ok"))
	return result, nil
}

func (s *Server) fail(w http.ResponseWriter, code, msg string, err error) {
	s.logger.Error(msg, "code", code, "error", err)
	s.metrics.IncrementVerification(OutcomeError)
	respondError(w, http.StatusInternalServerError, code, models.VerificationFailed)
}
