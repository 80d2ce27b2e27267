package crawler

import (
	"fmt"
	"time"

	"alpenlodge/internal/logger"
)

// EndpointManager holds the ordered Overpass endpoints and records every attempt
// made against them during one run.
type EndpointManager struct {
	attemptLog map[string][]AttemptResult
	endpoints  []string
}

// AttemptResult records the result of one fetch attempt.
type AttemptResult struct {
	Timestamp  time.Time
	Endpoint   string
	Error      string
	Attempt    int
	Duration   time.Duration
	StatusCode int
	Success    bool
}

// NewEndpointManager creates a manager over endpoints, tried in the given order.
func NewEndpointManager(endpoints []string) *EndpointManager {
	return &EndpointManager{
		endpoints:  append([]string(nil), endpoints...),
		attemptLog: make(map[string][]AttemptResult),
	}
}

// Endpoints returns the endpoints in fallback order.
func (em *EndpointManager) Endpoints() []string {
	return em.endpoints
}

// RecordAttempt records the result of a fetch attempt.
func (em *EndpointManager) RecordAttempt(endpoint string, success bool, err error, statusCode int, duration time.Duration) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}

	em.attemptLog[endpoint] = append(em.attemptLog[endpoint], AttemptResult{
		Endpoint:   endpoint,
		Attempt:    len(em.attemptLog[endpoint]) + 1,
		Success:    success,
		Error:      errMsg,
		Timestamp:  time.Now(),
		Duration:   duration,
		StatusCode: statusCode,
	})
}

// GetAttemptLog returns the attempt log for an endpoint.
func (em *EndpointManager) GetAttemptLog(endpoint string) []AttemptResult {
	return em.attemptLog[endpoint]
}

// AttemptStats contains statistics about fetch attempts.
type AttemptStats struct {
	EndpointAttempts   map[string]int
	TotalEndpoints     int
	TotalAttempts      int
	SuccessfulAttempts int
	FailedAttempts     int
}

// GetAttemptStats returns statistics about fetch attempts.
func (em *EndpointManager) GetAttemptStats() AttemptStats {
	stats := AttemptStats{
		TotalEndpoints:   len(em.endpoints),
		EndpointAttempts: make(map[string]int),
	}

	for endpoint, results := range em.attemptLog {
		stats.EndpointAttempts[endpoint] = len(results)
		stats.TotalAttempts += len(results)

		for _, result := range results {
			if result.Success {
				stats.SuccessfulAttempts++
			} else {
				stats.FailedAttempts++
			}
		}
	}

	return stats
}

// String returns a string representation of attempt stats.
func (s AttemptStats) String() string {
	return fmt.Sprintf(
		"Endpoints: %d | Attempts: %d total, %d success, %d failed",
		s.TotalEndpoints,
		s.TotalAttempts,
		s.SuccessfulAttempts,
		s.FailedAttempts,
	)
}

// LogAttemptSummary logs a summary of fetch attempts using the provided logger.
func (em *EndpointManager) LogAttemptSummary(l *logger.Logger) {
	for _, endpoint := range em.endpoints {
		results := em.GetAttemptLog(endpoint)
		if len(results) == 0 {
			l.Debug("endpoint not attempted", "endpoint", endpoint)
			continue
		}

		failed := 0
		lastErr := ""

		var total time.Duration

		for _, r := range results {
			total += r.Duration
			if !r.Success {
				failed++
				lastErr = r.Error
			}
		}

		l.Info("endpoint summary",
			"endpoint", endpoint,
			"attempts", len(results),
			"failed", failed,
			"last_error", lastErr,
			"duration", total.Round(time.Millisecond),
		)
	}

	l.Info("fetch attempts", "summary", em.GetAttemptStats().String())
}
