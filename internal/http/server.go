// Package http exposes the household ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"hogar/internal/config"
	"hogar/internal/log"
	"hogar/internal/ocr"
	"hogar/internal/services"
)

type Server struct {
	http.Server
	svc          *services.LedgerService
	ocrClient    *ocr.Client
	rateLimiter  *rateLimiter
	logger       *log.Logger
	shutdownOnce sync.Once
	now          func() time.Time
}

// Simple in-memory rate limiter, applied to mutating requests only.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Counter resets after a quiet minute.
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

// NewServer wires every route. The OCR client may be nil when no service is
// configured; the intake endpoint then answers 503.
func NewServer(cfg *config.Config, svc *services.LedgerService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	var ocrClient *ocr.Client
	if cfg.OCRBaseURL != "" {
		ocrClient = ocr.NewClient(cfg.OCRBaseURL, cfg.OCRAPIKey, cfg.OCRTimeout)
	}

	s := &Server{
		Server: http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:         svc,
		ocrClient:   ocrClient,
		rateLimiter: newRateLimiter(),
		logger:      logger.WithComponent(log.ComponentHTTP),
		now:         time.Now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/members", s.wrap(s.handleListMembers))
	mux.HandleFunc("POST /api/members", s.wrap(s.handleCreateMember))
	mux.HandleFunc("PUT /api/members/{id}", s.wrap(s.handleUpdateMember))
	mux.HandleFunc("DELETE /api/members/{id}", s.wrap(s.handleDeleteMember))
	mux.HandleFunc("GET /api/members/{id}/balance", s.wrap(s.handleMemberBalance))

	mux.HandleFunc("POST /api/members/{id}/incomes", s.wrap(s.handleAddIncome))
	mux.HandleFunc("PUT /api/members/{id}/incomes/{incomeID}", s.wrap(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/members/{id}/incomes/{incomeID}", s.wrap(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/expenses", s.wrap(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.wrap(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.wrap(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrap(s.handleDeleteExpense))
	mux.HandleFunc("POST /api/expenses/{id}/toggle", s.wrap(s.handleTogglePaid))

	mux.HandleFunc("POST /api/members/{id}/cards", s.wrap(s.handleAddCard))
	mux.HandleFunc("PUT /api/members/{id}/cards/{cardID}", s.wrap(s.handleUpdateCard))
	mux.HandleFunc("DELETE /api/members/{id}/cards/{cardID}", s.wrap(s.handleDeleteCard))

	mux.HandleFunc("POST /api/members/{id}/loans", s.wrap(s.handleAddLoan))
	mux.HandleFunc("PUT /api/members/{id}/loans/{loanID}", s.wrap(s.handleUpdateLoan))
	mux.HandleFunc("DELETE /api/members/{id}/loans/{loanID}", s.wrap(s.handleDeleteLoan))
	mux.HandleFunc("POST /api/loans/estimate", s.wrap(s.handleLoanEstimate))

	mux.HandleFunc("GET /api/dashboard", s.wrap(s.handleDashboard))
	mux.HandleFunc("POST /api/reconcile", s.wrap(s.handleReconcile))
	mux.HandleFunc("POST /api/ocr", s.wrap(s.handleOCR))

	return s
}

// wrap adds security headers, rate limiting and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(r.Context(), "request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
