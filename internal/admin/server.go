package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
	"github.com/Arslanmonuahmad/tiplu/internal/service"
)

// Server is the operator dashboard API: stats, user management and the
// pending-payment approval queue.
type Server struct {
	addr         string
	username     string
	passwordHash []byte
	sessions     *sessionIssuer
	log          *slog.Logger
	users        *service.UserService
	payments     *service.PaymentService
	router       *chi.Mux
}

func NewServer(addr, username, password, sessionSecret string, log *slog.Logger, users *service.UserService, payments *service.PaymentService) (*Server, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		addr:         addr,
		username:     username,
		passwordHash: hash,
		sessions:     newSessionIssuer(sessionSecret, 24*time.Hour),
		log:          log,
		users:        users,
		payments:     payments,
		router:       r,
	}

	r.Post("/admin/login", s.handleLogin)
	r.Post("/admin/logout", s.handleLogout)
	r.Group(func(protected chi.Router) {
		protected.Use(s.authMiddleware)
		protected.Get("/admin/stats", s.handleStats)
		protected.Get("/admin/users", s.handleListUsers)
		protected.Put("/admin/users/{userId}", s.handleUpdateUser)
		protected.Delete("/admin/users/{userId}", s.handleDeleteUser)
		protected.Get("/admin/payments", s.handleListPayments)
		protected.Post("/admin/payments/{paymentId}/approve", s.handleApprovePayment)
		protected.Post("/admin/payments/{paymentId}/reject", s.handleRejectPayment)
	})
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("admin shutdown error", "err", err)
		}
	}()

	s.log.Info("admin panel listening", "addr", s.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin listen: %w", err)
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Username != s.username || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, expires, err := s.sessions.issue(req.Username)
	if err != nil {
		s.internalError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || s.sessions.verify(cookie.Value) != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.users.Stats(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, users)
}

type userUpdateRequest struct {
	MessagesLeft  *int                  `json:"messagesLeft"`
	ImagesLeft    *int                  `json:"imagesLeft"`
	PremiumStatus *models.PremiumStatus `json:"premiumStatus"`
	ChatMood      *models.ChatMood      `json:"chatMood"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseTelegramID(chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.PremiumStatus != nil {
		switch *req.PremiumStatus {
		case models.PremiumFree, models.PremiumActive:
		default:
			http.Error(w, "invalid premium status", http.StatusBadRequest)
			return
		}
	}
	if req.ChatMood != nil {
		switch *req.ChatMood {
		case models.MoodNormal, models.MoodErotic:
		default:
			http.Error(w, "invalid chat mood", http.StatusBadRequest)
			return
		}
	}

	user, err := s.users.Update(r.Context(), id, repository.UserUpdate{
		MessagesLeft:  req.MessagesLeft,
		ImagesLeft:    req.ImagesLeft,
		PremiumStatus: req.PremiumStatus,
		ChatMood:      req.ChatMood,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseTelegramID(chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		s.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.payments.List(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleApprovePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "paymentId")
	payment, err := s.payments.Approve(r.Context(), id)
	if err != nil {
		s.paymentDecisionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payment)
}

func (s *Server) handleRejectPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "paymentId")
	payment, err := s.payments.Reject(r.Context(), id)
	if err != nil {
		s.paymentDecisionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payment)
}

func (s *Server) paymentDecisionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "payment not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrFinalized):
		http.Error(w, "payment already finalized", http.StatusConflict)
	default:
		s.internalError(w, err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error("admin handler error", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseTelegramID(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}
