package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-house/internal/config"
	"auction-house/internal/domain"
	"auction-house/internal/infrastructure/mysql"
	"auction-house/pkg/logger"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
)

// bankd is the funds-transfer collaborator the auction house settles through:
// a small HTTP ledger over MySQL.

type transferRequest struct {
	FromAccount string       `json:"from_account"`
	AuthCode    string       `json:"auth_code"`
	ToAccount   string       `json:"to_account"`
	Amount      domain.Money `json:"amount"`
}

type createAccountRequest struct {
	AccountNo      string       `json:"account_no"`
	AuthCode       string       `json:"auth_code"`
	OpeningBalance domain.Money `json:"opening_balance"`
}

type bankHandler struct {
	ledger *mysql.LedgerRepository
	log    logger.Logger
}

func (h *bankHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	transferID, err := h.ledger.Transfer(r.Context(), req.FromAccount, req.AuthCode, req.ToAccount, req.Amount)
	if err != nil {
		h.log.Warn("Transfer failed", "from", req.FromAccount, "to", req.ToAccount,
			"amount", req.Amount.String(), "error", err)
		writeJSON(w, transferStatusCode(err), map[string]string{"error": err.Error()})
		return
	}

	h.log.Info("Transfer settled", "transfer_id", transferID,
		"from", req.FromAccount, "to", req.ToAccount, "amount", req.Amount.String())
	writeJSON(w, http.StatusOK, map[string]string{"transfer_id": transferID})
}

func (h *bankHandler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.ledger.CreateAccount(r.Context(), req.AccountNo, req.AuthCode, req.OpeningBalance); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"account_no": req.AccountNo})
}

func (h *bankHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	accountNo := mux.Vars(r)["accountNo"]

	balance, err := h.ledger.Balance(r.Context(), accountNo)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"account_no": accountNo, "balance": balance.String()})
}

func transferStatusCode(err error) int {
	switch {
	case errors.Is(err, mysql.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, mysql.ErrBadAuthCode):
		return http.StatusUnauthorized
	case errors.Is(err, mysql.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func main() {
	log := logger.New()
	log.Info("Starting bankd")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping MySQL", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	ledger := mysql.NewLedgerRepository(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		log.Error("Failed to ensure ledger schema", "error", err)
		os.Exit(1)
	}

	handler := &bankHandler{ledger: ledger, log: log}

	// Setup routes
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/transfers", handler.handleTransfer).Methods("POST")
	api.HandleFunc("/accounts", handler.handleCreateAccount).Methods("POST")
	api.HandleFunc("/accounts/{accountNo}/balance", handler.handleBalance).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port+1),
		Handler: router,
	}

	go func() {
		log.Info("Starting bankd server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down bankd...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("bankd stopped")
}
