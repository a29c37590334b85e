package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auction-house/internal/domain"
	"auction-house/internal/infrastructure/memory"
	"auction-house/internal/services"
	"auction-house/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{}

func (nopPublisher) PublishAuctionEvent(ctx context.Context, event *domain.AuctionEvent) error {
	return nil
}

type nopBank struct{}

func (nopBank) Transfer(ctx context.Context, fromAccount, fromAuthCode, toAccount string, amount domain.Money) error {
	return nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := services.HouseConfig{
		Increment:    domain.MustMoney("10"),
		Commission:   domain.MustMoney("25"),
		BuyerPremium: domain.MustMoney("50"),
		BankAccount:  "HOUSE-AC",
		BankAuthCode: "HOUSE-AUTH",
	}
	house := services.NewAuctionHouse(cfg, memory.NewPartyRegistry(), memory.NewLotStore(),
		nopPublisher{}, nopBank{}, logger.NewNop())
	scheduler := services.NewCronAuctionScheduler(house, nil, "test", logger.NewNop())

	e := echo.New()
	NewAuctionHandler(house, scheduler, logger.NewNop()).Register(e.Group("/api/v1"))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterBuyerEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/buyers",
		`{"name":"B","address":"b@mail","bank_account":"B-AC","bank_auth_code":"B-AUTH"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate maps to 409
	rec = doJSON(e, http.MethodPost, "/api/v1/buyers",
		`{"name":"B","address":"b@mail","bank_account":"B-AC","bank_auth_code":"B-AUTH"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddLotEndpoint(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/api/v1/sellers", `{"name":"S","address":"s@mail","bank_account":"S-AC"}`)

	t.Run("unknown seller is 422", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/lots",
			`{"seller_name":"nobody","number":1,"description":"Chair","reserve_price":"50"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed reserve is 400", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/lots",
			`{"seller_name":"S","number":1,"description":"Chair","reserve_price":"fifty"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created then duplicate is 409", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/lots",
			`{"seller_name":"S","number":1,"description":"Chair","reserve_price":"50"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(e, http.MethodPost, "/api/v1/lots",
			`{"seller_name":"S","number":1,"description":"Chair","reserve_price":"50"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuctionLifecycleEndpoints(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/api/v1/sellers", `{"name":"S","address":"s@mail","bank_account":"S-AC"}`)
	doJSON(e, http.MethodPost, "/api/v1/buyers",
		`{"name":"B","address":"b@mail","bank_account":"B-AC","bank_auth_code":"B-AUTH"}`)
	doJSON(e, http.MethodPost, "/api/v1/lots",
		`{"seller_name":"S","number":1,"description":"Chair","reserve_price":"50"}`)

	rec := doJSON(e, http.MethodPost, "/api/v1/lots/1/interest", `{"buyer_name":"B"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Bidding before the auction opens is 409
	rec = doJSON(e, http.MethodPost, "/api/v1/lots/1/bids", `{"buyer_name":"B","amount":"60"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/lots/1/open",
		`{"auctioneer_name":"A","auctioneer_address":"a@mail"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Too-low bid is 422
	rec = doJSON(e, http.MethodPost, "/api/v1/lots/1/bids", `{"buyer_name":"B","amount":"5"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/lots/1/bids", `{"buyer_name":"B","amount":"60"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/lots/1/close", `{"auctioneer_name":"A"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sale", resp.Status)

	rec = doJSON(e, http.MethodGet, "/api/v1/catalogue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var catalogue struct {
		Status    string                  `json:"status"`
		Catalogue []domain.CatalogueEntry `json:"catalogue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalogue))
	require.Len(t, catalogue.Catalogue, 1)
	assert.Equal(t, "sold", catalogue.Catalogue[0].Status)
}

func TestUnknownLotIs404(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodPost, "/api/v1/lots/42/open",
		`{"auctioneer_name":"A","auctioneer_address":"a@mail"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
