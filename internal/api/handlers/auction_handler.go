package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"auction-house/internal/domain"
	"auction-house/internal/services"
	"auction-house/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuctionHandler is the service boundary: pure routing from the public
// operations to the auction house, no policy of its own.
type AuctionHandler struct {
	house     *services.AuctionHouse
	scheduler domain.AuctionScheduler
	log       logger.Logger
}

func NewAuctionHandler(house *services.AuctionHouse, scheduler domain.AuctionScheduler, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		house:     house,
		scheduler: scheduler,
		log:       log,
	}
}

// StatusResponse is the result envelope every operation returns: a status
// tag plus a human-readable reason on errors.
type StatusResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type RegisterBuyerRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	BankAccount  string `json:"bank_account"`
	BankAuthCode string `json:"bank_auth_code"`
}

type RegisterSellerRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	BankAccount string `json:"bank_account"`
}

type AddLotRequest struct {
	SellerName   string `json:"seller_name"`
	Number       int    `json:"number"`
	Description  string `json:"description"`
	ReservePrice string `json:"reserve_price"`
}

type NoteInterestRequest struct {
	BuyerName string `json:"buyer_name"`
}

type OpenAuctionRequest struct {
	AuctioneerName    string `json:"auctioneer_name"`
	AuctioneerAddress string `json:"auctioneer_address"`
}

type MakeBidRequest struct {
	BuyerName string `json:"buyer_name"`
	Amount    string `json:"amount"`
}

type CloseAuctionRequest struct {
	AuctioneerName string `json:"auctioneer_name"`
}

type ScheduleRequest struct {
	AuctioneerName    string     `json:"auctioneer_name"`
	AuctioneerAddress string     `json:"auctioneer_address"`
	OpenAt            *time.Time `json:"open_at,omitempty"`
	CloseAt           *time.Time `json:"close_at,omitempty"`
}

func (h *AuctionHandler) Register(api *echo.Group) {
	api.POST("/buyers", h.RegisterBuyer)
	api.POST("/sellers", h.RegisterSeller)
	api.POST("/lots", h.AddLot)
	api.GET("/catalogue", h.ViewCatalogue)
	api.POST("/lots/:number/interest", h.NoteInterest)
	api.POST("/lots/:number/open", h.OpenAuction)
	api.POST("/lots/:number/bids", h.MakeBid)
	api.POST("/lots/:number/close", h.CloseAuction)
	api.POST("/lots/:number/schedule", h.Schedule)
}

func (h *AuctionHandler) RegisterBuyer(c echo.Context) error {
	var req RegisterBuyerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.house.RegisterBuyer(c.Request().Context(), req.Name, req.Address, req.BankAccount, req.BankAuthCode); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, StatusResponse{Status: string(domain.OutcomeOK)})
}

func (h *AuctionHandler) RegisterSeller(c echo.Context) error {
	var req RegisterSellerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.house.RegisterSeller(c.Request().Context(), req.Name, req.Address, req.BankAccount); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, StatusResponse{Status: string(domain.OutcomeOK)})
}

func (h *AuctionHandler) AddLot(c echo.Context) error {
	var req AddLotRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	reserve, err := domain.NewMoney(req.ReservePrice)
	if err != nil {
		return errorResponse(c, err)
	}
	if err := h.house.AddLot(c.Request().Context(), req.SellerName, req.Number, req.Description, reserve); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, StatusResponse{Status: string(domain.OutcomeOK)})
}

func (h *AuctionHandler) ViewCatalogue(c echo.Context) error {
	catalogue := h.house.ViewCatalogue(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    string(domain.OutcomeOK),
		"catalogue": catalogue,
	})
}

func (h *AuctionHandler) NoteInterest(c echo.Context) error {
	number, err := lotNumber(c)
	if err != nil {
		return badRequest(c, "invalid lot number")
	}
	var req NoteInterestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.house.NoteInterest(c.Request().Context(), req.BuyerName, number); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: string(domain.OutcomeOK)})
}

func (h *AuctionHandler) OpenAuction(c echo.Context) error {
	number, err := lotNumber(c)
	if err != nil {
		return badRequest(c, "invalid lot number")
	}
	var req OpenAuctionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.house.OpenAuction(c.Request().Context(), req.AuctioneerName, req.AuctioneerAddress, number); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: string(domain.OutcomeOK)})
}

func (h *AuctionHandler) MakeBid(c echo.Context) error {
	number, err := lotNumber(c)
	if err != nil {
		return badRequest(c, "invalid lot number")
	}
	var req MakeBidRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	amount, err := domain.NewMoney(req.Amount)
	if err != nil {
		return errorResponse(c, err)
	}
	if err := h.house.MakeBid(c.Request().Context(), req.BuyerName, number, amount); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: string(domain.OutcomeOK)})
}

func (h *AuctionHandler) CloseAuction(c echo.Context) error {
	number, err := lotNumber(c)
	if err != nil {
		return badRequest(c, "invalid lot number")
	}
	var req CloseAuctionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	outcome, err := h.house.CloseAuction(c.Request().Context(), req.AuctioneerName, number)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: string(outcome)})
}

func (h *AuctionHandler) Schedule(c echo.Context) error {
	number, err := lotNumber(c)
	if err != nil {
		return badRequest(c, "invalid lot number")
	}
	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.OpenAt == nil && req.CloseAt == nil {
		return badRequest(c, "open_at or close_at required")
	}

	ctx := c.Request().Context()
	if req.OpenAt != nil {
		if err := h.scheduler.ScheduleOpen(ctx, number, req.AuctioneerName, req.AuctioneerAddress, *req.OpenAt); err != nil {
			return errorResponse(c, err)
		}
	}
	if req.CloseAt != nil {
		if err := h.scheduler.ScheduleClose(ctx, number, req.AuctioneerName, *req.CloseAt); err != nil {
			return errorResponse(c, err)
		}
	}
	return c.JSON(http.StatusAccepted, StatusResponse{Status: string(domain.OutcomeOK)})
}

func lotNumber(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("number"))
}

func badRequest(c echo.Context, reason string) error {
	return c.JSON(http.StatusBadRequest, StatusResponse{Status: "error", Reason: reason})
}

func errorResponse(c echo.Context, err error) error {
	return c.JSON(statusCode(err), StatusResponse{Status: "error", Reason: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownLot):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrDuplicateLot),
		errors.Is(err, domain.ErrDuplicateInterest),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownSeller),
		errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrNotInterested),
		errors.Is(err, domain.ErrBidTooLow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
