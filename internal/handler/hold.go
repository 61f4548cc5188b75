package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seonghoon-yang/ticket-reservation/internal/service"
)

// HoldHandler exposes the atomic seat-hold endpoint. The Idempotency-Key
// header is part of the contract: requests without one are rejected
// before any ledger access.
type HoldHandler struct {
	Holds *service.HoldService
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(holds *service.HoldService) *HoldHandler {
	if holds == nil {
		panic("nil hold service passed to NewHoldHandler")
	}
	return &HoldHandler{Holds: holds}
}

// CreateHold handles POST /v1/holds. The body carries the session,
// game and seat set; the whole claim succeeds or fails as one unit.
// Returns 200 on SUCCESS, 409 on a FAIL outcome and 400 on request
// errors including a missing idempotency key.
func (h *HoldHandler) CreateHold(c echo.Context) error {
	key := strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
	if key == "" {
		return c.JSON(http.StatusBadRequest, service.HoldResult{
			Status: service.StatusFail,
			Reason: service.ReasonMissingIdempotencyKey,
		})
	}

	var req service.HoldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sessionId is required"})
	}
	if req.GameID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gameId is required"})
	}
	// Deduplicate while preserving order so a repeated seat in the
	// request cannot inflate the claim.
	seen := make(map[string]struct{}, len(req.SeatIDs))
	unique := make([]string, 0, len(req.SeatIDs))
	for _, id := range req.SeatIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatIds is required"})
	}
	req.SeatIDs = unique

	res, err := h.Holds.Hold(c.Request().Context(), req, key)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hold failed"})
	}
	if res.Status == service.StatusFail {
		return c.JSON(http.StatusConflict, res)
	}
	return c.JSON(http.StatusOK, res)
}
