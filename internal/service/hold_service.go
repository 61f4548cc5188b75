package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
	"github.com/seonghoon-yang/ticket-reservation/internal/repository"
)

// Outcome statuses shared by hold responses.
const (
	StatusSuccess = "SUCCESS"
	StatusFail    = "FAIL"
)

// Hold failure reasons. These are client-recoverable outcome codes,
// not errors: retry with different seats, or later.
const (
	ReasonHeldByOthers          = "HELD_BY_OTHERS"
	ReasonAlreadyHasActiveHold  = "ALREADY_HAS_ACTIVE_HOLD"
	ReasonMissingIdempotencyKey = "MISSING_IDEMPOTENCY_KEY"
)

// ErrInvalidHold is returned by Consume when the hold does not exist
// or is not in ACTIVE status.
var ErrInvalidHold = errors.New("invalid hold")

// ErrHoldExpired is returned by Consume when the hold's deadline has
// passed; the hold is marked EXPIRED and its seats are released as a
// side effect.
var ErrHoldExpired = errors.New("hold expired")

// HoldRequest is the input to a hold attempt. Mode and SeatBundleID
// are pass-through hints from the seat-selection UI and do not affect
// the claim itself.
type HoldRequest struct {
	SessionID    string   `json:"sessionId"`
	GameID       string   `json:"gameId"`
	Mode         string   `json:"mode,omitempty"`
	SeatBundleID string   `json:"seatBundleId,omitempty"`
	SeatIDs      []string `json:"seatIds"`
}

// HoldResult is the outcome of a hold attempt. On FAIL, Reason carries
// the outcome code and ConflictSeatID names the first contested seat
// when the reason is HELD_BY_OTHERS.
type HoldResult struct {
	HoldID         string     `json:"holdId,omitempty"`
	Status         string     `json:"status"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	ConflictSeatID string     `json:"conflictSeatId,omitempty"`
}

// HoldService atomically claims seat sets for sessions. A single
// coarse mutex serializes every hold attempt process-wide: the
// availability scan and the claim must be atomic with respect to every
// other concurrent attempt, and the critical section is O(seat count),
// so the serialization cost stays acceptable. The same mutex guards
// consumption and sweeping because both mutate the ledger and the
// per-session active-hold pointer.
type HoldService struct {
	ledger repository.SeatLedger
	holds  repository.HoldStore
	replay repository.ReplayCache
	audit  AuditSink
	ttl    time.Duration
	now    func() time.Time

	mu sync.Mutex
}

// NewHoldService constructs a HoldService. ttl is the hold lifetime;
// zero falls back to five minutes.
func NewHoldService(ledger repository.SeatLedger, holds repository.HoldStore, replay repository.ReplayCache, audit AuditSink, ttl time.Duration) *HoldService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if audit == nil {
		audit = NopSink{}
	}
	return &HoldService{
		ledger: ledger,
		holds:  holds,
		replay: replay,
		audit:  audit,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Hold attempts to claim every seat in req for req.SessionID, all or
// nothing. When an idempotency key is supplied the attempt runs at
// most once per key and replays return the first response verbatim.
func (s *HoldService) Hold(ctx context.Context, req HoldRequest, idempotencyKey string) (HoldResult, error) {
	if idempotencyKey == "" {
		// The HTTP layer rejects missing keys; direct callers without a
		// key simply get no replay protection.
		return s.holdOnce(ctx, req)
	}
	body, _, err := s.replay.Do(ctx, "hold:"+idempotencyKey, func() ([]byte, error) {
		res, herr := s.holdOnce(ctx, req)
		if herr != nil {
			return nil, herr
		}
		return json.Marshal(res)
	})
	if err != nil {
		return HoldResult{}, err
	}
	var res HoldResult
	if err := json.Unmarshal(body, &res); err != nil {
		return HoldResult{}, err
	}
	return res, nil
}

func (s *HoldService) holdOnce(ctx context.Context, req HoldRequest) (HoldResult, error) {
	s.audit.Emit(newEvent(req.SessionID, EventHoldRequested, map[string]any{
		"gameId":  req.GameID,
		"seatIds": req.SeatIDs,
	}, auditOK, ""))

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	// Single active hold per session. An expired leftover is
	// self-cleaned here so the session can proceed.
	if existingID, ok, err := s.holds.ActiveHoldID(ctx, req.SessionID); err != nil {
		return HoldResult{}, err
	} else if ok {
		existing, gerr := s.holds.Get(ctx, existingID)
		if gerr != nil && !errors.Is(gerr, repository.ErrHoldNotFound) {
			return HoldResult{}, gerr
		}
		if gerr == nil && existing.Status == model.HoldActive && !existing.Expired(now) {
			s.audit.Emit(newEvent(req.SessionID, EventHoldFailed, map[string]any{
				"reason": ReasonAlreadyHasActiveHold,
			}, auditFail, ReasonAlreadyHasActiveHold))
			return HoldResult{Status: StatusFail, Reason: ReasonAlreadyHasActiveHold}, nil
		}
		// Leftover pointer to an expired or missing hold: self-clean so
		// the session can proceed.
		if err := s.holds.ClearActiveHold(ctx, req.SessionID); err != nil {
			return HoldResult{}, err
		}
		if gerr == nil {
			existing.Status = model.HoldExpired
			if err := s.holds.Update(ctx, existing); err != nil {
				return HoldResult{}, err
			}
			if err := s.ledger.ReleaseAll(ctx, existing.SeatIDs); err != nil {
				return HoldResult{}, err
			}
		}
	}

	// All-or-nothing availability check and claim.
	conflict, err := s.ledger.AcquireAll(ctx, req.SeatIDs, req.SessionID)
	if errors.Is(err, repository.ErrSeatConflict) {
		s.audit.Emit(newEvent(req.SessionID, EventHoldFailed, map[string]any{
			"reason":         ReasonHeldByOthers,
			"conflictSeatId": conflict,
		}, auditFail, ReasonHeldByOthers))
		return HoldResult{Status: StatusFail, Reason: ReasonHeldByOthers, ConflictSeatID: conflict}, nil
	}
	if err != nil {
		return HoldResult{}, err
	}

	expiresAt := now.Add(s.ttl)
	hold := model.Hold{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		GameID:    req.GameID,
		SeatIDs:   append([]string(nil), req.SeatIDs...),
		Status:    model.HoldActive,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.holds.Create(ctx, hold); err != nil {
		_ = s.ledger.ReleaseAll(ctx, req.SeatIDs)
		return HoldResult{}, err
	}
	if err := s.holds.SetActiveHold(ctx, req.SessionID, hold.ID); err != nil {
		_ = s.ledger.ReleaseAll(ctx, req.SeatIDs)
		return HoldResult{}, err
	}

	s.audit.Emit(newEvent(req.SessionID, EventHoldSucceeded, map[string]any{
		"holdId":  hold.ID,
		"seatIds": req.SeatIDs,
	}, auditOK, ""))

	return HoldResult{HoldID: hold.ID, Status: StatusSuccess, ExpiresAt: &expiresAt}, nil
}

// Consume transfers ownership of an ACTIVE, non-expired hold to the
// caller and marks it consumed. The hold's seats stay claimed in the
// ledger: from here until the resulting order leaves ACTIVE status,
// the order is the occupancy source. Returns ErrInvalidHold when the
// hold is missing or not ACTIVE, and ErrHoldExpired (after releasing
// the seats) when its deadline has passed.
func (s *HoldService) Consume(ctx context.Context, holdID string) (model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hold, err := s.holds.Get(ctx, holdID)
	if errors.Is(err, repository.ErrHoldNotFound) {
		return model.Hold{}, ErrInvalidHold
	}
	if err != nil {
		return model.Hold{}, err
	}
	if hold.Status != model.HoldActive {
		return model.Hold{}, ErrInvalidHold
	}
	if hold.Expired(s.now()) {
		if err := s.expireLocked(ctx, hold); err != nil {
			return model.Hold{}, err
		}
		return model.Hold{}, ErrHoldExpired
	}

	hold.Status = model.HoldExpired // consumed
	if err := s.holds.Update(ctx, hold); err != nil {
		return model.Hold{}, err
	}
	if err := s.clearActiveIf(ctx, hold.SessionID, hold.ID); err != nil {
		return model.Hold{}, err
	}
	return hold, nil
}

// SweepExpired transitions every expired ACTIVE hold to EXPIRED and
// releases its seats. It reports how many holds were swept. Intended
// for the optional periodic worker; request handling relies on lazy
// expiry and does not need it.
func (s *HoldService) SweepExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired, err := s.holds.ExpiredActive(ctx, s.now())
	if err != nil {
		return 0, err
	}
	for _, hold := range expired {
		if err := s.expireLocked(ctx, hold); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}

// expireLocked marks a hold EXPIRED, releases its seats and clears the
// session's active-hold pointer. Caller must hold s.mu.
func (s *HoldService) expireLocked(ctx context.Context, hold model.Hold) error {
	hold.Status = model.HoldExpired
	if err := s.holds.Update(ctx, hold); err != nil {
		return err
	}
	if err := s.ledger.ReleaseAll(ctx, hold.SeatIDs); err != nil {
		return err
	}
	if err := s.clearActiveIf(ctx, hold.SessionID, hold.ID); err != nil {
		return err
	}
	s.audit.Emit(newEvent(hold.SessionID, EventHoldExpired, map[string]any{
		"holdId": hold.ID,
	}, auditOK, ""))
	return nil
}

// clearActiveIf clears the session's active-hold pointer only when it
// still points at holdID, so a newer hold is never clobbered.
func (s *HoldService) clearActiveIf(ctx context.Context, sessionID, holdID string) error {
	id, ok, err := s.holds.ActiveHoldID(ctx, sessionID)
	if err != nil {
		return err
	}
	if ok && id == holdID {
		return s.holds.ClearActiveHold(ctx, sessionID)
	}
	return nil
}
