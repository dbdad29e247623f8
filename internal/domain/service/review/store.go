package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"dealsadmin/internal/domain"
	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/errcodes"
	"dealsadmin/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	msgLoadFailed    = "Failed to load deals"
	msgApproveFailed = "Approve failed"
	msgRejectFailed  = "Reject failed"
	msgActionBusy    = "Another action is still in progress"
)

var (
	// ErrClosed is returned once the owning view has been torn down.
	ErrClosed = errors.New("review store closed")
	// ErrSuperseded is returned by a Load whose response arrived after a newer
	// Load was issued. Its result was discarded.
	ErrSuperseded = errors.New("load superseded by a newer one")
)

//go:generate moq -rm -out deals_api_mock.gen.go . DealsAPI:DealsAPIMock
type DealsAPI interface {
	ListDeals(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error)
	ApproveDeal(ctx context.Context, id entity.DealID) (entity.Deal, error)
	RejectDeal(ctx context.Context, id entity.DealID) (entity.Deal, error)
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Store holds one view's list of deals together with its filter, search query
// and the single review action that may be in flight. It is safe for
// concurrent use; API calls are made without holding the lock.
type Store struct {
	api DealsAPI

	mu          sync.Mutex
	deals       []entity.Deal
	version     uint64
	loaded      bool
	loading     bool
	loadEpoch   uint64
	filter      entity.DealStatus
	query       string
	actioningID entity.DealID
	errMessage  string
	closed      bool
	memo        visibleMemo
}

func NewStore(api DealsAPI) *Store {
	return &Store{
		api:    api,
		filter: entity.StatusAll,
	}
}

// Load replaces the deals with a fresh server snapshot. Only the most recently
// issued Load may apply its result; older ones return ErrSuperseded.
func (s *Store) Load(ctx context.Context, status entity.DealStatus) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return ErrClosed
	}

	s.loadEpoch++
	epoch := s.loadEpoch
	s.loading = true
	s.mu.Unlock()

	deals, err := s.api.ListDeals(ctx, status)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if epoch != s.loadEpoch {
		logger(ctx).Debug("stale deals response dropped", slog.Uint64("epoch", epoch))

		return ErrSuperseded
	}

	s.loading = false

	if err != nil {
		s.errMessage = msgLoadFailed

		return fmt.Errorf("api.ListDeals: %w", err)
	}

	s.deals = slices.Clone(deals)
	s.version++
	s.loaded = true

	return nil
}

func (s *Store) SetFilter(status entity.DealStatus) error {
	if status != entity.StatusAll && !status.Valid() {
		return domain.NewError(errcodes.InvalidDealStatus, fmt.Sprintf("Unknown status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = status

	return nil
}

func (s *Store) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
}

// Approve asks the backend to publish the deal and drops it from the list
// once confirmed.
func (s *Store) Approve(ctx context.Context, id entity.DealID) (entity.Deal, error) {
	return s.act(ctx, id, ActionApprove, s.api.ApproveDeal, msgApproveFailed)
}

// Reject asks the backend to reject the deal and drops it from the list once
// confirmed.
func (s *Store) Reject(ctx context.Context, id entity.DealID) (entity.Deal, error) {
	return s.act(ctx, id, ActionReject, s.api.RejectDeal, msgRejectFailed)
}

func (s *Store) act(
	ctx context.Context,
	id entity.DealID,
	action Action,
	call func(context.Context, entity.DealID) (entity.Deal, error),
	fallback string,
) (entity.Deal, error) {
	if id == "" {
		return entity.Deal{}, domain.NewError(errcodes.InvalidDealID, "Deal id is required")
	}

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return entity.Deal{}, ErrClosed
	}

	if s.actioningID != "" {
		busy := s.actioningID
		s.mu.Unlock()

		logger(ctx).Warn(
			"review action refused",
			slog.String(logx.FieldDealID, id.String()),
			slog.String("in-flight-deal-id", busy.String()),
		)

		return entity.Deal{}, domain.NewError(errcodes.ActionInProgress, msgActionBusy)
	}

	s.actioningID = id
	s.mu.Unlock()

	// Cleared on every path, including a panicking call.
	defer s.finishAction()

	deal, err := call(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return entity.Deal{}, ErrClosed
	}

	if err != nil {
		s.errMessage = domain.Message(err, fallback)

		return entity.Deal{}, fmt.Errorf("api.%sDeal: %w", action, err)
	}

	// Identity by id: the returned status may lag behind the transition.
	s.deals = lo.Reject(s.deals, func(d entity.Deal, _ int) bool {
		return d.ID == id
	})
	s.version++

	logger(ctx).Info(
		"deal reviewed",
		slog.String(logx.FieldDealID, id.String()),
		slog.String("action", string(action)),
	)

	return deal, nil
}

func (s *Store) finishAction() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actioningID = ""
}

// Visible returns the deals matching the current filter and search query in
// server order. The result is memoized on (deals, filter, query).
func (s *Store) Visible() []entity.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.visibleLocked(s.filter, s.query))
}

func (s *Store) visibleLocked(filter entity.DealStatus, query string) []entity.Deal {
	if s.memo.matches(s.version, filter, query) {
		return s.memo.result
	}

	result := ComputeVisible(s.deals, filter, query)
	s.memo = visibleMemo{
		valid:   true,
		version: s.version,
		filter:  filter,
		query:   query,
		result:  result,
	}

	return result
}

// StatusCounts tallies all loaded deals by status, ignoring filter and search.
func (s *Store) StatusCounts() map[entity.DealStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ComputeStatusCounts(s.deals)
}

func (s *Store) Deals() []entity.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.deals)
}

func (s *Store) ActioningID() entity.DealID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.actioningID
}

// Err is the last failure message to show the operator, if any.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errMessage
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMessage = ""
}

// Close tears the store down. Responses that arrive afterwards are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
}

type Snapshot struct {
	Visible     []entity.Deal
	Counts      map[entity.DealStatus]int
	Total       int
	Filter      entity.DealStatus
	Query       string
	ActioningID entity.DealID
	Loading     bool
	Loaded      bool
	Error       string
}

// Snapshot returns a consistent copy of everything a view renders.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked(s.filter, s.query)
}

// TakeSnapshot renders the loaded deals through the given filter and query
// instead of the store's own, and consumes the pending error message in the
// same critical section. Requests sharing a view use it so that one request's
// filter never leaks into another's response.
func (s *Store) TakeSnapshot(filter entity.DealStatus, query string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked(filter, query)
	s.errMessage = ""

	return snap
}

func (s *Store) snapshotLocked(filter entity.DealStatus, query string) Snapshot {
	return Snapshot{
		Visible:     slices.Clone(s.visibleLocked(filter, query)),
		Counts:      ComputeStatusCounts(s.deals),
		Total:       len(s.deals),
		Filter:      filter,
		Query:       query,
		ActioningID: s.actioningID,
		Loading:     s.loading,
		Loaded:      s.loaded,
		Error:       s.errMessage,
	}
}

type visibleMemo struct {
	valid   bool
	version uint64
	filter  entity.DealStatus
	query   string
	result  []entity.Deal
}

func (m visibleMemo) matches(version uint64, filter entity.DealStatus, query string) bool {
	return m.valid && m.version == version && m.filter == filter && m.query == query
}

// ComputeVisible applies the status filter, then the search query.
func ComputeVisible(deals []entity.Deal, filter entity.DealStatus, query string) []entity.Deal {
	result := deals

	if filter != entity.StatusAll {
		result = lo.Filter(result, func(d entity.Deal, _ int) bool {
			return d.Status == filter
		})
	}

	if strings.TrimSpace(query) != "" {
		q := strings.ToLower(query)

		result = lo.Filter(result, func(d entity.Deal, _ int) bool {
			return matchesQuery(d, q)
		})
	}

	return slices.Clip(result)
}

func matchesQuery(d entity.Deal, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(d.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(d.Description), lowerQuery) ||
		strings.Contains(strings.ToLower(d.LocationText()), lowerQuery)
}

// DiscountPercent is exposed here so views need not reach into entity.
func DiscountPercent(d entity.Deal) (float64, bool) {
	return d.DiscountPercent()
}

func ComputeStatusCounts(deals []entity.Deal) map[entity.DealStatus]int {
	return lo.CountValuesBy(deals, func(d entity.Deal) entity.DealStatus {
		return d.Status
	})
}
