package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dealsadmin/internal/domain"
	"dealsadmin/internal/domain/entity"
	"dealsadmin/internal/domain/service/review"
	"dealsadmin/internal/session"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/errcodes"
	"dealsadmin/pkg/httpx/reply"
	"dealsadmin/pkg/logx"
)

// DealsAPIFactory binds the admin API to one operator session.
type DealsAPIFactory func(session.Session) review.DealsAPI

type decisionObserver interface {
	ObserveDecision(action string, err error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event entity.Event)
}

// DealsServer serves the review queue and the all-deals browser.
type DealsServer struct {
	gate      Gate
	views     *ViewRegistry
	api       DealsAPIFactory
	renderers renderers
	observer  decisionObserver
	events    eventPublisher
}

func NewDealsServer(
	gate Gate,
	views *ViewRegistry,
	api DealsAPIFactory,
	pages *Pages,
	observer decisionObserver,
	events eventPublisher,
) DealsServer {
	return DealsServer{
		gate:      gate,
		views:     views,
		api:       api,
		renderers: newRenderers(pages),
		observer:  observer,
		events:    events,
	}
}

func (s DealsServer) getPendingDeals(w http.ResponseWriter, r *http.Request) error {
	return s.renderView(w, r, viewPending, viewState{filter: entity.StatusAll}, func(store *review.Store) error {
		return store.Load(r.Context(), entity.StatusPendingValidation)
	})
}

func (s DealsServer) getAllDeals(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()

	filter, err := entity.ParseFilter(query.Get("status"))
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidDealStatus, fmt.Sprintf("Unknown status %q", query.Get("status")))
	}

	state := viewState{filter: filter, query: query.Get("q")}

	return s.renderView(w, r, viewAll, state, func(store *review.Store) error {
		if err := store.SetFilter(state.filter); err != nil {
			return fmt.Errorf("store.SetFilter: %w", err)
		}

		store.SetSearch(state.query)

		return store.Load(r.Context(), entity.StatusAll)
	})
}

// viewState is the filter and search query one request asked for. Rows are
// always derived from it, never from whatever the shared store holds.
type viewState struct {
	filter entity.DealStatus
	query  string
}

func (s DealsServer) renderView(
	w http.ResponseWriter,
	r *http.Request,
	kind viewKind,
	state viewState,
	refresh func(*review.Store) error,
) error {
	ctx := r.Context()

	sess, err := sessionFromContext(ctx)
	if err != nil {
		return fmt.Errorf("sessionFromContext: %w", err)
	}

	requested := r.URL.Query().Get("view")

	name, renderer, err := s.renderers.pick(requested, defaultRenderer(kind))
	if err != nil {
		return err
	}

	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldView, string(kind)+"/"+name)))

	store := s.views.Get(sess.ID, kind, s.api(sess))

	err = refresh(store)

	switch {
	case errors.Is(err, session.ErrExpired):
		s.gate.Expire(w, r, sess)

		return nil
	case errors.Is(err, review.ErrClosed):
		// Evicted between lookup and load; the next request opens a new view.
		reply.SeeOther(w, r, r.URL.RequestURI())

		return nil
	case errors.Is(err, review.ErrSuperseded):
		logger(ctx).Debug("rendering newer load")
	case domain.HasCode(err, errcodes.InvalidDealStatus):
		return err
	case err != nil:
		logger(ctx).Error("store.Load", logx.Error(err))
	}

	snap := store.TakeSnapshot(state.filter, state.query)

	return renderer.Render(w, r.WithContext(ctx), newDealsPage(kind, name, requested, sess, snap))
}

func (s DealsServer) postApproveDeal(w http.ResponseWriter, r *http.Request) error {
	return s.decide(w, r, review.ActionApprove)
}

func (s DealsServer) postRejectDeal(w http.ResponseWriter, r *http.Request) error {
	return s.decide(w, r, review.ActionReject)
}

// decide runs a review action and redirects back to the queue. With
// ?view=json it answers with the updated deal or a coded error instead.
func (s DealsServer) decide(w http.ResponseWriter, r *http.Request, action review.Action) error {
	ctx := r.Context()

	sess, err := sessionFromContext(ctx)
	if err != nil {
		return fmt.Errorf("sessionFromContext: %w", err)
	}

	id := entity.DealID(chi.URLParam(r, "id"))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldDealID, id.String())))

	store := s.views.Get(sess.ID, viewPending, s.api(sess))

	var deal entity.Deal

	switch action {
	case review.ActionApprove:
		deal, err = store.Approve(ctx, id)
	case review.ActionReject:
		deal, err = store.Reject(ctx, id)
	}

	if !domain.HasCode(err, errcodes.ActionInProgress) && !errors.Is(err, review.ErrClosed) {
		s.observer.ObserveDecision(string(action), err)
	}

	asJSON := r.URL.Query().Get("view") == rendererJSON

	if errors.Is(err, session.ErrExpired) {
		if asJSON {
			s.gate.end(ctx, w, sess.ID)

			return domain.WrapError(err, errcodes.SessionExpired, "Session expired")
		}

		s.gate.Expire(w, r, sess)

		return nil
	}

	if err == nil {
		s.events.Publish(ctx, entity.Event{
			Kind:       eventKind(action),
			Deal:       deal,
			Operator:   sess.Email,
			OccurredAt: time.Now(),
		})
	} else {
		logger(ctx).Warn("review action failed", slog.String("action", string(action)), logx.Error(err))
	}

	if asJSON {
		if err != nil {
			return err
		}

		reply.JSON(ctx, w, http.StatusOK, newRESTDeal(deal))

		return nil
	}

	reply.SeeOther(w, r, "/deals")

	return nil
}

func eventKind(action review.Action) entity.EventKind {
	if action == review.ActionReject {
		return entity.EventDealRejected
	}

	return entity.EventDealApproved
}

func defaultRenderer(kind viewKind) string {
	if kind == viewPending {
		return rendererList
	}

	return rendererTable
}

func newDealsPage(kind viewKind, name, requested string, sess session.Session, snap review.Snapshot) dealsPage {
	page := dealsPage{
		layoutData: layoutData{
			Email: sess.Email,
			Nav:   kind,
		},
		View:     name,
		Filter:   snap.Filter.String(),
		Query:    snap.Query,
		Total:    snap.Total,
		Visible:  len(snap.Visible),
		Error:    snap.Error,
		Busy:     snap.ActioningID != "",
		Empty:    emptyMessage(kind, snap),
		snapshot: snap,
	}

	for _, d := range snap.Visible {
		page.Rows = append(page.Rows, newDealRow(d, snap.ActioningID))
	}

	switch kind {
	case viewPending:
		page.Title = "Pending Validation"
		page.Heading = "Pending Validation"
		page.Subheading = "Review and approve deals submitted for validation"
		page.ShowActions = true
	case viewAll:
		page.Title = "All Deals"
		page.Heading = "All Deals"
		page.Subheading = "View and manage all deals in the system"
		page.ShowFilters = true
		page.Chips = newFilterChips(snap, requested)
	}

	return page
}
