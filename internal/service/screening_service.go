// Package service holds the screening lifecycle rules: who may create or
// delete screenings, which cross-entity checks apply, and in what order.
// Each operation is a stateless transaction over the repositories.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/apperror"
	"github.com/iliyamo/cinema-screening-booking/internal/auth"
	"github.com/iliyamo/cinema-screening-booking/internal/model"
	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

const (
	msgAuthMissing        = "Auth data not provided"
	msgUserMissing        = "User data are missing"
	msgNotAdmin           = "User is not admin"
	msgDateNotFuture      = "Date need to be from future"
	msgMovieMissing       = "movieId not in the database"
	msgScreeningsNotFound = "Screenings not found"
	msgScreeningNotFound  = "Screening with given Id not found"
	msgFreeSeats          = "screening has still free seats"
)

// ScreeningStore is the persistence gateway for screenings. Absent rows are
// reported as nil with no error.
type ScreeningStore interface {
	Insert(ctx context.Context, records ...model.NewScreening) ([]model.Screening, error)
	GetByID(ctx context.Context, id uint64) (*model.Screening, error)
	GetAll(ctx context.Context) ([]model.Screening, error)
	DeleteByID(ctx context.Context, id uint64) (*model.Screening, error)
}

// RoleLookup resolves a user id to its role. ok is false for unknown users.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID uint64) (role model.Role, ok bool, err error)
}

// MovieLookup checks movie existence.
type MovieLookup interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

// EventPublisher announces screening lifecycle changes to other services.
type EventPublisher interface {
	ScreeningCreated(ctx context.Context, s model.Screening) error
	ScreeningDeleted(ctx context.Context, s model.Screening) error
}

// CacheInvalidator drops cached screening responses.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ListPolicy decides how an empty screening list is reported.
type ListPolicy int

const (
	// EmptyListNotFound reports an empty list as NotFound.
	EmptyListNotFound ListPolicy = iota
	// EmptyListOK returns an empty list as a normal result.
	EmptyListOK
)

// Options configures optional collaborators. Zero values are usable.
type Options struct {
	ListPolicy ListPolicy
	Ledger     SeatLedger // defaults to FullyBookedLedger
	Publisher  EventPublisher
	Cache      CacheInvalidator
	Logger     *zap.Logger
	Now        func() time.Time
}

// ScreeningService is the screening lifecycle.
type ScreeningService interface {
	// Create validates and stores a screening on behalf of the principal in ctx.
	Create(ctx context.Context, payload any) ([]model.Screening, error)
	List(ctx context.Context) ([]model.Screening, error)
	Get(ctx context.Context, rawID any) (model.Screening, error)
	// Delete removes a screening on behalf of the principal in ctx.
	Delete(ctx context.Context, rawID any) (model.Screening, error)
}

type screeningService struct {
	store  ScreeningStore
	roles  RoleLookup
	movies MovieLookup
	opts   Options
	log    *zap.Logger

	create Pipeline
	remove Pipeline
}

// request is the state threaded through a pipeline run.
type request struct {
	principal   auth.Principal
	hasAuth     bool
	userID      uint64
	payload     any
	input       model.NewScreening
	rawID       any
	screeningID uint64
	screening   model.Screening
	result      []model.Screening
}

// NewScreeningService wires the lifecycle over its gateways.
func NewScreeningService(store ScreeningStore, roles RoleLookup, movies MovieLookup, opts Options) ScreeningService {
	if opts.Ledger == nil {
		opts.Ledger = FullyBookedLedger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &screeningService{store: store, roles: roles, movies: movies, opts: opts, log: log.Named("screening")}
	s.create = Pipeline{
		{CheckCredentials, s.requireCredentials},
		{CheckIdentity, s.resolveIdentity},
		{CheckAdminRole, s.requireAdmin},
		{CheckPayload, s.parsePayload},
		{CheckFutureDate, s.requireFutureDate},
		{CheckMovieExists, s.requireMovie},
		{CheckPersist, s.persist},
	}
	s.remove = Pipeline{
		{CheckCredentials, s.requireCredentials},
		{CheckIdentity, s.resolveIdentity},
		{CheckScreeningID, s.parseScreeningID},
		{CheckFreeSeats, s.requireNoFreeSeats},
		{CheckAdminRole, s.requireAdmin},
		{CheckDelete, s.deleteScreening},
	}
	return s
}

// CreateChecks and DeleteChecks expose the check order of a service built
// by NewScreeningService.
func CreateChecks(svc ScreeningService) []string { return svc.(*screeningService).create.Names() }
func DeleteChecks(svc ScreeningService) []string { return svc.(*screeningService).remove.Names() }

func newRequest(ctx context.Context) *request {
	p, ok := auth.FromContext(ctx)
	return &request{principal: p, hasAuth: ok && p.Credential != ""}
}

func (s *screeningService) Create(ctx context.Context, payload any) ([]model.Screening, error) {
	r := newRequest(ctx)
	r.payload = payload
	if err := s.create.Run(ctx, r); err != nil {
		return nil, err
	}
	for _, created := range r.result {
		s.log.Info("screening created",
			zap.Uint64("screening_id", created.ID),
			zap.Uint64("movie_id", created.MovieID),
			zap.Uint64("user_id", r.userID),
			zap.Bool("verified", r.principal.Verified))
		s.publish(ctx, created, true)
	}
	s.invalidate(ctx)
	return r.result, nil
}

func (s *screeningService) List(ctx context.Context) ([]model.Screening, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 && s.opts.ListPolicy == EmptyListNotFound {
		return nil, apperror.NotFound(msgScreeningsNotFound)
	}
	if all == nil {
		all = []model.Screening{}
	}
	return all, nil
}

func (s *screeningService) Get(ctx context.Context, rawID any) (model.Screening, error) {
	id, err := schema.ParseID(rawID)
	if err != nil {
		return model.Screening{}, err
	}
	found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Screening{}, err
	}
	if found == nil {
		return model.Screening{}, apperror.NotFound(msgScreeningNotFound)
	}
	return *found, nil
}

func (s *screeningService) Delete(ctx context.Context, rawID any) (model.Screening, error) {
	r := newRequest(ctx)
	r.rawID = rawID
	if err := s.remove.Run(ctx, r); err != nil {
		return model.Screening{}, err
	}
	deleted := r.result[0]
	s.log.Info("screening deleted",
		zap.Uint64("screening_id", deleted.ID),
		zap.Uint64("user_id", r.userID))
	s.publish(ctx, deleted, false)
	s.invalidate(ctx)
	return deleted, nil
}

// ---- checks ----

func (s *screeningService) requireCredentials(_ context.Context, r *request) error {
	if !r.hasAuth {
		return apperror.AuthRequired(msgAuthMissing)
	}
	return nil
}

func (s *screeningService) resolveIdentity(_ context.Context, r *request) error {
	id, err := r.principal.UserID()
	if err != nil {
		return apperror.AuthRequired(msgUserMissing)
	}
	r.userID = id
	return nil
}

func (s *screeningService) requireAdmin(ctx context.Context, r *request) error {
	role, ok, err := s.roles.RoleOf(ctx, r.userID)
	if err != nil {
		return err
	}
	if !ok || role != model.RoleAdmin {
		return apperror.Forbidden(msgNotAdmin)
	}
	return nil
}

func (s *screeningService) parsePayload(_ context.Context, r *request) error {
	in, err := schema.ParseInsertable(r.payload)
	if err != nil {
		return err
	}
	r.input = in
	return nil
}

func (s *screeningService) requireFutureDate(_ context.Context, r *request) error {
	// Dates are calendar days at midnight UTC; today is already too late.
	day, err := time.Parse(schema.DateLayout, r.input.Date)
	if err != nil || !day.After(s.opts.Now()) {
		return apperror.BadRequest(msgDateNotFuture)
	}
	return nil
}

func (s *screeningService) requireMovie(ctx context.Context, r *request) error {
	ok, err := s.movies.Exists(ctx, r.input.MovieID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.BadRequest(msgMovieMissing)
	}
	return nil
}

func (s *screeningService) persist(ctx context.Context, r *request) error {
	created, err := s.store.Insert(ctx, r.input)
	if err != nil {
		return err
	}
	r.result = created
	return nil
}

func (s *screeningService) parseScreeningID(_ context.Context, r *request) error {
	id, err := schema.ParseID(r.rawID)
	if err != nil {
		return err
	}
	r.screeningID = id
	return nil
}

func (s *screeningService) requireNoFreeSeats(ctx context.Context, r *request) error {
	found, err := s.store.GetByID(ctx, r.screeningID)
	if err != nil {
		return err
	}
	if found == nil {
		return apperror.NotFound(msgScreeningNotFound)
	}
	r.screening = *found
	booked, err := s.opts.Ledger.BookedSeats(ctx, *found)
	if err != nil {
		return err
	}
	free := found.Capacity - booked
	if free > 0 {
		return apperror.Unprocessable(msgFreeSeats)
	}
	if free < 0 {
		s.log.Warn("screening overbooked",
			zap.Uint64("screening_id", found.ID),
			zap.Int("capacity", found.Capacity),
			zap.Int("booked", booked))
	}
	return nil
}

func (s *screeningService) deleteScreening(ctx context.Context, r *request) error {
	deleted, err := s.store.DeleteByID(ctx, r.screeningID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return apperror.NotFound(msgScreeningNotFound)
	}
	r.result = []model.Screening{*deleted}
	return nil
}

// ---- side effects ----

func (s *screeningService) publish(ctx context.Context, sc model.Screening, created bool) {
	if s.opts.Publisher == nil {
		return
	}
	var err error
	if created {
		err = s.opts.Publisher.ScreeningCreated(ctx, sc)
	} else {
		err = s.opts.Publisher.ScreeningDeleted(ctx, sc)
	}
	if err != nil {
		s.log.Warn("publish screening event failed", zap.Uint64("screening_id", sc.ID), zap.Error(err))
	}
}

func (s *screeningService) invalidate(ctx context.Context) {
	if s.opts.Cache == nil {
		return
	}
	if err := s.opts.Cache.Invalidate(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("invalidate screening cache failed", zap.Error(err))
	}
}
