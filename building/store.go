/*
store.go - The Domain Store: owner of every building collection

PURPOSE:
  One explicit Store object is constructed at process start and passed by
  reference to every consumer (API handlers, CLI). There is no global.
  Consumers read copies; only the mutation methods below change state.

MUTATIONS:
  Floors:        MoveIn, MoveOut, UpdateTerms
  Viewings:      ReserveViewing, ApproveViewing, CompleteViewing,
                 CancelViewing, DeleteViewing (dev-only control)
  Tenant apps:   SubmitTenantApplication, ApproveTenantApplication,
                 RejectTenantApplication
  Applications:  SubmitApplication, ApproveApplication, RejectApplication
  Admin:         Reset

  Every mutation appends an ActivityLog entry (DeleteViewing and Reset
  excepted) and then writes a full snapshot through the Persister.

PERSISTENCE:
  The Persister saves one JSON snapshot under SnapshotKey. Open() restores
  it at startup, so a reloaded store behaves exactly like a fresh one.
  Persistence is best effort: the in-memory change stays applied even if
  the write fails, and the error is returned wrapped.

CONCURRENCY:
  Uses sync.RWMutex. Derived views are computed from Snapshot() copies and
  never cached, so there is nothing to invalidate.

SEE ALSO:
  - store/memory.go: In-memory Persister
  - ../store/sqlite/sqlite.go: SQLite Persister
*/
package building

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SnapshotKey is the fixed key the store state is persisted under.
const SnapshotKey = "building-console-state"

// Persister stores and loads the snapshot.
// LoadSnapshot returns (nil, nil) when nothing was saved yet.
type Persister interface {
	SaveSnapshot(ctx context.Context, key string, snap Snapshot) error
	LoadSnapshot(ctx context.Context, key string) (*Snapshot, error)
}

// =============================================================================
// STORE
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	state     Snapshot
	seed      Snapshot
	persister Persister
	now       func() time.Time
	newID     func() string
}

type Option func(*Store)

func WithPersister(p Persister) Option { return func(s *Store) { s.persister = p } }

// WithClock sets the source of "today" for activity logs and created-at dates.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// NewStore creates a store holding only the initial floors.
func NewStore(b Building, floors []Floor, opts ...Option) *Store {
	seed := Snapshot{Version: SnapshotVersion, Building: b}
	for _, f := range floors {
		if f.BuildingID == "" {
			f.BuildingID = b.ID
		}
		seed.Floors = append(seed.Floors, normalizeFloor(f))
	}

	s := &Store{
		seed:  seed,
		state: cloneSnapshot(seed),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and restores the persisted snapshot, if any.
func Open(ctx context.Context, b Building, floors []Floor, opts ...Option) (*Store, error) {
	s := NewStore(b, floors, opts...)
	if s.persister == nil {
		return s, nil
	}

	snap, err := s.persister.LoadSnapshot(ctx, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	// Snapshots written by another layout are ignored; the store reseeds.
	if snap != nil && snap.Version == SnapshotVersion {
		s.Restore(*snap)
	}
	return s, nil
}

// Restore replaces the whole state. Used at startup and by demo scenarios.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap = cloneSnapshot(snap)
	snap.Version = SnapshotVersion
	for i := range snap.Floors {
		snap.Floors[i] = normalizeFloor(snap.Floors[i])
	}
	s.state = snap
}

// Save writes the current state through the persister.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx)
}

// Resetter is implemented by persisters that can drop every stored snapshot.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Reset discards everything but the initial floors. A persister that
// implements Resetter is cleared before the seed is written back.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = cloneSnapshot(s.seed)
	if r, ok := s.persister.(Resetter); ok {
		if err := r.Reset(ctx); err != nil {
			return fmt.Errorf("reset persister: %w", err)
		}
	}
	return s.persistLocked(ctx)
}

// Today is the store clock's current calendar day.
func (s *Store) Today() Date { return DateOf(s.now()) }

// =============================================================================
// READS - Always copies
// =============================================================================

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.state)
}

func (s *Store) Building() Building {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Building
}

func (s *Store) Floors() []Floor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFloors(s.state.Floors)
}

func (s *Store) Floor(number int) (Floor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := floorIndex(&s.state, number); i >= 0 {
		return s.state.Floors[i].clone(), true
	}
	return Floor{}, false
}

func (s *Store) Reservations() []ViewingReservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ViewingReservation(nil), s.state.Reservations...)
}

func (s *Store) TenantApplications() []TenantApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTenantApplications(s.state.TenantApplications)
}

func (s *Store) Applications() []Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Application(nil), s.state.Applications...)
}

func (s *Store) ActivityLogs() []ActivityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ActivityLog(nil), s.state.ActivityLogs...)
}

// =============================================================================
// FLOOR MUTATIONS
// =============================================================================

type MoveInInput struct {
	TenantID      string
	TenantName    string
	Terms         *Terms
	ContractStart *Date
	ContractEnd   *Date
}

// MoveIn puts a tenant on a vacant floor.
func (s *Store) MoveIn(ctx context.Context, number int, in MoveInInput) (Floor, error) {
	var out Floor
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := floorIndex(st, number)
		if i < 0 {
			return fmt.Errorf("floor %d: %w", number, ErrFloorNotFound)
		}
		if strings.TrimSpace(in.TenantName) == "" {
			return fmt.Errorf("tenant name is required: %w", ErrInvalidInput)
		}
		if st.Floors[i].IsOccupied() {
			return fmt.Errorf("floor %d: %w", number, ErrFloorOccupied)
		}

		f := &st.Floors[i]
		f.Status = FloorOccupied
		f.TenantID = in.TenantID
		f.TenantName = in.TenantName
		f.Terms = clonePtr(in.Terms)
		f.ContractStartDate = clonePtr(in.ContractStart)
		f.ContractEndDate = clonePtr(in.ContractEnd)
		out = f.clone()

		s.appendLog(st, today, ActivityTenantMoveIn,
			fmt.Sprintf("%sに%sが入居しました", f.Label(), f.TenantName), in.TenantID)
		return nil
	})
	return out, err
}

// MoveOut clears the tenant and contract dates. Terms stay as the asking terms.
func (s *Store) MoveOut(ctx context.Context, number int) (Floor, error) {
	var out Floor
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := floorIndex(st, number)
		if i < 0 {
			return fmt.Errorf("floor %d: %w", number, ErrFloorNotFound)
		}
		if !st.Floors[i].IsOccupied() {
			return fmt.Errorf("floor %d: %w", number, ErrFloorVacant)
		}

		f := &st.Floors[i]
		tenantName, tenantID := f.TenantName, f.TenantID
		f.Status = FloorVacant
		f.TenantID = ""
		f.TenantName = ""
		f.ContractStartDate = nil
		f.ContractEndDate = nil
		out = f.clone()

		s.appendLog(st, today, ActivityTenantMoveOut,
			fmt.Sprintf("%sから%sが退去しました", f.Label(), tenantName), tenantID)
		return nil
	})
	return out, err
}

// UpdateTerms replaces the commercial terms of a floor, occupied or not.
func (s *Store) UpdateTerms(ctx context.Context, number int, terms Terms) (Floor, error) {
	var out Floor
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := floorIndex(st, number)
		if i < 0 {
			return fmt.Errorf("floor %d: %w", number, ErrFloorNotFound)
		}

		f := &st.Floors[i]
		f.Terms = &terms
		out = f.clone()

		s.appendLog(st, today, ActivityApplication,
			fmt.Sprintf("%sの契約条件を更新しました", f.Label()), "")
		return nil
	})
	return out, err
}

// =============================================================================
// VIEWING MUTATIONS
// =============================================================================

type ViewingInput struct {
	FloorNumber   int
	Date          Date
	TimeSlot      TimeSlot
	BrokerCompany string
	ClientName    string
	Notes         string
}

// ReserveViewing books a slot as pending. Double booking is not prevented;
// Availability reports it instead.
func (s *Store) ReserveViewing(ctx context.Context, in ViewingInput) (ViewingReservation, error) {
	var out ViewingReservation
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := floorIndex(st, in.FloorNumber)
		if i < 0 {
			return fmt.Errorf("floor %d: %w", in.FloorNumber, ErrFloorNotFound)
		}
		if st.Floors[i].IsOccupied() {
			return fmt.Errorf("floor %d: %w", in.FloorNumber, ErrFloorOccupied)
		}
		if in.Date.IsZero() || in.TimeSlot.Start == "" || strings.TrimSpace(in.BrokerCompany) == "" {
			return fmt.Errorf("date, time slot and broker company are required: %w", ErrInvalidInput)
		}

		out = ViewingReservation{
			ID:              s.newID(),
			FloorNumber:     in.FloorNumber,
			ReservationDate: in.Date,
			TimeSlot:        in.TimeSlot,
			Status:          ReservationPending,
			BrokerCompany:   in.BrokerCompany,
			ClientName:      in.ClientName,
			Notes:           in.Notes,
			CreatedAt:       today,
		}
		st.Reservations = append(st.Reservations, out)

		s.appendLog(st, today, ActivityViewing,
			fmt.Sprintf("%sが%s %s %sの内見を予約しました", in.BrokerCompany,
				FloorLabel(in.FloorNumber), in.Date, in.TimeSlot), out.ID)
		return nil
	})
	return out, err
}

func (s *Store) ApproveViewing(ctx context.Context, id string) (ViewingReservation, error) {
	return s.transitionViewing(ctx, id, ReservationApproved, "承認")
}

func (s *Store) CompleteViewing(ctx context.Context, id string) (ViewingReservation, error) {
	return s.transitionViewing(ctx, id, ReservationCompleted, "完了")
}

func (s *Store) CancelViewing(ctx context.Context, id string) (ViewingReservation, error) {
	return s.transitionViewing(ctx, id, ReservationCancelled, "キャンセル")
}

func (s *Store) transitionViewing(ctx context.Context, id string, next ReservationStatus, verb string) (ViewingReservation, error) {
	var out ViewingReservation
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := reservationIndex(st, id)
		if i < 0 {
			return fmt.Errorf("reservation %s: %w", id, ErrReservationNotFound)
		}
		r := &st.Reservations[i]
		if !r.Status.CanTransitionTo(next) {
			return &TransitionError{Entity: "reservation", ID: id, From: string(r.Status), To: string(next)}
		}

		r.Status = next
		out = *r

		s.appendLog(st, today, ActivityViewing,
			fmt.Sprintf("%s %s %sの内見を%sしました", FloorLabel(r.FloorNumber),
				r.ReservationDate, r.TimeSlot, verb), id)
		return nil
	})
	return out, err
}

// DeleteViewing physically removes a reservation. Dev-only; normal
// workflows cancel instead.
func (s *Store) DeleteViewing(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *Snapshot, _ Date) error {
		i := reservationIndex(st, id)
		if i < 0 {
			return fmt.Errorf("reservation %s: %w", id, ErrReservationNotFound)
		}
		st.Reservations = append(st.Reservations[:i:i], st.Reservations[i+1:]...)
		return nil
	})
}

// =============================================================================
// TENANT APPLICATION MUTATIONS
// =============================================================================

type TenantApplicationInput struct {
	FloorNumber       int
	BrokerCompany     string
	ApplicantName     string
	CompanyName       string
	GuarantorName     string
	DesiredMoveInDate *Date
	Documents         []string
}

func (s *Store) SubmitTenantApplication(ctx context.Context, in TenantApplicationInput) (TenantApplication, error) {
	var out TenantApplication
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		if floorIndex(st, in.FloorNumber) < 0 {
			return fmt.Errorf("floor %d: %w", in.FloorNumber, ErrFloorNotFound)
		}
		if strings.TrimSpace(in.CompanyName) == "" {
			return fmt.Errorf("company name is required: %w", ErrInvalidInput)
		}

		out = TenantApplication{
			ID:                s.newID(),
			FloorNumber:       in.FloorNumber,
			BrokerCompany:     in.BrokerCompany,
			ApplicantName:     in.ApplicantName,
			CompanyName:       in.CompanyName,
			GuarantorName:     in.GuarantorName,
			DesiredMoveInDate: clonePtr(in.DesiredMoveInDate),
			ApplicationDate:   today,
			Status:            TenantApplicationPending,
			Documents:         append([]string(nil), in.Documents...),
		}
		st.TenantApplications = append(st.TenantApplications, out.clone())

		s.appendLog(st, today, ActivityApplication,
			fmt.Sprintf("%sが%sの入居を申し込みました", in.CompanyName, FloorLabel(in.FloorNumber)), out.ID)
		return nil
	})
	return out, err
}

func (s *Store) ApproveTenantApplication(ctx context.Context, id string) (TenantApplication, error) {
	return s.decideTenantApplication(ctx, id, TenantApplicationApproved, "")
}

func (s *Store) RejectTenantApplication(ctx context.Context, id, reason string) (TenantApplication, error) {
	return s.decideTenantApplication(ctx, id, TenantApplicationRejected, reason)
}

func (s *Store) decideTenantApplication(ctx context.Context, id string, next TenantApplicationStatus, reason string) (TenantApplication, error) {
	var out TenantApplication
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := tenantApplicationIndex(st, id)
		if i < 0 {
			return fmt.Errorf("tenant application %s: %w", id, ErrApplicationNotFound)
		}
		a := &st.TenantApplications[i]
		if !a.IsPending() {
			return &TransitionError{Entity: "tenant application", ID: id, From: string(a.Status), To: string(next)}
		}

		a.Status = next
		a.RejectionReason = reason
		out = a.clone()

		verb := "承認"
		if next == TenantApplicationRejected {
			verb = "却下"
		}
		s.appendLog(st, today, ActivityApplication,
			fmt.Sprintf("%sの%s入居申込を%sしました", a.CompanyName, FloorLabel(a.FloorNumber), verb), id)
		return nil
	})
	return out, err
}

// =============================================================================
// GENERIC APPLICATION MUTATIONS
// =============================================================================

type ApplicationInput struct {
	Title     string
	Type      ApplicationType
	Applicant string
	Details   string
}

func (s *Store) SubmitApplication(ctx context.Context, in ApplicationInput) (Application, error) {
	var out Application
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		if strings.TrimSpace(in.Title) == "" || in.Type == "" {
			return fmt.Errorf("title and type are required: %w", ErrInvalidInput)
		}

		out = Application{
			ID:              s.newID(),
			Title:           in.Title,
			Type:            in.Type,
			Applicant:       in.Applicant,
			ApplicationDate: today,
			Status:          ApplicationPending,
			Details:         in.Details,
		}
		st.Applications = append(st.Applications, out)

		s.appendLog(st, today, activityFor(in.Type),
			fmt.Sprintf("%sが%s申請「%s」を提出しました", in.Applicant, in.Type.Label(), in.Title), out.ID)
		return nil
	})
	return out, err
}

func (s *Store) ApproveApplication(ctx context.Context, id string) (Application, error) {
	return s.decideApplication(ctx, id, ApplicationApproved)
}

func (s *Store) RejectApplication(ctx context.Context, id string) (Application, error) {
	return s.decideApplication(ctx, id, ApplicationRejected)
}

func (s *Store) decideApplication(ctx context.Context, id string, next ApplicationStatus) (Application, error) {
	var out Application
	err := s.mutate(ctx, func(st *Snapshot, today Date) error {
		i := applicationIndex(st, id)
		if i < 0 {
			return fmt.Errorf("application %s: %w", id, ErrApplicationNotFound)
		}
		a := &st.Applications[i]
		if !a.IsPending() {
			return &TransitionError{Entity: "application", ID: id, From: string(a.Status), To: string(next)}
		}

		a.Status = next
		out = *a

		verb := "承認"
		if next == ApplicationRejected {
			verb = "却下"
		}
		s.appendLog(st, today, activityFor(a.Type),
			fmt.Sprintf("%s申請「%s」を%sしました", a.Type.Label(), a.Title, verb), id)
		return nil
	})
	return out, err
}

func activityFor(t ApplicationType) ActivityType {
	if t == ApplicationMaintenance || t == ApplicationConstruction {
		return ActivityMaintenance
	}
	return ActivityApplication
}

// =============================================================================
// INTERNALS
// =============================================================================

// mutate runs fn under the write lock and persists on success.
// fn must validate before changing anything.
func (s *Store) mutate(ctx context.Context, fn func(st *Snapshot, today Date) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(&s.state, s.Today()); err != nil {
		return err
	}
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveSnapshot(ctx, SnapshotKey, cloneSnapshot(s.state)); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (s *Store) appendLog(st *Snapshot, today Date, typ ActivityType, description, relatedID string) {
	st.ActivityLogs = append(st.ActivityLogs, ActivityLog{
		ID:          s.newID(),
		Date:        today,
		Description: description,
		Type:        typ,
		RelatedID:   relatedID,
	})
}

// normalizeFloor restores the occupied-iff-tenant invariant.
func normalizeFloor(f Floor) Floor {
	if strings.TrimSpace(f.TenantName) != "" {
		f.Status = FloorOccupied
		return f
	}
	f.Status = FloorVacant
	f.TenantID = ""
	f.TenantName = ""
	f.ContractStartDate = nil
	f.ContractEndDate = nil
	return f
}

// cloneSnapshot copies every slice and pointee, so callers can never reach
// the store's own state.
func cloneSnapshot(s Snapshot) Snapshot {
	out := s
	out.Floors = cloneFloors(s.Floors)
	out.Reservations = append([]ViewingReservation(nil), s.Reservations...)
	out.TenantApplications = cloneTenantApplications(s.TenantApplications)
	out.Applications = append([]Application(nil), s.Applications...)
	out.ActivityLogs = append([]ActivityLog(nil), s.ActivityLogs...)
	return out
}

func cloneFloors(floors []Floor) []Floor {
	if floors == nil {
		return nil
	}
	out := make([]Floor, len(floors))
	for i, f := range floors {
		out[i] = f.clone()
	}
	return out
}

func cloneTenantApplications(apps []TenantApplication) []TenantApplication {
	if apps == nil {
		return nil
	}
	out := make([]TenantApplication, len(apps))
	for i, a := range apps {
		out[i] = a.clone()
	}
	return out
}

func (f Floor) clone() Floor {
	f.Terms = clonePtr(f.Terms)
	f.ContractStartDate = clonePtr(f.ContractStartDate)
	f.ContractEndDate = clonePtr(f.ContractEndDate)
	return f
}

func (a TenantApplication) clone() TenantApplication {
	a.DesiredMoveInDate = clonePtr(a.DesiredMoveInDate)
	if a.Documents != nil {
		a.Documents = append([]string(nil), a.Documents...)
	}
	return a
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func floorIndex(st *Snapshot, number int) int {
	for i := range st.Floors {
		if st.Floors[i].Number == number {
			return i
		}
	}
	return -1
}

func reservationIndex(st *Snapshot, id string) int {
	for i := range st.Reservations {
		if st.Reservations[i].ID == id {
			return i
		}
	}
	return -1
}

func tenantApplicationIndex(st *Snapshot, id string) int {
	for i := range st.TenantApplications {
		if st.TenantApplications[i].ID == id {
			return i
		}
	}
	return -1
}

func applicationIndex(st *Snapshot, id string) int {
	for i := range st.Applications {
		if st.Applications[i].ID == id {
			return i
		}
	}
	return -1
}
