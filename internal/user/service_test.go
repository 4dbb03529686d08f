// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/beanscore/internal/core"
	"github.com/carterperez-dev/beanscore/internal/middleware"
)

var errInjected = errors.New("injected failure")

// store backs both the user repository and the place remover so a test
// transaction can snapshot and restore them together.
type store struct {
	users      map[string]User
	placeOwner map[string]string

	failUserDelete  bool
	failPlaceDelete bool
}

func newStore() *store {
	return &store{
		users:      make(map[string]User),
		placeOwner: make(map[string]string),
	}
}

type memUserRepo struct{ s *store }

func (r memUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.s.users[id] = u
	return nil
}

func (r memUserRepo) Delete(_ context.Context, id string) error {
	if r.s.failUserDelete {
		return errInjected
	}
	if _, ok := r.s.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r memUserRepo) WithTx(core.DBTX) Repository { return r }

type memPlaceRemover struct{ s *store }

func (p memPlaceRemover) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for id, owner := range p.s.placeOwner {
		if owner == ownerID {
			delete(p.s.placeOwner, id)
			n++
		}
	}
	if p.s.failPlaceDelete {
		return 0, errInjected
	}
	return n, nil
}

// snapshotTx restores the store when fn fails, like a rolled back
// database transaction.
type snapshotTx struct{ s *store }

func (t snapshotTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	users := maps.Clone(t.s.users)
	places := maps.Clone(t.s.placeOwner)

	if err := fn(nil); err != nil {
		t.s.users = users
		t.s.placeOwner = places
		return err
	}
	return nil
}

func newTestService(s *store) *Service {
	return NewService(memUserRepo{s}, snapshotTx{s}, func(core.DBTX) PlaceRemover {
		return memPlaceRemover{s}
	})
}

func seedUser(t *testing.T, svc *Service, email string) string {
	t.Helper()

	info, err := svc.Create(context.Background(), email, "hash", "Tester")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return info.ID
}

func TestDeleteAccount_RemovesUserAndPlaces(t *testing.T) {
	s := newStore()
	svc := newTestService(s)
	ctx := context.Background()

	victim := seedUser(t, svc, "victim@example.com")
	bystander := seedUser(t, svc, "bystander@example.com")

	s.placeOwner["p1"] = victim
	s.placeOwner["p2"] = victim
	s.placeOwner["p3"] = victim
	s.placeOwner["p4"] = bystander

	if err := svc.DeleteAccount(ctx, victim); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := svc.GetByID(ctx, victim); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
	if len(s.placeOwner) != 1 || s.placeOwner["p4"] != bystander {
		t.Errorf("remaining places = %v, want only the bystander's", s.placeOwner)
	}

	if err := svc.DeleteAccount(ctx, victim); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second DeleteAccount = %v, want ErrNotFound", err)
	}
}

func TestDeleteAccount_RollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		inject func(*store)
	}{
		{"user delete fails", func(s *store) { s.failUserDelete = true }},
		{"place delete fails", func(s *store) { s.failPlaceDelete = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			svc := newTestService(s)
			ctx := context.Background()

			id := seedUser(t, svc, "carol@example.com")
			s.placeOwner["p1"] = id
			s.placeOwner["p2"] = id
			tt.inject(s)

			err := svc.DeleteAccount(ctx, id)
			if !errors.Is(err, errInjected) {
				t.Fatalf("error = %v, want injected failure", err)
			}

			if _, err := svc.GetByID(ctx, id); err != nil {
				t.Errorf("user missing after rollback: %v", err)
			}
			if len(s.placeOwner) != 2 {
				t.Errorf("places after rollback = %d, want 2", len(s.placeOwner))
			}
		})
	}
}

func TestDeleteAccount_RequiresUser(t *testing.T) {
	svc := newTestService(newStore())

	if err := svc.DeleteAccount(context.Background(), ""); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestService_NormalizesEmail(t *testing.T) {
	s := newStore()
	svc := newTestService(s)
	ctx := context.Background()

	seedUser(t, svc, "  Mixed.Case@Example.COM ")

	exists, err := svc.EmailExists(ctx, "mixed.case@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists = %v, %v", exists, err)
	}

	info, err := svc.GetByEmail(ctx, "MIXED.case@example.com  ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if info.Email != "mixed.case@example.com" {
		t.Errorf("stored email = %q", info.Email)
	}
}

func TestHandler_DeleteMe(t *testing.T) {
	s := newStore()
	svc := newTestService(s)
	id := seedUser(t, svc, "dana@example.com")
	s.placeOwner["p1"] = id

	authenticate := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: id,
				Role:   "user",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, authenticate)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/user", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(s.placeOwner) != 0 {
		t.Error("places survived account deletion")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/user", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
