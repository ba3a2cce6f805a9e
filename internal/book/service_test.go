package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"librarycatalog/internal/auth"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminSession  = auth.Session{UserID: "admin-1", Role: auth.RoleAdmin}
	memberSession = auth.Session{UserID: "member-1", Role: auth.RoleMember}
)

func newTestService(t *testing.T) (*Service, *MockRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := NewMockRepository(ctrl)
	return NewService(repo, nil, func() time.Time { return fixedNow }), repo
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filter is applied over store results", func(t *testing.T) {
		s, repo := newTestService(t)
		f := Filters{Search: "e", Category: "Science"}
		// The store may return a superset; the service narrows it.
		repo.EXPECT().List(gomock.Any(), f).Return(sampleRecords(), nil)

		got, err := s.List(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dune"}, titles(got))
	})

	t.Run("store error", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

		_, err := s.List(ctx, Filters{})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_ListAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.EXPECT().List(gomock.Any(), Filters{}).Return(sampleRecords(), nil)

		got, err := s.ListAdmin(ctx, adminSession, "0141")
		require.NoError(t, err)
		assert.Equal(t, []string{"Emma"}, titles(got))
	})

	t.Run("member forbidden", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.ListAdmin(ctx, memberSession, "")
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("anonymous unauthenticated", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.ListAdmin(ctx, auth.Anonymous, "")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success trims names", func(t *testing.T) {
		s, repo := newTestService(t)
		d := validDraft()
		d.Title = "  Dune  "

		want := validDraft()
		repo.EXPECT().Create(gomock.Any(), want).Return(Book{ID: "b-1", Title: "Dune", ISBN: want.ISBN}, nil)

		b, err := s.Create(ctx, adminSession, d)
		require.NoError(t, err)
		assert.Equal(t, "b-1", b.ID)
	})

	t.Run("invalid draft never reaches the store", func(t *testing.T) {
		s, _ := newTestService(t)
		d := validDraft()
		d.AvailableCopies = 4

		_, err := s.Create(ctx, adminSession, d)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("draft with id rejected", func(t *testing.T) {
		s, _ := newTestService(t)
		d := validDraft()
		d.ID = "b-9"

		_, err := s.Create(ctx, adminSession, d)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "id", verr.Field)
	})

	t.Run("member forbidden", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Create(ctx, memberSession, validDraft())
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(Book{}, ErrDuplicateISBN)

		_, err := s.Create(ctx, adminSession, validDraft())
		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	current := Book{
		ID: "b-1", Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593",
		Category: CategoryScience, PublishedYear: 1965, TotalCopies: 3, AvailableCopies: 2,
	}

	t.Run("success", func(t *testing.T) {
		s, repo := newTestService(t)
		d := DraftFrom(current)
		d.AvailableCopies = 3

		repo.EXPECT().GetByID(gomock.Any(), "b-1").Return(current, nil)
		repo.EXPECT().Update(gomock.Any(), "b-1", d).Return(Book{ID: "b-1", AvailableCopies: 3}, nil)

		b, err := s.Update(ctx, adminSession, "b-1", d)
		require.NoError(t, err)
		assert.Equal(t, 3, b.AvailableCopies)
	})

	t.Run("empty isbn keeps stored isbn", func(t *testing.T) {
		s, repo := newTestService(t)
		d := DraftFrom(current)
		d.ID = ""
		d.ISBN = ""

		repo.EXPECT().GetByID(gomock.Any(), "b-1").Return(current, nil)
		repo.EXPECT().Update(gomock.Any(), "b-1", DraftFrom(current)).Return(current, nil)

		_, err := s.Update(ctx, adminSession, "b-1", d)
		require.NoError(t, err)
	})

	t.Run("isbn cannot be changed", func(t *testing.T) {
		s, repo := newTestService(t)
		d := DraftFrom(current)
		d.ISBN = "9780141439587"

		repo.EXPECT().GetByID(gomock.Any(), "b-1").Return(current, nil)

		_, err := s.Update(ctx, adminSession, "b-1", d)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "ISBN cannot be changed", verr.Reason)
	})

	t.Run("not found", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), "missing").Return(Book{}, ErrNotFound)

		_, err := s.Update(ctx, adminSession, "missing", DraftFrom(current))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		s, repo := newTestService(t)
		d := DraftFrom(current)
		d.TotalCopies = 0
		d.AvailableCopies = 0

		repo.EXPECT().GetByID(gomock.Any(), "b-1").Return(current, nil)

		_, err := s.Update(ctx, adminSession, "b-1", d)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.EXPECT().Delete(gomock.Any(), "b-1").Return(nil)
		assert.NoError(t, s.Delete(ctx, adminSession, "b-1"))
	})

	t.Run("not found", func(t *testing.T) {
		s, repo := newTestService(t)
		repo.EXPECT().Delete(gomock.Any(), "b-1").Return(ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, adminSession, "b-1"), ErrNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		s, _ := newTestService(t)
		assert.ErrorIs(t, s.Delete(ctx, auth.Anonymous, "b-1"), auth.ErrUnauthenticated)
	})
}
