package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/godilite/cocina-grades/internal/repository/models"
	"github.com/godilite/cocina-grades/internal/service/mocks"
)

func TestNewRosterService(t *testing.T) {
	t.Run("nil store panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRosterService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), nil)
		assert.NotNil(t, svc.logger)
	})
}

func TestStudents(t *testing.T) {
	ctx := context.Background()

	t.Run("add trims and activates", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())

		st, err := svc.AddStudent(ctx, models.Student{NRE: " 1001 ", Name: " Ana ", Surname: "García"})
		require.NoError(t, err)
		assert.Equal(t, "1001", st.NRE)
		assert.Equal(t, "Ana", st.Name)
		assert.True(t, st.Active)
	})

	t.Run("duplicate active student", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Ana"})
		require.NoError(t, err)

		_, err = svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Otra"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("missing name", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "1001"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("remove is soft and re-adding reactivates", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		removedAt := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return removedAt }

		_, err := svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Ana"})
		require.NoError(t, err)
		require.NoError(t, svc.RemoveStudent(ctx, "1001"))

		st, err := svc.GetStudent(ctx, "1001")
		require.NoError(t, err)
		assert.False(t, st.Active)
		require.NotNil(t, st.RemovedAt)
		assert.True(t, removedAt.Equal(*st.RemovedAt))

		active, err := svc.ListStudents(ctx, false)
		require.NoError(t, err)
		assert.Empty(t, active)
		all, err := svc.ListStudents(ctx, true)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		st, err = svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Ana"})
		require.NoError(t, err)
		assert.True(t, st.Active)
		assert.Nil(t, st.RemovedAt)
	})

	t.Run("remove unknown student", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		assert.ErrorIs(t, svc.RemoveStudent(ctx, "9999"), ErrNotFound)
	})

	t.Run("update keeps the active flag", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Ana"})
		require.NoError(t, err)

		st, err := svc.UpdateStudent(ctx, models.Student{NRE: "1001", Name: "Ana María", Surname: "Ruiz"})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", st.Name)
		assert.True(t, st.Active)
	})

	t.Run("list sorts by surname then name", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		for _, st := range []models.Student{
			{NRE: "3", Name: "Pedro", Surname: "Ruiz"},
			{NRE: "1", Name: "Marta", Surname: "López"},
			{NRE: "2", Name: "Ana", Surname: "López"},
		} {
			_, err := svc.AddStudent(ctx, st)
			require.NoError(t, err)
		}

		list, err := svc.ListStudents(ctx, false)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"2", "1", "3"}, []string{list[0].NRE, list[1].NRE, list[2].NRE})
	})
}

func TestAssignGroup(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
	_, err := svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, svc.AssignGroup(ctx, "1001", "P1"))
	groups, err := svc.GroupAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1001": "P1"}, groups)

	require.NoError(t, svc.AssignGroup(ctx, "1001", ""))
	groups, err = svc.GroupAssignments(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	assert.ErrorIs(t, svc.AssignGroup(ctx, "9999", "P1"), ErrNotFound)

	require.NoError(t, svc.RemoveStudent(ctx, "1001"))
	assert.ErrorIs(t, svc.AssignGroup(ctx, "1001", "P2"), ErrInvalidInput)
}

func TestStudentGroupFollowsAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("add with group assigns it", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		st, err := svc.AddStudent(ctx, models.Student{NRE: "7", Name: "Eva", Group: " A "})
		require.NoError(t, err)
		assert.Equal(t, "A", st.Group)

		groups, err := svc.GroupAssignments(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"7": "A"}, groups)

		got, err := svc.GetStudent(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "A", got.Group)
	})

	t.Run("update regroups and empty group clears", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "7", Name: "Eva", Group: "A"})
		require.NoError(t, err)

		st, err := svc.UpdateStudent(ctx, models.Student{NRE: "7", Name: "Eva", Group: "B"})
		require.NoError(t, err)
		assert.Equal(t, "B", st.Group)
		list, err := svc.ListStudents(ctx, false)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "B", list[0].Group)

		_, err = svc.UpdateStudent(ctx, models.Student{NRE: "7", Name: "Eva"})
		require.NoError(t, err)
		groups, err := svc.GroupAssignments(ctx)
		require.NoError(t, err)
		assert.Empty(t, groups)
	})

	t.Run("assignment shows up on read", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "7", Name: "Eva"})
		require.NoError(t, err)
		require.NoError(t, svc.AssignGroup(ctx, "7", "P2"))

		st, err := svc.GetStudent(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "P2", st.Group)
	})

	t.Run("removed student cannot be regrouped", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "7", Name: "Eva", Group: "A"})
		require.NoError(t, err)
		require.NoError(t, svc.RemoveStudent(ctx, "7"))

		_, err = svc.UpdateStudent(ctx, models.Student{NRE: "7", Name: "Eva", Group: "B"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("group is not stored on the student document", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewRosterService(store, zap.NewNop())
		_, err := svc.AddStudent(ctx, models.Student{NRE: "7", Name: "Eva", Group: "A"})
		require.NoError(t, err)

		docs, err := store.List(ctx, models.CollectionStudents)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.NotContains(t, string(docs[0].Body), `"group"`)
	})
}

func TestServices(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns an id", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		created, err := svc.CreateService(ctx, models.Service{Name: "Menú degustación", Trimester: 2})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("invalid trimester", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.CreateService(ctx, models.Service{Name: "X", Trimester: 4})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "trimestre")
	})

	t.Run("duplicate id", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.CreateService(ctx, models.Service{ID: "A", Name: "X", Trimester: 1})
		require.NoError(t, err)
		_, err = svc.CreateService(ctx, models.Service{ID: "A", Name: "Y", Trimester: 1})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("trimester cannot change", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.CreateService(ctx, models.Service{ID: "A", Name: "X", Trimester: 1})
		require.NoError(t, err)

		_, err = svc.UpdateService(ctx, models.Service{ID: "A", Name: "X", Trimester: 2})
		assert.ErrorIs(t, err, ErrInvalidInput)

		updated, err := svc.UpdateService(ctx, models.Service{ID: "A", Name: "Renamed", Trimester: 1})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("list filters by trimester and sorts by date", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		day := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
		for _, s := range []models.Service{
			{ID: "late", Name: "L", Trimester: 1, Date: day.AddDate(0, 1, 0)},
			{ID: "early", Name: "E", Trimester: 1, Date: day},
			{ID: "other", Name: "O", Trimester: 2, Date: day},
		} {
			_, err := svc.CreateService(ctx, s)
			require.NoError(t, err)
		}

		list, err := svc.ListServices(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "early", list[0].ID)
		assert.Equal(t, "late", list[1].ID)

		all, err := svc.ListServices(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("remove", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.CreateService(ctx, models.Service{ID: "A", Name: "X", Trimester: 1})
		require.NoError(t, err)

		require.NoError(t, svc.RemoveService(ctx, "A"))
		_, err = svc.GetService(ctx, "A")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, svc.RemoveService(ctx, "A"), ErrNotFound)
	})
}

func TestPlanRoles(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
	_, err := svc.AddStudent(ctx, models.Student{NRE: "1001", Name: "Ana"})
	require.NoError(t, err)
	_, err = svc.AddStudent(ctx, models.Student{NRE: "1002", Name: "Luis"})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, models.Service{ID: "A", Name: "X", Trimester: 1})
	require.NoError(t, err)

	planned, err := svc.PlanRoles(ctx, "A", map[string]string{"1001": "cuarto frío", "1002": " "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1001": "cuarto frío"}, planned.Roles)

	updated, err := svc.UpdateService(ctx, models.Service{ID: "A", Name: "Y", Trimester: 1})
	require.NoError(t, err)
	assert.Equal(t, planned.Roles, updated.Roles)

	_, err = svc.PlanRoles(ctx, "A", map[string]string{"9999": "pastelería"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.PlanRoles(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		s, err := svc.Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, s.TrimesterCount)
	})

	t.Run("save and load", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.SaveSettings(ctx, models.AppSettings{TeacherName: "Chef", TrimesterCount: 2})
		require.NoError(t, err)

		s, err := svc.Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Chef", s.TeacherName)
		assert.Equal(t, 2, s.TrimesterCount)
	})

	t.Run("invalid trimester count", func(t *testing.T) {
		svc := NewRosterService(mocks.NewMemoryStore(), zap.NewNop())
		_, err := svc.SaveSettings(ctx, models.AppSettings{TrimesterCount: 4})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("storage failure", func(t *testing.T) {
		store := &mocks.MockDocumentStore{
			GetFunc: func(ctx context.Context, collection, id string, dest any) error {
				return errors.New("database is locked")
			},
		}
		svc := NewRosterService(store, zap.NewNop())
		_, err := svc.Settings(ctx)
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}
