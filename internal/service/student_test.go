package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

type fakeStudentRepo struct {
	students map[uint]domain.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uint]domain.Student)}
}

func (r *fakeStudentRepo) Create(_ context.Context, student domain.Student) (domain.Student, error) {
	if _, ok := r.students[student.ID]; ok {
		return domain.Student{}, repository.ErrStudentIDExists
	}
	for _, s := range r.students {
		if s.NationalID == student.NationalID {
			return domain.Student{}, repository.ErrStudentNationalIDExists
		}
	}

	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	if student.VotedIn == nil {
		student.VotedIn = []uint{}
	}
	r.students[student.ID] = student

	return student, nil
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id uint) (domain.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) FindByNationalID(_ context.Context, nationalID string) (domain.Student, error) {
	for _, s := range r.students {
		if s.NationalID == nationalID {
			return s, nil
		}
	}
	return domain.Student{}, repository.ErrStudentNotFound
}

func (r *fakeStudentRepo) FindAll(_ context.Context) ([]domain.Student, error) {
	all := make([]domain.Student, 0, len(r.students))
	for _, s := range r.students {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *fakeStudentRepo) FindByClassroom(ctx context.Context, classroom string) ([]domain.Student, error) {
	all, _ := r.FindAll(ctx)
	out := make([]domain.Student, 0)
	for _, s := range all {
		if s.Classroom == classroom {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) FindByVotingApproved(ctx context.Context, approved bool) ([]domain.Student, error) {
	all, _ := r.FindAll(ctx)
	out := make([]domain.Student, 0)
	for _, s := range all {
		if s.VotingApproved == approved {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student domain.Student) (domain.Student, error) {
	student.UpdatedAt = time.Now()
	r.students[student.ID] = student
	return student, nil
}

func (r *fakeStudentRepo) UpdateVotingByClassroom(_ context.Context, classroom string, approved bool, approvedAt *time.Time, approvedBy string) (int, error) {
	count := 0
	for id, s := range r.students {
		if s.Classroom != classroom {
			continue
		}
		s.VotingApproved = approved
		s.VotingApprovedAt = approvedAt
		s.VotingApprovedBy = approvedBy
		r.students[id] = s
		count++
	}
	return count, nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id uint) (bool, error) {
	if _, ok := r.students[id]; !ok {
		return false, nil
	}
	delete(r.students, id)
	return true, nil
}

func (r *fakeStudentRepo) DeleteAll(_ context.Context) error {
	r.students = make(map[uint]domain.Student)
	return nil
}

func seedStudent(id uint, nationalID, classroom string) domain.Student {
	return domain.Student{
		ID:          id,
		ClassNumber: int(id),
		Name:        "Ada",
		Surname:     "Lovelace",
		Classroom:   classroom,
		NationalID:  nationalID,
	}
}

func TestStudentService_AddStudent(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	created, err := svc.AddStudent(ctx, domain.Student{
		ID:         100,
		Name:       "Ada",
		Surname:    "Lovelace",
		Classroom:  "3/1",
		NationalID: "10000000001",
		// Whatever the caller claims, new students start unapproved.
		VotingApproved:   true,
		VotingApprovedBy: "nobody",
	})
	require.NoError(t, err)
	assert.False(t, created.VotingApproved)
	assert.Nil(t, created.VotingApprovedAt)
	assert.Empty(t, created.VotingApprovedBy)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = svc.AddStudent(ctx, seedStudent(100, "10000000002", "3/1"))
	assert.ErrorIs(t, err, ErrStudentIDExists)

	_, err = svc.AddStudent(ctx, seedStudent(101, "10000000001", "3/1"))
	assert.ErrorIs(t, err, ErrStudentNationalIDExists)

	all, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStudentService_UpdateStudent(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, seedStudent(1, "n-1", "3/1"))
	require.NoError(t, err)
	_, err = svc.AddStudent(ctx, seedStudent(2, "n-2", "3/1"))
	require.NoError(t, err)

	name := "Grace"
	updated, err := svc.UpdateStudent(ctx, 1, domain.StudentUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.Name)
	assert.Equal(t, "Lovelace", updated.Surname)

	// Re-submitting the unchanged national id is not a conflict.
	same := "n-1"
	_, err = svc.UpdateStudent(ctx, 1, domain.StudentUpdate{NationalID: &same})
	require.NoError(t, err)

	// Taking another student's national id is.
	taken := "n-2"
	_, err = svc.UpdateStudent(ctx, 1, domain.StudentUpdate{NationalID: &taken})
	assert.ErrorIs(t, err, ErrStudentNationalIDExists)

	_, err = svc.UpdateStudent(ctx, 999, domain.StudentUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentService_DeleteStudent(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, seedStudent(1, "n-1", "3/1"))
	require.NoError(t, err)

	removed, err := svc.DeleteStudent(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteStudent(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStudentService_ApproveAndRevoke(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, seedStudent(1, "n-1", "3/1"))
	require.NoError(t, err)

	approved, err := svc.ApproveVotingRight(ctx, 1, "Principal Skinner")
	require.NoError(t, err)
	assert.True(t, approved.VotingApproved)
	require.NotNil(t, approved.VotingApprovedAt)
	assert.Equal(t, "Principal Skinner", approved.VotingApprovedBy)

	revoked, err := svc.RevokeVotingRight(ctx, 1)
	require.NoError(t, err)
	assert.False(t, revoked.VotingApproved)
	assert.Nil(t, revoked.VotingApprovedAt)
	assert.Empty(t, revoked.VotingApprovedBy)

	_, err = svc.ApproveVotingRight(ctx, 42, "Principal Skinner")
	assert.ErrorIs(t, err, ErrStudentNotFound)
	_, err = svc.RevokeVotingRight(ctx, 42)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentService_BulkVotingRights(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, seedStudent(1, "n-1", "3/1"))
	require.NoError(t, err)
	_, err = svc.AddStudent(ctx, seedStudent(2, "n-2", "3/1"))
	require.NoError(t, err)
	_, err = svc.AddStudent(ctx, seedStudent(3, "n-3", "3/2"))
	require.NoError(t, err)

	count, err := svc.BulkApproveVotingRights(ctx, "3/1", "Principal")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	other, err := svc.GetStudent(ctx, 3)
	require.NoError(t, err)
	assert.False(t, other.VotingApproved)

	count, err = svc.BulkApproveVotingRights(ctx, "5/5", "Principal")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.BulkRevokeVotingRights(ctx, "3/1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	approvedList, err := svc.GetStudentsByVotingStatus(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, approvedList)
}

func TestStudentService_ImportStudents(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	// A row missing its name is skipped, nothing imported.
	result, err := svc.ImportStudents(ctx, []domain.StudentImportRow{
		{ID: 1, Surname: "NoName", Classroom: "3/1", NationalID: "n-1"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "missing name", result.Errors[0].Reason)

	result, err = svc.ImportStudents(ctx, []domain.StudentImportRow{
		{ID: 1, Name: "Ada", Surname: "Lovelace", Classroom: "3/1", NationalID: "n-1"},
		{ID: 2, Name: "Alan", Surname: "Turing", Classroom: "3/2", NationalID: "n-2"},
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)

	// Same id again without overwrite: the original survives.
	result, err = svc.ImportStudents(ctx, []domain.StudentImportRow{
		{ID: 1, Name: "Imposter", Surname: "Unknown", Classroom: "9/9", NationalID: "n-1"},
	}, false)
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	kept, err := svc.GetStudent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", kept.Name)

	// With overwrite the roster fields update, voting fields survive.
	_, err = svc.ApproveVotingRight(ctx, 1, "Principal")
	require.NoError(t, err)

	result, err = svc.ImportStudents(ctx, []domain.StudentImportRow{
		{ID: 1, Name: "Augusta", Surname: "King", Classroom: "4/1", NationalID: "n-1"},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	overwritten, err := svc.GetStudent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", overwritten.Name)
	assert.Equal(t, "4/1", overwritten.Classroom)
	assert.True(t, overwritten.VotingApproved)
	assert.Equal(t, "Principal", overwritten.VotingApprovedBy)
}

func TestStudentService_QueriesAndStats(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	for _, s := range []domain.Student{
		seedStudent(1, "n-1", "3/2"),
		seedStudent(2, "n-2", "3/1"),
		seedStudent(3, "n-3", "3/1"),
		seedStudent(4, "n-4", "4/1"),
	} {
		_, err := svc.AddStudent(ctx, s)
		require.NoError(t, err)
	}
	_, err := svc.ApproveVotingRight(ctx, 2, "Principal")
	require.NoError(t, err)

	classrooms, err := svc.GetUniqueClassrooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3/1", "3/2", "4/1"}, classrooms)

	stats, err := svc.GetStudentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, domain.ClassroomStats{Total: 2, Approved: 1}, stats.ByClassroom["3/1"])
	assert.Equal(t, domain.ClassroomStats{Total: 1, Approved: 0}, stats.ByClassroom["3/2"])

	byClass, err := svc.GetStudentsByClassroom(ctx, "3/1")
	require.NoError(t, err)
	assert.Len(t, byClass, 2)
}

func TestStudentService_ObserversRunSynchronously(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	var seen [][]domain.Student
	unsubscribe := svc.Subscribe(func(students []domain.Student) {
		seen = append(seen, students)
	})

	_, err := svc.AddStudent(ctx, seedStudent(1, "n-1", "3/1"))
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Len(t, seen[0], 1)

	// A failed mutation does not notify.
	_, err = svc.AddStudent(ctx, seedStudent(1, "n-x", "3/1"))
	require.Error(t, err)
	assert.Len(t, seen, 1)

	unsubscribe()
	_, err = svc.AddStudent(ctx, seedStudent(2, "n-2", "3/1"))
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestStudentService_ResetStudentData(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo())
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, seedStudent(1, "n-1", "3/1"))
	require.NoError(t, err)

	require.NoError(t, svc.ResetStudentData(ctx))

	all, err := svc.GetAllStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
