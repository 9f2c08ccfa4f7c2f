package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/repository"
)

type fakeAdminRepo struct {
	admins map[uint]domain.AdminAccount
	nextID uint
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[uint]domain.AdminAccount), nextID: 1}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin domain.AdminAccount) (domain.AdminAccount, error) {
	for _, a := range r.admins {
		if a.Username == admin.Username {
			return domain.AdminAccount{}, repository.ErrAdminUsernameExists
		}
	}
	admin.ID = r.nextID
	r.nextID++
	r.admins[admin.ID] = admin
	return admin, nil
}

func (r *fakeAdminRepo) FindByID(_ context.Context, id uint) (domain.AdminAccount, error) {
	a, ok := r.admins[id]
	if !ok {
		return domain.AdminAccount{}, repository.ErrAdminNotFound
	}
	return a, nil
}

func (r *fakeAdminRepo) FindByUsername(_ context.Context, username string) (domain.AdminAccount, error) {
	for _, a := range r.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.AdminAccount{}, repository.ErrAdminNotFound
}

func (r *fakeAdminRepo) FindAll(_ context.Context) ([]domain.AdminAccount, error) {
	all := make([]domain.AdminAccount, 0, len(r.admins))
	for _, a := range r.admins {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *fakeAdminRepo) Update(_ context.Context, admin domain.AdminAccount) (domain.AdminAccount, error) {
	if _, ok := r.admins[admin.ID]; !ok {
		return domain.AdminAccount{}, repository.ErrAdminNotFound
	}
	r.admins[admin.ID] = admin
	return admin, nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, id uint) (bool, error) {
	if _, ok := r.admins[id]; !ok {
		return false, nil
	}
	delete(r.admins, id)
	return true, nil
}

func TestAdminService_CreateAdmin(t *testing.T) {
	svc := NewAdminService(newFakeAdminRepo())
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, domain.AccessRoot, "admin2", "Second Admin", "s3cret", domain.AccessSystemAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.AccessSystemAdmin, created.AccessLevel)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")))

	// System admins may only create the lower tiers.
	_, err = svc.CreateAdmin(ctx, domain.AccessSystemAdmin, "admin3", "Third", "pw", domain.AccessSystemAdmin)
	assert.ErrorIs(t, err, ErrPolicyDenied)

	_, err = svc.CreateAdmin(ctx, domain.AccessSystemAdmin, "teacher1", "Teacher", "pw", domain.AccessTeacher)
	require.NoError(t, err)

	// Teachers and observers create nobody.
	_, err = svc.CreateAdmin(ctx, domain.AccessTeacher, "x", "X", "pw", domain.AccessObserver)
	assert.ErrorIs(t, err, ErrPolicyDenied)

	// An out-of-range target level is refused even for root.
	_, err = svc.CreateAdmin(ctx, domain.AccessRoot, "y", "Y", "pw", domain.AccessLevel(42))
	assert.ErrorIs(t, err, ErrPolicyDenied)
}

func TestAdminService_DeleteAdmin(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAdminService(repo)
	ctx := context.Background()

	root, err := repo.Create(ctx, domain.AdminAccount{Username: "root", AccessLevel: domain.AccessRoot})
	require.NoError(t, err)
	sysadmin, err := repo.Create(ctx, domain.AdminAccount{Username: "sys", AccessLevel: domain.AccessSystemAdmin})
	require.NoError(t, err)
	teacher, err := repo.Create(ctx, domain.AdminAccount{Username: "teach", AccessLevel: domain.AccessTeacher})
	require.NoError(t, err)

	err = svc.DeleteAdmin(ctx, root, root.ID)
	assert.ErrorIs(t, err, ErrSelfDelete)

	// A system admin cannot delete a peer.
	err = svc.DeleteAdmin(ctx, sysadmin, root.ID)
	assert.ErrorIs(t, err, ErrPolicyDenied)

	err = svc.DeleteAdmin(ctx, sysadmin, teacher.ID)
	require.NoError(t, err)

	err = svc.DeleteAdmin(ctx, root, 999)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAdminService_UpdateAdmin(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAdminService(repo)
	ctx := context.Background()

	teacher, err := repo.Create(ctx, domain.AdminAccount{Username: "teach", DisplayName: "Teacher", AccessLevel: domain.AccessTeacher})
	require.NoError(t, err)

	name := "Head Teacher"
	level := domain.AccessSystemAdmin
	updated, err := svc.UpdateAdmin(ctx, domain.AccessRoot, teacher.ID, domain.AdminUpdate{
		DisplayName: &name,
		AccessLevel: &level,
	})
	require.NoError(t, err)
	assert.Equal(t, "Head Teacher", updated.DisplayName)
	assert.Equal(t, domain.AccessSystemAdmin, updated.AccessLevel)

	// Editing accounts is root-only.
	_, err = svc.UpdateAdmin(ctx, domain.AccessSystemAdmin, teacher.ID, domain.AdminUpdate{DisplayName: &name})
	assert.ErrorIs(t, err, ErrPolicyDenied)

	bad := domain.AccessLevel(42)
	_, err = svc.UpdateAdmin(ctx, domain.AccessRoot, teacher.ID, domain.AdminUpdate{AccessLevel: &bad})
	assert.ErrorIs(t, err, ErrPolicyDenied)
}

func TestAdminService_ListAdmins(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAdminService(repo)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.AdminAccount{Username: "root", AccessLevel: domain.AccessRoot})
	require.NoError(t, err)

	admins, err := svc.ListAdmins(ctx, domain.AccessSystemAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	_, err = svc.ListAdmins(ctx, domain.AccessTeacher)
	assert.ErrorIs(t, err, ErrPolicyDenied)
}

func TestAdminService_EnsureRoot(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAdminService(repo)
	ctx := context.Background()

	require.NoError(t, svc.EnsureRoot(ctx, "root", "Root", "changeme"))

	seeded, err := repo.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.AccessRoot, seeded.AccessLevel)

	// A second call leaves the existing account alone.
	require.NoError(t, svc.EnsureRoot(ctx, "root", "Root", "different"))
	again, err := repo.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, seeded.PasswordHash, again.PasswordHash)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeAdminRepo()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.AdminAccount{Username: "root", AccessLevel: domain.AccessRoot, PasswordHash: string(hash)})
	require.NoError(t, err)

	svc := NewAuthService(repo)

	admin, err := svc.Login(ctx, "root", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)

	_, err = svc.Login(ctx, "root", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
