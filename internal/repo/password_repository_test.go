package repo

import (
	"PassKeeper/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestUser(t *testing.T, r UserRepository, email string) *model.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), &model.User{Email: email, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return u
}

func TestPasswordRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	r := NewPasswordRepository(db)
	ctx := context.Background()

	owner := newTestUser(t, users, "owner@example.com")

	p := &model.Password{
		UserID:            owner.ID,
		Domain:            "github.com",
		WebsiteURL:        "https://github.com",
		EncryptedUsername: "enc-user",
		EncryptedPassword: "enc-pass",
		Notes:             "work",
	}
	assert.NoError(t, r.Create(ctx, p))
	assert.NotEmpty(t, p.ID)

	got, err := r.GetByID(ctx, p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "github.com", got.Domain)
	assert.Equal(t, "enc-user", got.EncryptedUsername)

	list, err := r.ListByUser(ctx, owner.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	// проба существования по (владелец, домен, username)
	probe, err := r.FindByDomainAndUsername(ctx, owner.ID, "github.com", "enc-user")
	assert.NoError(t, err)
	assert.Equal(t, p.ID, probe.ID)

	_, err = r.FindByDomainAndUsername(ctx, owner.ID, "github.com", "other-user")
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	// обновление перезаписывает поля
	got.EncryptedPassword = "enc-pass-2"
	got.Notes = ""
	assert.NoError(t, r.Update(ctx, got))

	got2, err := r.GetByID(ctx, p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "enc-pass-2", got2.EncryptedPassword)
	assert.Equal(t, "", got2.Notes)

	// удаление
	assert.NoError(t, r.Delete(ctx, p.ID))
	_, err = r.GetByID(ctx, p.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}

func TestPasswordRepository_SaveBatch(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	r := NewPasswordRepository(db)
	ctx := context.Background()

	owner := newTestUser(t, users, "batch@example.com")

	seed := &model.Password{UserID: owner.ID, Domain: "a.com", EncryptedUsername: "u1", EncryptedPassword: "p1"}
	assert.NoError(t, r.Create(ctx, seed))

	seed.EncryptedPassword = "p1-new"
	creates := []model.Password{
		{UserID: owner.ID, Domain: "b.com", EncryptedUsername: "u2", EncryptedPassword: "p2"},
		{UserID: owner.ID, Domain: "c.com", EncryptedUsername: "u3", EncryptedPassword: "p3"},
	}
	assert.NoError(t, r.SaveBatch(ctx, creates, []model.Password{*seed}))

	list, err := r.ListByUser(ctx, owner.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 3)

	got, err := r.GetByID(ctx, seed.ID)
	assert.NoError(t, err)
	assert.Equal(t, "p1-new", got.EncryptedPassword)
}

func TestPasswordRepository_ListSharedWith(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	bindings := NewBindingRepository(db)
	r := NewPasswordRepository(db)
	ctx := context.Background()

	alice := newTestUser(t, users, "alice@example.com")
	bob := newTestUser(t, users, "bob@example.com")
	carol := newTestUser(t, users, "carol@example.com")

	assert.NoError(t, r.Create(ctx, &model.Password{UserID: alice.ID, Domain: "a.com", EncryptedUsername: "au", EncryptedPassword: "ap"}))
	assert.NoError(t, r.Create(ctx, &model.Password{UserID: carol.ID, Domain: "c.com", EncryptedUsername: "cu", EncryptedPassword: "cp"}))

	// alice -> bob активная, carol -> bob только pending
	assert.NoError(t, bindings.Create(ctx, &model.Binding{
		AccountAID: alice.ID, AccountBID: bob.ID,
		BindingStatus: model.BindingStatusActive, Permissions: model.PermissionWrite,
	}))
	assert.NoError(t, bindings.Create(ctx, &model.Binding{
		AccountAID: carol.ID, AccountBID: bob.ID,
		BindingStatus: model.BindingStatusPending, Permissions: model.PermissionRead,
	}))

	shared, err := r.ListSharedWith(ctx, bob.ID)
	assert.NoError(t, err)
	if assert.Len(t, shared, 1) {
		assert.Equal(t, "a.com", shared[0].Domain)
		assert.Equal(t, alice.ID, shared[0].UserID)
		assert.Equal(t, "alice@example.com", shared[0].OwnerEmail)
		assert.Equal(t, model.PermissionWrite, shared[0].Permissions)
	}

	// обратного направления нет: alice не видит записей bob
	shared, err = r.ListSharedWith(ctx, alice.ID)
	assert.NoError(t, err)
	assert.Len(t, shared, 0)
}
