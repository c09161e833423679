package repos_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pintare/internal/domain"
	"pintare/internal/repos"
)

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := repos.NewUserRepo(memdb(t))

	u := &domain.User{Kind: domain.KindIndividual, Email: "ana@example.com", Hash: "x", FullName: "Ana", RG: "12.345"}
	id, err := r.Create(ctx, u)
	require.NoError(t, err)
	assert.Positive(t, id)

	dup := *u
	dup.Email = "ANA@example.com"
	_, err = r.Create(ctx, &dup)
	assert.ErrorIs(t, err, repos.ErrDuplicateEmail)

	got, err := r.ByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "12.345", got.RG)
	assert.Empty(t, got.CNPJ)
}

func TestUserUpdateProfile(t *testing.T) {
	ctx := context.Background()
	r := repos.NewUserRepo(memdb(t))

	id, err := r.Create(ctx, &domain.User{Kind: domain.KindBusiness, Email: "loja@example.com", Hash: "x", LegalName: "Loja LTDA"})
	require.NoError(t, err)

	require.NoError(t, r.UpdateProfile(ctx, id, "", "11 9999", "", "Loja"))
	got, err := r.ByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "11 9999", got.Mobile)
	assert.Equal(t, "Loja", got.TradeName)
	assert.Equal(t, "Loja LTDA", got.LegalName)

	assert.ErrorIs(t, r.UpdateProfile(ctx, 999, "a", "", "", ""), sql.ErrNoRows)
}
