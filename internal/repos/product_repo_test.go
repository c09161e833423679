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

func names(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestProductFilterTagsIntersect(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))

	f := repos.ProductFilter{Tags: []string{"mais_vendido", "pistola"}}
	got, err := r.List(ctx, f, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Electrostatic Paint Gun", "Airless Spray Gun"}, names(got))

	n, err := r.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProductFilterCategoriesAndSearch(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))

	got, err := r.List(ctx, repos.ProductFilter{Categories: []string{"Tanque de Pressão", "Pistola de Gravidade"}}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pistola HVLP 200", "Pressure Pot 10L"}, names(got))

	got, err = r.List(ctx, repos.ProductFilter{Search: "névoa"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pistola HVLP 200"}, names(got))
}

func TestProductListPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))

	first, err := r.List(ctx, repos.ProductFilter{}, 2, 0)
	require.NoError(t, err)
	last, err := r.List(ctx, repos.ProductFilter{}, 2, 4)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, int64(5), first[0].ID)
	assert.NotEmpty(t, first[0].ImageURL)
	require.Len(t, last, 1)
	assert.Equal(t, int64(1), last[0].ID)
}

func TestProductUpdateReplacesImagesAndTags(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))

	id, err := r.Create(ctx, repos.ProductWrite{
		Name:   "Compressor",
		Tags:   []string{"compressor"},
		Images: []string{"a.png", "b.png"},
	})
	require.NoError(t, err)

	err = r.Update(ctx, id, repos.ProductWrite{
		Name:   "Compressor 2",
		Tags:   []string{"lancamento"},
		Images: []string{"", "c.png"},
	})
	require.NoError(t, err)

	imgs, err := r.Images(ctx, id)
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "c.png", imgs[0].URL)
	assert.Equal(t, 0, imgs[0].Order)

	p, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Compressor 2", p.Name)
	assert.Equal(t, "lancamento", p.Tags)
	assert.Equal(t, "c.png", p.ImageURL)

	assert.ErrorIs(t, r.Update(ctx, 999, repos.ProductWrite{Name: "x"}), sql.ErrNoRows)
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	db := memdb(t)
	r := repos.NewProductRepo(db)

	require.NoError(t, r.Delete(ctx, 5))
	_, err := r.Get(ctx, 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM produto_imagens WHERE produto_id = 5`))
	assert.Zero(t, n)

	assert.ErrorIs(t, r.Delete(ctx, 5), sql.ErrNoRows)

	_, err = repos.NewQuoteRepo(db).Create(ctx, 1, []domain.QuoteItem{{ProductID: 4, Quantity: 1}})
	require.NoError(t, err)
	assert.ErrorIs(t, r.Delete(ctx, 4), repos.ErrInUse)
}

func TestCategoriesAndTagsSorted(t *testing.T) {
	ctx := context.Background()
	r := repos.NewProductRepo(memdb(t))

	cats, err := r.Categories(ctx)
	require.NoError(t, err)
	assert.IsIncreasing(t, cats)
	assert.Len(t, cats, 5)

	tags, err := r.Tags(ctx)
	require.NoError(t, err)
	assert.IsIncreasing(t, tags)
	assert.Contains(t, tags, "mais_vendido")
}
