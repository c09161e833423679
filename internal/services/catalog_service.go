package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pintare/internal/domain"
	"pintare/internal/repos"

	"github.com/spf13/cast"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9

	// MaxLimit caps limite; larger requests get MaxLimit rows per page.
	MaxLimit = 100
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

type ListQuery struct {
	Categories []string
	Tags       []string
	Search     string
	Page       int
	Limit      int
}

type ProductPage struct {
	Products   []domain.Product `json:"produtos"`
	Page       int              `json:"paginaAtual"`
	TotalPages int              `json:"totalPaginas"`
	Total      int              `json:"totalProdutos"`
}

type Filters struct {
	Categories []string `json:"categorias"`
	Tags       []string `json:"tags"`
}

// ProductInput is the admin create/update payload. Tags may be a
// comma-joined string or a list; Featured accepts anything truthy.
type ProductInput struct {
	Name             string   `json:"nome"`
	ShortDescription string   `json:"descricao_curta"`
	LongDescription  string   `json:"descricao_longa"`
	Category         string   `json:"categoria"`
	Tags             any      `json:"tags"`
	Featured         any      `json:"destaque"`
	Images           []string `json:"imagens"`
}

func (s *CatalogService) List(ctx context.Context, q ListQuery) (ProductPage, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	f := repos.ProductFilter{Categories: q.Categories, Tags: q.Tags, Search: q.Search}

	total, err := s.Prods.Count(ctx, f)
	if err != nil {
		return ProductPage{}, err
	}
	page := ProductPage{
		Products:   []domain.Product{},
		Page:       q.Page,
		TotalPages: total / q.Limit,
		Total:      total,
	}
	if total%q.Limit != 0 {
		page.TotalPages++
	}
	// Pages past the end are empty; checking before multiplying keeps the
	// offset from overflowing.
	if q.Page-1 >= page.TotalPages {
		return page, nil
	}
	page.Products, err = s.Prods.List(ctx, f, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return ProductPage{}, err
	}
	return page, nil
}

func (s *CatalogService) Filters(ctx context.Context) (Filters, error) {
	cats, err := s.Prods.Categories(ctx)
	if err != nil {
		return Filters{}, err
	}
	tags, err := s.Prods.Tags(ctx)
	if err != nil {
		return Filters{}, err
	}
	return Filters{Categories: cats, Tags: tags}, nil
}

func (s *CatalogService) Home(ctx context.Context, tag string) ([]domain.Product, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fail(ErrInvalidInput, "É necessário informar uma tag (ex: ?tag=mais_vendido)")
	}
	return s.Prods.ByTag(ctx, tag)
}

// Get returns the product with all of its images in display order.
func (s *CatalogService) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.Prods.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fail(ErrNotFound, "Produto não encontrado")
	}
	if err != nil {
		return domain.Product{}, err
	}
	if p.Images, err = s.Prods.Images(ctx, id); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (int64, error) {
	w, err := in.write()
	if err != nil {
		return 0, err
	}
	return s.Prods.Create(ctx, w)
}

func (s *CatalogService) Update(ctx context.Context, id int64, in ProductInput) error {
	w, err := in.write()
	if err != nil {
		return err
	}
	err = s.Prods.Update(ctx, id, w)
	if errors.Is(err, sql.ErrNoRows) {
		return fail(ErrNotFound, "Produto não encontrado")
	}
	return err
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	err := s.Prods.Delete(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fail(ErrNotFound, "Produto não encontrado")
	case errors.Is(err, repos.ErrInUse):
		return fail(ErrConflict, "Produto já consta em orçamentos e não pode ser removido.")
	}
	return err
}

func (in ProductInput) write() (repos.ProductWrite, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return repos.ProductWrite{}, fail(ErrInvalidInput, "O nome do produto é obrigatório.")
	}
	return repos.ProductWrite{
		Name:             name,
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		LongDescription:  strings.TrimSpace(in.LongDescription),
		Category:         strings.TrimSpace(in.Category),
		Featured:         truthy(in.Featured),
		Tags:             tagList(in.Tags),
		Images:           in.Images,
	}, nil
}

func tagList(v any) []string {
	switch t := v.(type) {
	case string:
		return repos.SplitTags(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, x := range t {
			parts = append(parts, cast.ToString(x))
		}
		return repos.SplitTags(strings.Join(parts, ","))
	}
	return nil
}

func truthy(v any) bool {
	if f, ok := v.(float64); ok {
		return f != 0
	}
	return cast.ToBool(v)
}
