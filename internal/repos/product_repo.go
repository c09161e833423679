package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pintare/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ErrInUse is returned when a product cannot be removed because quotes
// reference it.
var ErrInUse = errors.New("product referenced by quotes")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductFilter narrows catalog listings. Zero values match everything.
type ProductFilter struct {
	Categories []string
	Tags       []string
	Search     string
}

// ProductWrite carries the admin-editable fields of a product. Tags and
// Images replace whatever the product had before.
type ProductWrite struct {
	Name             string
	ShortDescription string
	LongDescription  string
	Category         string
	Featured         bool
	Tags             []string
	Images           []string
}

const productColumns = `
    p.id, p.nome,
    COALESCE(p.descricao_curta,'') AS descricao_curta,
    COALESCE(p.descricao_longa,'') AS descricao_longa,
    COALESCE(p.categoria,'') AS categoria,
    COALESCE(p.destaque,0) AS destaque,
    COALESCE((SELECT GROUP_CONCAT(t.tag, ',') FROM produto_tags t WHERE t.produto_id = p.id),'') AS tags`

const tagMatch = `EXISTS (SELECT 1 FROM produto_tags t WHERE t.produto_id = p.id AND t.tag LIKE ?)`

// where builds the shared WHERE clause. Every requested tag must match one
// of the product's tags as a substring, so tags intersect rather than union.
func (f ProductFilter) where() (string, []any, error) {
	var clauses []string
	var args []any

	if len(f.Categories) > 0 {
		q, a, err := sqlx.In(`p.categoria IN (?)`, f.Categories)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, q)
		args = append(args, a...)
	}
	for _, tag := range f.Tags {
		clauses = append(clauses, tagMatch)
		args = append(args, "%"+tag+"%")
	}
	if f.Search != "" {
		clauses = append(clauses, `(p.nome LIKE ? OR p.descricao_curta LIKE ?)`)
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if len(clauses) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (r *ProductRepo) Count(ctx context.Context, f ProductFilter) (int, error) {
	where, args, err := f.where()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM produtos p `+where), args...)
	return n, err
}

// List returns one page of products, newest first, each with its primary image.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter, limit, offset int) ([]domain.Product, error) {
	where, args, err := f.where()
	if err != nil {
		return nil, err
	}
	query := `
  SELECT ` + productColumns + `,
    COALESCE(pi.imagem_url,'') AS imagem_url
  FROM produtos p
  LEFT JOIN produto_imagens pi ON pi.produto_id = p.id AND pi.ordem = 0
  ` + where + `
  ORDER BY p.id DESC
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	err = r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...)
	return out, err
}

// ByTag backs the home page shelves ("mais_vendido", "lancamento", ...).
func (r *ProductRepo) ByTag(ctx context.Context, tag string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT `+productColumns+`,
    COALESCE(pi.imagem_url,'') AS imagem_url
  FROM produtos p
  LEFT JOIN produto_imagens pi ON pi.produto_id = p.id AND pi.ordem = 0
  WHERE `+tagMatch+`
  ORDER BY p.id DESC
`, "%"+tag+"%")
	return out, err
}

// Get returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `
  SELECT `+productColumns+`,
    COALESCE((SELECT pi.imagem_url FROM produto_imagens pi WHERE pi.produto_id = p.id AND pi.ordem = 0),'') AS imagem_url
  FROM produtos p
  WHERE p.id = ?
`, id)
	return p, err
}

func (r *ProductRepo) Images(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	out := []domain.ProductImage{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT id, produto_id, imagem_url, COALESCE(ordem,0) AS ordem
  FROM produto_imagens
  WHERE produto_id = ?
  ORDER BY ordem ASC
`, productID)
	return out, err
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT DISTINCT categoria
  FROM produtos
  WHERE categoria IS NOT NULL AND categoria != ''
  ORDER BY categoria ASC
`)
	return out, err
}

func (r *ProductRepo) Tags(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT DISTINCT TRIM(tag) AS tag
  FROM produto_tags
  WHERE TRIM(tag) != ''
  ORDER BY 1 ASC
`)
	return out, err
}

// Create inserts the product with its tags and images in one transaction.
func (r *ProductRepo) Create(ctx context.Context, w ProductWrite) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	  INSERT INTO produtos(nome, descricao_curta, descricao_longa, categoria, destaque)
	  VALUES(?, ?, ?, ?, ?)
	`, w.Name, w.ShortDescription, w.LongDescription, w.Category, w.Featured)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := replaceTags(ctx, tx, id, w.Tags); err != nil {
		return 0, err
	}
	if err := replaceImages(ctx, tx, id, w.Images); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Update rewrites the product and fully replaces its tags and images.
// Returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Update(ctx context.Context, id int64, w ProductWrite) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	  UPDATE produtos SET
	    nome = ?, descricao_curta = ?, descricao_longa = ?,
	    categoria = ?, destaque = ?
	  WHERE id = ?
	`, w.Name, w.ShortDescription, w.LongDescription, w.Category, w.Featured, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if err := replaceTags(ctx, tx, id, w.Tags); err != nil {
		return err
	}
	if err := replaceImages(ctx, tx, id, w.Images); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a product; images and tags cascade. Products already
// quoted are kept and ErrInUse is returned.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var refs int
	if err := tx.GetContext(ctx, &refs, `SELECT COUNT(*) FROM itens_orcamento WHERE produto_id = ?`, id); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM produtos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func replaceTags(ctx context.Context, tx *sqlx.Tx, productID int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM produto_tags WHERE produto_id = ?`, productID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO produto_tags(produto_id, tag) VALUES(?, ?)`, productID, tag); err != nil {
			return err
		}
	}
	return nil
}

// replaceImages drops every image of the product and inserts urls in order.
// Empty urls are skipped without consuming an order slot, so the first
// non-empty url is always the primary image.
func replaceImages(ctx context.Context, tx *sqlx.Tx, productID int64, urls []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM produto_imagens WHERE produto_id = ?`, productID); err != nil {
		return err
	}
	order := 0
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO produto_imagens(produto_id, imagem_url, ordem) VALUES(?, ?, ?)`, productID, u, order); err != nil {
			return err
		}
		order++
	}
	return nil
}

// SplitTags turns "a, b,,a" into ["a", "b"].
func SplitTags(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
