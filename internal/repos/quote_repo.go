package repos

import (
	"context"

	"pintare/internal/domain"

	"github.com/jmoiron/sqlx"
)

type QuoteRepo struct{ db *sqlx.DB }

func NewQuoteRepo(db *sqlx.DB) *QuoteRepo { return &QuoteRepo{db: db} }

// QuoteSummary is one row of a user's quote history.
type QuoteSummary struct {
	ID        int64  `db:"id" json:"id"`
	CreatedAt string `db:"data_criacao" json:"data_criacao"`
	Status    string `db:"status" json:"status"`
	ItemCount int    `db:"itens" json:"itens"`
}

// Create writes the quote header and all of its items atomically and
// returns the new quote id. The transaction ignores cancellation of ctx:
// once begun it either commits or rolls back.
func (r *QuoteRepo) Create(ctx context.Context, userID int64, items []domain.QuoteItem) (int64, error) {
	ctx = context.WithoutCancel(ctx)
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO orcamentos(usuario_id, status) VALUES(?, ?)`, userID, domain.QuotePending)
	if err != nil {
		return 0, err
	}
	quoteID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
		  INSERT INTO itens_orcamento(orcamento_id, produto_id, quantidade)
		  VALUES(?, ?, ?)
		`, quoteID, it.ProductID, it.Quantity); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return quoteID, nil
}

func (r *QuoteRepo) Get(ctx context.Context, id int64) (domain.Quote, error) {
	var q domain.Quote
	err := r.db.GetContext(ctx, &q, `
		SELECT id, usuario_id, COALESCE(data_criacao,'') AS data_criacao, COALESCE(status,'') AS status
		FROM orcamentos
		WHERE id = ?
	`, id)
	return q, err
}

// Lines returns the quote items joined with product names, in insertion order.
func (r *QuoteRepo) Lines(ctx context.Context, quoteID int64) ([]domain.QuoteLine, error) {
	out := []domain.QuoteLine{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT i.quantidade, p.nome AS produto_nome
		FROM itens_orcamento i
		JOIN produtos p ON p.id = i.produto_id
		WHERE i.orcamento_id = ?
		ORDER BY i.id
	`, quoteID)
	return out, err
}

// ListByUser returns the user's quotes, newest first.
func (r *QuoteRepo) ListByUser(ctx context.Context, userID int64) ([]QuoteSummary, error) {
	out := []QuoteSummary{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT o.id, COALESCE(o.data_criacao,'') AS data_criacao, COALESCE(o.status,'') AS status,
		       (SELECT COUNT(*) FROM itens_orcamento i WHERE i.orcamento_id = o.id) AS itens
		FROM orcamentos o
		WHERE o.usuario_id = ?
		ORDER BY o.id DESC
	`, userID)
	return out, err
}
