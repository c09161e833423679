package domain

type Product struct {
	ID               int64          `db:"id" json:"id"`
	Name             string         `db:"nome" json:"nome"`
	ShortDescription string         `db:"descricao_curta" json:"descricao_curta"`
	LongDescription  string         `db:"descricao_longa" json:"descricao_longa"`
	Category         string         `db:"categoria" json:"categoria"`
	Tags             string         `db:"tags" json:"tags"` // comma-joined, rendered from produto_tags
	Featured         bool           `db:"destaque" json:"destaque"`
	ImageURL         string         `db:"imagem_url" json:"imagem_url,omitempty"` // primary image in listings
	Images           []ProductImage `db:"-" json:"imagens,omitempty"`
}

type ProductImage struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"produto_id" json:"produto_id"`
	URL       string `db:"imagem_url" json:"imagem_url"`
	Order     int    `db:"ordem" json:"ordem"`
}

// Quote statuses stored in orcamentos.status.
const (
	QuotePending   = "Pendente"
	QuoteSent      = "Enviado"
	QuoteFinalized = "Finalizado"
)

type Quote struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"usuario_id" json:"usuario_id"`
	CreatedAt string `db:"data_criacao" json:"data_criacao"`
	Status    string `db:"status" json:"status"`
}

// QuoteItem is one cart entry as submitted.
type QuoteItem struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}

// QuoteLine is a persisted item joined with its product name.
type QuoteLine struct {
	Quantity    int    `db:"quantidade"`
	ProductName string `db:"produto_nome"`
}
