package repos

import (
	"fmt"
	"strings"

	applog "pintare/internal/log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the store, brings the schema up to date and seeds the admin
// account and demo catalog. The pool is pinned to a single connection: an
// in-memory database lives on one connection, and SQLite serializes writers
// anyway.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	steps := []struct {
		name string
		fn   func(*sqlx.DB) error
	}{
		{"schema", ensureSchema},
		{"schema.unique", ensureUniqueIndexes},
		{"migrate.rg", migrateRGColumn},
		{"migrate.tags", migrateLegacyTags},
		{"seed.admin", seedAdmin},
		{"seed.catalog", seedCatalog},
	}
	for _, s := range steps {
		if err := s.fn(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return db, nil
}

// withPragmas makes the driver enable foreign keys on every connection it
// opens, not just the first one.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Users (PF, PJ and ADMIN share one table)
CREATE TABLE IF NOT EXISTS usuarios(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tipo TEXT NOT NULL,
  email TEXT UNIQUE NOT NULL,
  senha_hash TEXT NOT NULL,
  nome_completo TEXT,
  cpf TEXT,
  rg TEXT,
  razao_social TEXT,
  nome_fantasia TEXT,
  cnpj TEXT,
  inscricao_estadual TEXT,
  celular TEXT,
  telefone TEXT,
  data_nascimento TEXT,
  data_criacao DATETIME DEFAULT CURRENT_TIMESTAMP,
  isAdmin BOOLEAN DEFAULT 0
);

-- Products
CREATE TABLE IF NOT EXISTS produtos(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nome TEXT NOT NULL,
  descricao_curta TEXT,
  descricao_longa TEXT,
  categoria TEXT,
  destaque BOOLEAN DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_produtos_categoria ON produtos(categoria);

CREATE TABLE IF NOT EXISTS produto_imagens(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  produto_id INTEGER NOT NULL,
  imagem_url TEXT NOT NULL,
  ordem INTEGER DEFAULT 0,
  FOREIGN KEY(produto_id) REFERENCES produtos(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS produto_tags(
  produto_id INTEGER NOT NULL REFERENCES produtos(id) ON DELETE CASCADE,
  tag TEXT NOT NULL,
  PRIMARY KEY (produto_id, tag)
);
CREATE INDEX IF NOT EXISTS idx_produto_tags_tag ON produto_tags(tag);

-- Quotes
CREATE TABLE IF NOT EXISTS orcamentos(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  usuario_id INTEGER NOT NULL,
  data_criacao DATETIME DEFAULT CURRENT_TIMESTAMP,
  status TEXT DEFAULT 'Pendente',
  FOREIGN KEY(usuario_id) REFERENCES usuarios(id)
);
CREATE INDEX IF NOT EXISTS idx_orcamentos_usuario ON orcamentos(usuario_id);

CREATE TABLE IF NOT EXISTS itens_orcamento(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  orcamento_id INTEGER NOT NULL,
  produto_id INTEGER NOT NULL,
  quantidade INTEGER NOT NULL,
  FOREIGN KEY(orcamento_id) REFERENCES orcamentos(id),
  FOREIGN KEY(produto_id) REFERENCES produtos(id)
);
CREATE INDEX IF NOT EXISTS idx_itens_orcamento_orcamento ON itens_orcamento(orcamento_id);
`
	_, err := db.Exec(schema)
	return err
}

var uniqueIndexes = []struct {
	name, create, dupes string
}{
	{
		"idx_usuarios_email_nocase",
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email_nocase ON usuarios(LOWER(email))`,
		`SELECT COUNT(*) FROM (SELECT 1 FROM usuarios GROUP BY LOWER(email) HAVING COUNT(*) > 1)`,
	},
	{
		"idx_produto_imagens_ordem",
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_produto_imagens_ordem ON produto_imagens(produto_id, ordem)`,
		`SELECT COUNT(*) FROM (SELECT 1 FROM produto_imagens GROUP BY produto_id, ordem HAVING COUNT(*) > 1)`,
	},
}

// ensureUniqueIndexes adds the uniqueness indexes older databases lack.
// Rows that already collide are left alone: the index is skipped and the
// collision logged, so the store still opens.
func ensureUniqueIndexes(db *sqlx.DB) error {
	for _, ix := range uniqueIndexes {
		var dupes int
		if err := db.Get(&dupes, ix.dupes); err != nil {
			return err
		}
		if dupes > 0 {
			applog.Warn(nil, "db.index.skip", map[string]any{"index": ix.name, "duplicates": dupes})
			continue
		}
		if _, err := db.Exec(ix.create); err != nil {
			return fmt.Errorf("%s: %w", ix.name, err)
		}
	}
	return nil
}

func hasColumn(db *sqlx.DB, table, column string) (bool, error) {
	var n int
	err := db.Get(&n, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column)
	return n > 0, err
}

// migrateRGColumn adds usuarios.rg to databases created before it existed.
func migrateRGColumn(db *sqlx.DB) error {
	ok, err := hasColumn(db, "usuarios", "rg")
	if err != nil || ok {
		return err
	}
	applog.Info(nil, "db.migrate.rg", nil)
	_, err = db.Exec(`ALTER TABLE usuarios ADD COLUMN rg TEXT`)
	return err
}

// migrateLegacyTags moves comma-joined produtos.tags values into produto_tags
// and clears the old column so later edits are not undone on restart.
func migrateLegacyTags(db *sqlx.DB) error {
	ok, err := hasColumn(db, "produtos", "tags")
	if err != nil || !ok {
		return err
	}
	var rows []struct {
		ID   int64  `db:"id"`
		Tags string `db:"tags"`
	}
	if err := db.Select(&rows, `SELECT id, tags FROM produtos WHERE tags IS NOT NULL AND tags != ''`); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	applog.Info(nil, "db.migrate.tags", map[string]any{"products": len(rows)})

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, r := range rows {
		for _, tag := range SplitTags(r.Tags) {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO produto_tags(produto_id, tag) VALUES(?, ?)`, r.ID, tag); err != nil {
				return err
			}
		}
	}
	if _, err := tx.Exec(`UPDATE produtos SET tags = NULL`); err != nil {
		return err
	}
	return tx.Commit()
}

// seedAdmin ensures the administrator account exists (idempotent).
func seedAdmin(db *sqlx.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return err
	}
	res, err := db.Exec(`
		INSERT OR IGNORE INTO usuarios(tipo, email, senha_hash, nome_completo, isAdmin)
		VALUES('ADMIN', 'admin@pintare.com', ?, 'Administrador do Sistema', 1)
	`, string(hash))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		applog.Info(nil, "db.seed.admin", map[string]any{"email": "admin@pintare.com"})
	}
	return nil
}

// seedCatalog inserts the demo products when the catalog is empty.
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM produtos`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "db.seed.catalog", nil)

	demo := []struct {
		name, short, category, tags, image string
		featured                           bool
	}{
		{"Airless Spray Gun", "Pistola de alta pressão.", "Pistola Airless", "mais_vendido,airless,pistola", "src/img/SLG-140-P.png", true},
		{"Pressure Pot 10L", "Tanque de pressão de 10 litros.", "Tanque de Pressão", "mais_vendido,tanque", "src/img/JGa-504.png", true},
		{"Electrostatic Paint Gun", "Pistola eletrostática.", "Pistola Eletrostática", "mais_vendido,eletrostatica,pistola", "src/img/ADV-P522.png", true},
		{"Pistola Alta Produtividade HP-3", "Ideal para grandes volumes.", "Pistola de Pressão", "alta_produtividade,pistola", "src/img/HP-3.png", false},
		{"Pistola HVLP 200", "Economia de tinta e menor névoa.", "Pistola de Gravidade", "hvlp,lancamento,pistola", "src/img/HVLP-200.png", false},
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range demo {
		res, err := tx.Exec(`INSERT INTO produtos(nome, descricao_curta, categoria, destaque) VALUES(?, ?, ?, ?)`,
			p.name, p.short, p.category, p.featured)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, tag := range strings.Split(p.tags, ",") {
			if _, err := tx.Exec(`INSERT INTO produto_tags(produto_id, tag) VALUES(?, ?)`, id, tag); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(`INSERT INTO produto_imagens(produto_id, imagem_url, ordem) VALUES(?, ?, 0)`, id, p.image); err != nil {
			return err
		}
	}
	return tx.Commit()
}
