package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pintare/internal/domain"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `
  id, tipo, email, senha_hash,
  COALESCE(nome_completo,'') AS nome_completo,
  COALESCE(cpf,'') AS cpf,
  COALESCE(rg,'') AS rg,
  COALESCE(razao_social,'') AS razao_social,
  COALESCE(nome_fantasia,'') AS nome_fantasia,
  COALESCE(cnpj,'') AS cnpj,
  COALESCE(inscricao_estadual,'') AS inscricao_estadual,
  COALESCE(celular,'') AS celular,
  COALESCE(telefone,'') AS telefone,
  COALESCE(data_nascimento,'') AS data_nascimento,
  COALESCE(data_criacao,'') AS data_criacao,
  COALESCE(isAdmin,0) AS isAdmin`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM usuarios WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM usuarios WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account. Empty optional fields are stored as NULL.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
	  INSERT INTO usuarios
	    (tipo, email, senha_hash, nome_completo, cpf, rg, razao_social, nome_fantasia,
	     cnpj, inscricao_estadual, celular, telefone, data_nascimento, isAdmin)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Kind, u.Email, u.Hash,
		nullable(u.FullName), nullable(u.CPF), nullable(u.RG),
		nullable(u.LegalName), nullable(u.TradeName), nullable(u.CNPJ), nullable(u.StateRegistration),
		nullable(u.Mobile), nullable(u.Phone), nullable(u.BirthDate), u.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateProfile touches only the contact fields; email and password never
// change here. Returns sql.ErrNoRows for an unknown id.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, fullName, mobile, phone, tradeName string) error {
	res, err := r.DB.ExecContext(ctx, `
	  UPDATE usuarios SET
	    nome_completo = ?,
	    celular = ?,
	    telefone = ?,
	    nome_fantasia = ?
	  WHERE id = ?
	`, nullable(fullName), nullable(mobile), nullable(phone), nullable(tradeName), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch code := se.Code(); {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE, code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		// connection without extended result codes
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}
