package domain

// Account kinds stored in usuarios.tipo.
const (
	KindIndividual = "PF"
	KindBusiness   = "PJ"
	KindAdmin      = "ADMIN"
)

type User struct {
	ID                int64  `db:"id" json:"id"`
	Kind              string `db:"tipo" json:"tipo"`
	Email             string `db:"email" json:"email"`
	Hash              string `db:"senha_hash" json:"-"`
	FullName          string `db:"nome_completo" json:"nome_completo"`
	CPF               string `db:"cpf" json:"cpf"`
	RG                string `db:"rg" json:"rg"`
	LegalName         string `db:"razao_social" json:"razao_social"`
	TradeName         string `db:"nome_fantasia" json:"nome_fantasia"`
	CNPJ              string `db:"cnpj" json:"cnpj"`
	StateRegistration string `db:"inscricao_estadual" json:"inscricao_estadual"`
	Mobile            string `db:"celular" json:"celular"`
	Phone             string `db:"telefone" json:"telefone"`
	BirthDate         string `db:"data_nascimento" json:"data_nascimento"`
	CreatedAt         string `db:"data_criacao" json:"data_criacao"`
	IsAdmin           bool   `db:"isAdmin" json:"isAdmin"`
}

// DisplayName is the name shown in sessions: the person's name, or the
// trade name for business accounts registered without one.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.TradeName
}

// ClientName is the name printed on quote documents.
func (u *User) ClientName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.LegalName
}
