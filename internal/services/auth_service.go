package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pintare/internal/domain"
	"pintare/internal/repos"
	"pintare/internal/validate"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AuthService struct {
	Users    *repos.UserRepo
	Sessions *SessionService
}

func NewAuthService(users *repos.UserRepo, sessions *SessionService) *AuthService {
	return &AuthService{Users: users, Sessions: sessions}
}

// Registration is the sign-up payload for PF and PJ accounts.
type Registration struct {
	Kind              string `json:"tipo"`
	Email             string `json:"email"`
	Password          string `json:"senha"`
	FullName          string `json:"nome_completo"`
	CPF               string `json:"cpf"`
	RG                string `json:"rg"`
	LegalName         string `json:"razao_social"`
	TradeName         string `json:"nome_fantasia"`
	CNPJ              string `json:"cnpj"`
	StateRegistration string `json:"inscricao_estadual"`
	Mobile            string `json:"celular"`
	Phone             string `json:"telefone"`
	BirthDate         string `json:"nascimento"`
}

// ProfileUpdate holds the only fields a user may change on their own record.
type ProfileUpdate struct {
	FullName  string `json:"nome_completo"`
	Mobile    string `json:"celular"`
	Phone     string `json:"telefone"`
	TradeName string `json:"nome_fantasia"`
}

type LoginResult struct {
	Token  string
	Claims *Claims
}

func (s *AuthService) Register(ctx context.Context, r Registration) (int64, error) {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" || r.Kind == "" {
		return 0, fail(ErrInvalidInput, "Email, senha e tipo são obrigatórios.")
	}
	email, ok := validate.Email(r.Email)
	if !ok {
		return 0, fail(ErrInvalidInput, "Email inválido.")
	}

	u := &domain.User{
		Kind:      r.Kind,
		Email:     email,
		FullName:  strings.TrimSpace(r.FullName),
		CPF:       strings.TrimSpace(r.CPF),
		Mobile:    strings.TrimSpace(r.Mobile),
		Phone:     strings.TrimSpace(r.Phone),
		BirthDate: strings.TrimSpace(r.BirthDate),
	}
	switch r.Kind {
	case domain.KindIndividual:
		u.RG = strings.TrimSpace(r.RG)
	case domain.KindBusiness:
		u.LegalName = strings.TrimSpace(r.LegalName)
		u.TradeName = strings.TrimSpace(r.TradeName)
		u.CNPJ = strings.TrimSpace(r.CNPJ)
		u.StateRegistration = strings.TrimSpace(r.StateRegistration)
	default:
		return 0, fail(ErrInvalidInput, "Tipo de usuário inválido.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcryptCost)
	if err != nil {
		return 0, err
	}
	u.Hash = string(hash)

	id, err := s.Users.Create(ctx, u)
	if errors.Is(err, repos.ErrDuplicateEmail) {
		return 0, fail(ErrConflict, "Este email já está cadastrado.")
	}
	return id, err
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fail(ErrInvalidInput, "Email e senha são obrigatórios.")
	}
	u, err := s.Users.ByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fail(ErrNotFound, "Usuário não encontrado.")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, fail(ErrUnauthorized, "Credenciais inválidas.")
	}
	tok, claims, err := s.Sessions.Issue(u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, Claims: claims}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.Users.ByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fail(ErrNotFound, "Usuário não encontrado.")
	}
	return u, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, p ProfileUpdate) error {
	err := s.Users.UpdateProfile(ctx, userID,
		strings.TrimSpace(p.FullName), strings.TrimSpace(p.Mobile),
		strings.TrimSpace(p.Phone), strings.TrimSpace(p.TradeName))
	if errors.Is(err, sql.ErrNoRows) {
		return fail(ErrNotFound, "Usuário não encontrado.")
	}
	return err
}
