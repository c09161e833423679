package handlers

import (
	"pintare/internal/config"
	"pintare/internal/repos"
	"pintare/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Sessions       *services.SessionService
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	AdminHandler   *AdminHandler
	QuoteHandler   *QuoteHandler
}

// NewDeps wires repos and services over db. A nil notifier turns the quote
// email off.
func NewDeps(db *sqlx.DB, cfg config.Config, notifier services.Notifier) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	quoteRepo := repos.NewQuoteRepo(db)

	sessions := services.NewSessionService(cfg.JWTSecret)
	authSvc := services.NewAuthService(userRepo, sessions)
	catalogSvc := services.NewCatalogService(prodRepo)
	quoteSvc := services.NewQuoteService(quoteRepo, userRepo, notifier)

	return &Deps{
		Sessions:       sessions,
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc},
		QuoteHandler:   &QuoteHandler{Quotes: quoteSvc},
	}
}
