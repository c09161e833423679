package services

import (
	"context"
	"fmt"

	"pintare/internal/domain"
	"pintare/internal/notify"
	"pintare/internal/repos"

	"golang.org/x/sync/errgroup"
)

const (
	MsgQuoteSubmitted    = "Orçamento solicitado com sucesso!"
	MsgQuoteNotifyFailed = "Orçamento salvo, mas houve falha ao enviar o e-mail."
)

// Notifier hands a committed quote to the mail pipeline. Dispatch returns
// once the notice is composed; delivery happens in the background.
type Notifier interface {
	Dispatch(n notify.Notice) error
}

type QuoteService struct {
	Quotes   *repos.QuoteRepo
	Users    *repos.UserRepo
	Notifier Notifier
}

func NewQuoteService(quotes *repos.QuoteRepo, users *repos.UserRepo, n Notifier) *QuoteService {
	return &QuoteService{Quotes: quotes, Users: users, Notifier: n}
}

type SubmitResult struct {
	QuoteID  int64
	Message  string
	Notified bool
	// NotifyErr is why the notice could not be composed, if it could not.
	NotifyErr error
}

// Submit persists the cart as a pending quote and notifies the
// administrator. A committed quote is reported as created even when the
// notification step fails; only the message differs.
func (s *QuoteService) Submit(ctx context.Context, userID int64, items []domain.QuoteItem) (SubmitResult, error) {
	if len(items) == 0 {
		return SubmitResult{}, fail(ErrInvalidInput, "O carrinho está vazio.")
	}
	for _, it := range items {
		if it.ProductID < 1 || it.Quantity < 1 {
			return SubmitResult{}, fail(ErrInvalidInput, "Item do carrinho inválido.")
		}
	}

	quoteID, err := s.Quotes.Create(ctx, userID, items)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create quote: %w", err)
	}

	res := SubmitResult{QuoteID: quoteID, Message: MsgQuoteSubmitted, Notified: s.Notifier != nil}
	notice, err := s.notice(ctx, quoteID, userID)
	if err == nil && s.Notifier != nil {
		err = s.Notifier.Dispatch(notice)
	}
	if err != nil {
		res.Message = MsgQuoteNotifyFailed
		res.Notified = false
		res.NotifyErr = err
	}
	return res, nil
}

// notice re-reads the committed quote, its owner and its named lines.
func (s *QuoteService) notice(ctx context.Context, quoteID, userID int64) (notify.Notice, error) {
	var n notify.Notice
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.Quotes.Get(gctx, quoteID)
		n.Quote = q
		return err
	})
	g.Go(func() error {
		u, err := s.Users.ByID(gctx, userID)
		if err == nil {
			n.User = *u
		}
		return err
	})
	g.Go(func() error {
		lines, err := s.Quotes.Lines(gctx, quoteID)
		n.Lines = lines
		return err
	})
	if err := g.Wait(); err != nil {
		return notify.Notice{}, fmt.Errorf("load quote %d: %w", quoteID, err)
	}
	return n, nil
}

func (s *QuoteService) History(ctx context.Context, userID int64) ([]repos.QuoteSummary, error) {
	return s.Quotes.ListByUser(ctx, userID)
}
