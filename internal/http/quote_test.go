package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pintare/internal/services"
)

func cart(items ...[2]int) map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{"id": it[0], "quantity": it[1]})
	}
	return map[string]any{"itens": out}
}

func TestQuoteSubmitSendsMail(t *testing.T) {
	sender := &stubSender{}
	ta := newTestApp(t, sender, "admin@pintare.com", nil)
	ta.registerPF(t, "cliente@example.com")
	tok := ta.login(t, "cliente@example.com", "segredo1")

	resp, body := ta.do(t, "POST", "/api/orcamentos", tok, cart([2]int{1, 2}, [2]int{3, 1}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: %d %v", resp.StatusCode, body)
	}
	if body["message"] != services.MsgQuoteSubmitted || body["orcamentoId"] == nil {
		t.Fatalf("unexpected body: %v", body)
	}
	ta.mailer.Wait()
	if sender.sent != 1 {
		t.Fatalf("want 1 mail, got %d", sender.sent)
	}

	var items int
	if err := ta.db.Get(&items, `SELECT COUNT(*) FROM itens_orcamento`); err != nil {
		t.Fatal(err)
	}
	if items != 2 {
		t.Fatalf("want 2 stored items, got %d", items)
	}

	resp, body = ta.do(t, "GET", "/api/orcamentos", tok, nil)
	if hist, _ := body["orcamentos"].([]any); resp.StatusCode != http.StatusOK || len(hist) != 1 {
		t.Fatalf("history: %d %v", resp.StatusCode, body)
	}
}

func TestQuoteSubmitSurvivesMailFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	ta := newTestApp(t, &stubSender{err: errors.New("smtp: connection refused")}, "admin@pintare.com", nil)
	tok := ta.login(t, "admin@pintare.com", "admin123")

	resp, body := ta.do(t, "POST", "/api/orcamentos", tok, cart([2]int{2, 1}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: want 201, got %d", resp.StatusCode)
	}
	if body["message"] != services.MsgQuoteSubmitted {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	ta.mailer.Wait()
	if logs.FilterMessage("quote.mail.fail").Len() != 1 {
		t.Fatal("mail failure not logged")
	}
}

func TestQuoteSubmitWithoutMailbox(t *testing.T) {
	ta := newTestApp(t, nil, "", nil)
	tok := ta.login(t, "admin@pintare.com", "admin123")

	resp, body := ta.do(t, "POST", "/api/orcamentos", tok, cart([2]int{1, 1}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: want 201, got %d", resp.StatusCode)
	}
	if body["message"] != services.MsgQuoteNotifyFailed {
		t.Fatalf("want notify-failed message, got %v", body["message"])
	}
}

func TestQuoteSubmitRejects(t *testing.T) {
	ta := newTestApp(t, nil, "admin@pintare.com", nil)
	tok := ta.login(t, "admin@pintare.com", "admin123")

	resp, _ := ta.do(t, "POST", "/api/orcamentos", "", cart([2]int{1, 1}))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: want 401, got %d", resp.StatusCode)
	}
	resp, body := ta.do(t, "POST", "/api/orcamentos", tok, map[string]any{"itens": []any{}})
	if resp.StatusCode != http.StatusBadRequest || body["message"] != "O carrinho está vazio." {
		t.Fatalf("empty cart: %d %v", resp.StatusCode, body)
	}
	resp, _ = ta.do(t, "POST", "/api/orcamentos", tok, cart([2]int{1, 1}, [2]int{999, 1}))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unknown product: want 500, got %d", resp.StatusCode)
	}

	var n int
	if err := ta.db.Get(&n, `SELECT COUNT(*) FROM orcamentos`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rejected carts left %d quotes", n)
	}
}

func TestDeleteQuotedProductConflicts(t *testing.T) {
	ta := newTestApp(t, nil, "admin@pintare.com", nil)
	tok := ta.login(t, "admin@pintare.com", "admin123")

	if resp, _ := ta.do(t, "POST", "/api/orcamentos", tok, cart([2]int{4, 1})); resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: %d", resp.StatusCode)
	}
	resp, _ := ta.do(t, "DELETE", "/api/admin/produtos/4", tok, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete quoted product: want 409, got %d", resp.StatusCode)
	}
}
