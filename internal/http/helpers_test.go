package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/gomail.v2"

	"pintare/internal/config"
	"pintare/internal/http/handlers"
	"pintare/internal/notify"
	"pintare/internal/repos"
)

const testSecret = "test-secret"

type stubSender struct {
	mu   sync.Mutex
	sent int
	err  error
}

func (s *stubSender) DialAndSend(m ...*gomail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent += len(m)
	return s.err
}

type testApp struct {
	app    *fiber.App
	db     *sqlx.DB
	deps   *handlers.Deps
	mailer *notify.Dispatcher
}

// newTestApp wires the real routes over an in-memory store. adminTo empty
// leaves the mailbox unconfigured.
func newTestApp(t *testing.T, sender notify.Sender, adminTo string, authLimit fiber.Handler) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", JWTSecret: testSecret}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mailer, err := notify.NewDispatcher(sender, "sistema@pintare.com", adminTo)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	app := fiber.New(fiber.Config{BodyLimit: 1 << 20, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	deps := handlers.NewDeps(db, cfg, mailer)
	handlers.Routes(app, deps, authLimit)
	return &testApp{app: app, db: db, deps: deps, mailer: mailer}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func (ta *testApp) login(t *testing.T, email, pass string) string {
	t.Helper()
	resp, body := ta.do(t, "POST", "/api/auth/login", "", map[string]any{"email": email, "senha": pass})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d %v", email, resp.StatusCode, body)
	}
	tok, _ := body["token"].(string)
	if tok == "" {
		t.Fatalf("login %s: no token", email)
	}
	return tok
}

func (ta *testApp) registerPF(t *testing.T, email string) {
	t.Helper()
	resp, body := ta.do(t, "POST", "/api/auth/registrar", "", map[string]any{
		"tipo": "PF", "email": email, "senha": "segredo1", "nome_completo": "Cliente Teste",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d %v", email, resp.StatusCode, body)
	}
}
