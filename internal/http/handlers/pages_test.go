package handlers

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mandala/internal/domain"
	"mandala/internal/infra"
	"mandala/internal/mandala"
	"mandala/internal/middleware"
	"mandala/internal/providers/dalle"
	"mandala/internal/session"
)

type stubGenerator struct {
	img             *dalle.Image
	err             error
	calls           int
	lastCredential  string
	lastPrompt      string
	observe         *session.Session
	phaseDuringCall session.Phase
}

func (s *stubGenerator) Generate(ctx context.Context, credential, prompt string) (*dalle.Image, error) {
	s.calls++
	s.lastCredential = credential
	s.lastPrompt = prompt
	if s.observe != nil {
		s.phaseDuringCall = s.observe.Phase()
	}
	return s.img, s.err
}

func testImage(width, height int) *dalle.Image {
	bitmap := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bitmap.Set(x, y, color.White)
		}
	}
	return &dalle.Image{Bitmap: bitmap, Format: "png", Width: width, Height: height}
}

func newTestApp(stub *stubGenerator) *App {
	cfg := &infra.Config{
		AppEnv:            "test",
		ImageModel:        "dall-e-3",
		ImageSize:         "1024x1024",
		ImageQuality:      "standard",
		GenerationTimeout: 5 * time.Second,
		DefaultLocale:     "en",
		SessionTTL:        time.Hour,
	}
	logger := zerolog.New(io.Discard)
	return NewApp(logger, cfg, session.NewManager(cfg.SessionTTL), stub)
}

// establishSession creates a session up front so the test can inspect and
// pre-populate it, and returns the cookie that binds requests to it.
func establishSession(t *testing.T, app *App) (*session.Session, *http.Cookie) {
	t.Helper()
	rr := httptest.NewRecorder()
	sess := app.Sessions.Get(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return sess, c
		}
	}
	t.Fatalf("session cookie not set")
	return nil, nil
}

func submitForm(app *App, cookie *http.Cookie, apiKey, topic string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("api_key", apiKey)
	form.Set("topic", topic)
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	app.Generate(rr, req)
	return rr
}

func TestGenerateSuccessStoresResult(t *testing.T) {
	stub := &stubGenerator{img: testImage(1024, 1024)}
	app := newTestApp(stub)
	sess, cookie := establishSession(t, app)
	stub.observe = sess

	rr := submitForm(app, cookie, "valid-token", "peace")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if stub.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", stub.calls)
	}
	if stub.phaseDuringCall != session.PhaseRequesting {
		t.Fatalf("phase during call = %v, want requesting", stub.phaseDuringCall)
	}
	if stub.lastCredential != "valid-token" {
		t.Fatalf("credential = %q", stub.lastCredential)
	}
	if stub.lastPrompt != mandala.BuildPrompt("peace") {
		t.Fatalf("prompt not built through the prompt builder: %q", stub.lastPrompt)
	}

	res := sess.Result()
	if res == nil {
		t.Fatalf("expected a stored result")
	}
	if res.SourceTopic != "peace" {
		t.Fatalf("source topic = %q, want peace", res.SourceTopic)
	}
	if res.PromptUsed != mandala.BuildPrompt("peace") {
		t.Fatalf("prompt used mismatch")
	}
	if res.Width != 1024 || res.Height != 1024 {
		t.Fatalf("dimensions = %dx%d, want 1024x1024", res.Width, res.Height)
	}
	if len(res.PNG) == 0 {
		t.Fatalf("result holds no encoded bytes")
	}
	if sess.Phase() != session.PhaseSucceeded {
		t.Fatalf("phase = %v, want succeeded", sess.Phase())
	}
}

func TestGenerateFailureLeavesSessionUnchanged(t *testing.T) {
	stub := &stubGenerator{err: fmt.Errorf("%w: status 500", domain.ErrFetch)}
	app := newTestApp(stub)
	sess, cookie := establishSession(t, app)

	prior := &session.Result{
		Bitmap:      image.NewRGBA(image.Rect(0, 0, 4, 4)),
		PNG:         []byte{1, 2, 3},
		PromptUsed:  mandala.BuildPrompt("love"),
		SourceTopic: "love",
		Width:       4,
		Height:      4,
		CreatedAt:   time.Now(),
	}
	sess.Complete(prior)

	rr := submitForm(app, cookie, "valid-token", "peace")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if sess.Result() != prior {
		t.Fatalf("failed generation mutated session state")
	}
	if sess.Phase() != session.PhaseFailed {
		t.Fatalf("phase = %v, want failed", sess.Phase())
	}
	if !strings.Contains(sess.LastError(), "status 500") {
		t.Fatalf("error message not surfaced: %q", sess.LastError())
	}
}

func TestGenerateMissingFieldsIssuesNoCall(t *testing.T) {
	cases := []struct {
		name   string
		apiKey string
		topic  string
	}{
		{"empty credential", "", "peace"},
		{"whitespace credential", "   ", "peace"},
		{"empty topic", "valid-token", ""},
		{"whitespace topic", "valid-token", "   "},
		{"topic too long", "valid-token", strings.Repeat("a", mandala.MaxTopicLength+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubGenerator{img: testImage(16, 16)}
			app := newTestApp(stub)
			sess, cookie := establishSession(t, app)

			rr := submitForm(app, cookie, tc.apiKey, tc.topic)
			if rr.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rr.Code)
			}
			if stub.calls != 0 {
				t.Fatalf("no outbound call may be issued, got %d", stub.calls)
			}
			if sess.Result() != nil {
				t.Fatalf("session state must be unchanged")
			}
			if sess.Phase() != session.PhaseIdle {
				t.Fatalf("phase = %v, want idle", sess.Phase())
			}
		})
	}
}

func TestGenerateWhileInFlightIsRefused(t *testing.T) {
	stub := &stubGenerator{img: testImage(16, 16)}
	app := newTestApp(stub)
	sess, cookie := establishSession(t, app)

	if err := sess.BeginGeneration(); err != nil {
		t.Fatalf("begin generation: %v", err)
	}
	rr := submitForm(app, cookie, "valid-token", "peace")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if stub.calls != 0 {
		t.Fatalf("in-flight session must not issue a second call")
	}
	if sess.Phase() != session.PhaseRequesting {
		t.Fatalf("phase = %v, want requesting", sess.Phase())
	}
}

func TestDownloadWithoutResult(t *testing.T) {
	app := newTestApp(&stubGenerator{})
	_, cookie := establishSession(t, app)

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	app.Download(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestDownloadServesDerivedFilename(t *testing.T) {
	stub := &stubGenerator{img: testImage(32, 32)}
	app := newTestApp(stub)
	sess, cookie := establishSession(t, app)

	submitForm(app, cookie, "valid-token", "inner peace")
	res := sess.Result()
	if res == nil {
		t.Fatalf("expected a stored result")
	}

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	app.Download(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	disposition := rr.Header().Get("Content-Disposition")
	want := fmt.Sprintf("attachment; filename=%s", res.Filename())
	if disposition != want {
		t.Fatalf("disposition = %q, want %q", disposition, want)
	}
	if !strings.HasPrefix(disposition, "attachment; filename=mandala_inner_peace_") {
		t.Fatalf("filename not derived from topic: %q", disposition)
	}
	if body := rr.Body.Bytes(); len(body) != len(res.PNG) {
		t.Fatalf("body bytes = %d, want %d", len(body), len(res.PNG))
	}
}

func TestHomeRendersResultAndError(t *testing.T) {
	stub := &stubGenerator{img: testImage(16, 16)}
	app := newTestApp(stub)
	sess, cookie := establishSession(t, app)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	app.Home(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Mandala Art Generator") {
		t.Fatalf("page title missing")
	}
	if strings.Contains(rr.Body.String(), "/download") {
		t.Fatalf("download link rendered without a result")
	}

	submitForm(app, cookie, "valid-token", "peace")

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	app.Home(rr, req)
	body := rr.Body.String()
	if !strings.Contains(body, "/download") {
		t.Fatalf("download link missing after success")
	}
	if !strings.Contains(body, "Peace") {
		t.Fatalf("title-cased caption missing")
	}

	sess.Fail("upstream said no")
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	app.Home(rr, req)
	if !strings.Contains(rr.Body.String(), "upstream said no") {
		t.Fatalf("error message not rendered")
	}
}

func TestHomeRendersLocalizedCopy(t *testing.T) {
	app := newTestApp(&stubGenerator{})
	_, cookie := establishSession(t, app)

	handler := middleware.Locale("en", nil)(http.HandlerFunc(app.Home))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), copyDecks["es"].SubmitLabel) {
		t.Fatalf("spanish copy missing")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), copyDecks["en"].SubmitLabel) {
		t.Fatalf("default english copy missing")
	}
}
