package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mandala/internal/domain"
	"mandala/internal/mandala"
	"mandala/internal/middleware"
	"mandala/internal/session"
)

type pageData struct {
	Copy       copyDeck
	Phase      session.Phase
	Requesting bool
	HasResult  bool
	Caption    string
	Topic      string
	PromptUsed string
	Width      int
	Height     int
	Filename   string
	ErrorMsg   string
	Model      string
	Size       string
	Quality    string
	MaxTopic   int
	CacheKey   int64
}

// Home renders the single page: the form, a pending indicator while a
// generation is in flight, the last result when present, and the last error
// when the previous attempt failed.
func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Get(w, r)
	phase := sess.Phase()
	data := pageData{
		Copy:       copyFor(middleware.LocaleFromContext(r.Context())),
		Phase:      phase,
		Requesting: phase == session.PhaseRequesting,
		ErrorMsg:   sess.LastError(),
		Model:      a.Config.ImageModel,
		Size:       a.Config.ImageSize,
		Quality:    a.Config.ImageQuality,
		MaxTopic:   mandala.MaxTopicLength,
	}
	if res := sess.Result(); res != nil {
		data.HasResult = true
		data.Topic = res.SourceTopic
		data.Caption = cases.Title(language.Und).String(res.SourceTopic)
		data.PromptUsed = res.PromptUsed
		data.Width = res.Width
		data.Height = res.Height
		data.Filename = res.Filename()
		data.CacheKey = res.CreatedAt.Unix()
	}
	a.render(w, data)
}

// Generate handles the submit action. Missing or oversized fields are a
// precondition failure, not a runtime error: the request is a no-op and no
// outbound call is issued. On provider failure the session state is left
// untouched and the provider message is surfaced verbatim.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Get(w, r)
	if err := r.ParseForm(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid form payload")
		return
	}
	credential := strings.TrimSpace(r.PostFormValue("api_key"))
	topic := strings.TrimSpace(r.PostFormValue("topic"))
	if credential == "" || mandala.ValidateTopic(topic) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := sess.BeginGeneration(); err != nil {
		// A second submit while one is in flight; the page shows the
		// pending state.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx := r.Context()
	if a.Config.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.GenerationTimeout)
		defer cancel()
	}

	prompt := mandala.BuildPrompt(topic)
	img, err := a.Images.Generate(ctx, credential, prompt)
	if err != nil {
		sess.Fail(err.Error())
		a.Logger.Warn().
			Str("kind", errorKind(err)).
			Str("topic", topic).
			Msg("generation failed")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess.Complete(&session.Result{
		Bitmap:      img.Bitmap,
		PNG:         mandala.EncodePNG(img.Bitmap),
		PromptUsed:  prompt,
		SourceTopic: topic,
		Width:       img.Width,
		Height:      img.Height,
		CreatedAt:   time.Now(),
	})
	a.Logger.Info().
		Str("topic", topic).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("mandala generated")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Download serves the session's encoded PNG as an attachment with the derived
// filename.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Get(w, r)
	res := sess.Result()
	if res == nil {
		a.error(w, http.StatusNotFound, "not_found", domain.ErrNoResult.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", res.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// Image serves the session's encoded PNG inline for the result panel.
func (a *App) Image(w http.ResponseWriter, r *http.Request) {
	sess := a.Sessions.Get(w, r)
	res := sess.Result()
	if res == nil {
		a.error(w, http.StatusNotFound, "not_found", domain.ErrNoResult.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return "auth"
	case errors.Is(err, domain.ErrFetch):
		return "fetch"
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	default:
		return "generation"
	}
}
