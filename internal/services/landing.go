package services

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	c "bolao/internal/cache"
	"bolao/internal/configuration"
	apierrors "bolao/internal/errors"
	h "bolao/internal/helpers"
	"bolao/internal/landing"
	m "bolao/internal/middlewares"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxFormBytes = 4 << 10

const (
	noticeBadForm         = "Não foi possível ler o formulário, tente novamente."
	noticeTooManyRequests = "Muitas tentativas. Tente novamente em %d segundos."
)

type LandingService struct {
	Controller        *landing.Controller
	Renderer          *landing.Renderer
	Cache             c.ICache
	TrustedProxies    []string
	FormRateLimit     int
	CountersRateLimit int
}

func (s LandingService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", s.ShowPage)
	r.With(m.RateLimitFunc(s.Cache, s.TrustedProxies, configuration.RateLimitScopeForm, s.FormRateLimit, s.rejectSubmission)).
		Post("/", s.SubmitPool)
	r.With(m.RateLimit(s.Cache, s.TrustedProxies, configuration.RateLimitScopeCounters, s.CountersRateLimit)).
		Get("/counters", s.GetCounters)

	return r
}

// ShowPage renders the landing page from the page-generation snapshot.
func (s LandingService) ShowPage(w http.ResponseWriter, r *http.Request) {
	effects := &landing.ResponseEffects{}
	page := s.Controller.NewPage(r.Context(), effects, effects)
	s.render(w, http.StatusOK, landing.NewPageView(page, effects))
}

// SubmitPool handles the create-pool form and renders the same page back.
// Backend failures still render with 200: the input keeps its value and no
// invite code is shown.
func (s LandingService) SubmitPool(w http.ResponseWriter, r *http.Request) {
	title, err := readTitle(w, r)
	if err != nil {
		zap.L().Warn("Failed to read pool form", zap.Error(err))
		s.renderRejection(w, r, apierrors.NewAPIError(http.StatusBadRequest, apierrors.ErrBadRequest), "", noticeBadForm)
		return
	}

	effects := &landing.ResponseEffects{}
	page := s.Controller.NewPage(r.Context(), effects, effects)
	page.Form.SetValue(title)

	status := http.StatusOK
	titleInvalid := false

	err = page.Submit(r.Context())
	switch {
	case errors.Is(err, landing.ErrInvalidTitle):
		status = http.StatusUnprocessableEntity
		titleInvalid = true
	case err != nil:
		zap.L().Error("Unexpected pool submission error", zap.Error(err))
		h.RespondWithError(w, http.StatusInternalServerError, []string{apierrors.ErrInternalServer})
		return
	}

	view := landing.NewPageView(page, effects)
	view.TitleInvalid = titleInvalid
	if view.InviteCode != "" {
		view.SubmittedTitle = title
	}
	s.render(w, status, view)
}

// GetCounters returns a fresh snapshot read directly from the backend.
func (s LandingService) GetCounters(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, s.Controller.FreshCounters(r.Context()))
}

// rejectSubmission answers a rate-limited form post with the page, keeping
// whatever the visitor typed.
func (s LandingService) rejectSubmission(w http.ResponseWriter, r *http.Request, retryAfter int) {
	title, _ := readTitle(w, r)
	s.renderRejection(w, r,
		apierrors.NewAPIError(http.StatusTooManyRequests, apierrors.ErrTooManyRequests),
		title,
		fmt.Sprintf(noticeTooManyRequests, retryAfter),
	)
}

func (s LandingService) renderRejection(
	w http.ResponseWriter,
	r *http.Request,
	apiErr *apierrors.APIError,
	title string,
	notice string,
) {
	zap.L().Info("Pool submission rejected", zap.Int("status", apiErr.Code), zap.String("code", apiErr.Message))

	page := s.Controller.NewPage(r.Context(), nil, nil)
	page.Form.SetValue(title)

	view := landing.NewPageView(page, nil)
	view.Notice = notice
	s.render(w, apiErr.Code, view)
}

func (s LandingService) render(w http.ResponseWriter, status int, view landing.PageView) {
	var buf bytes.Buffer
	if err := s.Renderer.Render(&buf, view); err != nil {
		zap.L().Error("Failed to render landing page", zap.Error(err))
		h.RespondWithError(w, http.StatusInternalServerError, []string{apierrors.ErrInternalServer})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		zap.L().Warn("Failed to write landing page", zap.Error(err))
	}
}

func readTitle(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("failed to parse form: %w", err)
	}
	return r.PostForm.Get("title"), nil
}
