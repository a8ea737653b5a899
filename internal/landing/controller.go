package landing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bolao/internal/models"
	"bolao/internal/poolservice"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrInvalidTitle       = errors.New("invalid pool title")
	ErrSubmissionInFlight = errors.New("pool creation already in progress")
)

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Dialog shows a blocking confirmation to the visitor.
type Dialog interface {
	Alert(message string)
}

type PoolCreator interface {
	CreatePool(ctx context.Context, request models.PoolCreationRequest) (poolservice.PoolResponse, error)
}

// Controller holds what every landing page instance shares: the backend, the
// counter aggregation and the page-generation snapshot.
type Controller struct {
	pools     PoolCreator
	counters  Snapshotter
	snapshots *SnapshotStore
	validate  *validator.Validate
}

func NewController(pools PoolCreator, counters Snapshotter, snapshots *SnapshotStore) *Controller {
	return &Controller{
		pools:     pools,
		counters:  counters,
		snapshots: snapshots,
		validate:  validator.New(),
	}
}

// NewPage generates a page whose counters start from the cached snapshot.
func (c *Controller) NewPage(ctx context.Context, clipboard Clipboard, dialog Dialog) *Page {
	return &Page{
		controller: c,
		Counters:   NewCounterState(c.snapshots.Load(ctx)),
		Form:       &Form{},
		clipboard:  clipboard,
		dialog:     dialog,
	}
}

// FreshCounters reads the backend directly, bypassing the page-generation
// snapshot.
func (c *Controller) FreshCounters(ctx context.Context) models.CounterSnapshot {
	return c.counters.Snapshot(ctx)
}

// Page is one instance of the landing page and its transient UI state.
type Page struct {
	controller *Controller
	Counters   *CounterState
	Form       *Form
	clipboard  Clipboard
	dialog     Dialog
}

// RefreshCounters re-reads the counters into this page only. The cached
// page-generation snapshot is left untouched.
func (p *Page) RefreshCounters(ctx context.Context) {
	p.Counters.Update(p.controller.FreshCounters(ctx))
}

// Submit creates a pool named after the title input. An invalid title is
// returned before anything is sent. Once the request is sent, failures are
// logged and swallowed: the input keeps its value and nothing else happens.
func (p *Page) Submit(ctx context.Context) error {
	request := models.PoolCreationRequest{Title: strings.TrimSpace(p.Form.Value())}
	if err := p.controller.validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTitle, err)
	}

	if !p.Form.begin() {
		return ErrSubmissionInFlight
	}
	defer p.Form.end()

	if err := p.createPool(ctx, request); err != nil {
		zap.L().Error("Failed to create pool", zap.String("title", request.Title), zap.Error(err))
	}
	return nil
}

func (p *Page) createPool(ctx context.Context, request models.PoolCreationRequest) error {
	resp, err := p.controller.pools.CreatePool(ctx, request)
	if err != nil {
		return err
	}

	// Counters are refreshed as soon as the backend answers, before its body
	// is interpreted.
	p.RefreshCounters(ctx)

	result, err := resp.Decode()
	if err != nil {
		return err
	}

	if err = p.clipboard.WriteText(ctx, result.Code); err != nil {
		return fmt.Errorf("failed to copy invite code: %w", err)
	}

	p.dialog.Alert(ConfirmationMessage(request.Title))
	p.Form.Clear()

	return nil
}

func ConfirmationMessage(title string) string {
	return fmt.Sprintf(
		"Bolão %s criado com sucesso, o código foi copiado para a área de transferência.",
		title,
	)
}
