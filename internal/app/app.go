package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rolodex-hq/rolodex-cli/internal/config"
	"github.com/rolodex-hq/rolodex-cli/internal/domain"
	"github.com/rolodex-hq/rolodex-cli/internal/logger"
	"github.com/rolodex-hq/rolodex-cli/pkg/contacts"
	"github.com/rolodex-hq/rolodex-cli/pkg/httpclient"
	"github.com/rolodex-hq/rolodex-cli/pkg/profiles"
)

// API is the slice of the contacts client the commands talk to.
// Commands never construct requests themselves; tests inject fakes here.
type API interface {
	List(ctx context.Context, opts contacts.ListOptions) ([]domain.Contact, error)
	Get(ctx context.Context, id int64) (domain.Contact, error)
	Create(ctx context.Context, contact domain.Contact) error
	Update(ctx context.Context, contact domain.Contact) error
	Delete(ctx context.Context, id int64) error
	UpcomingBirthdays(ctx context.Context) ([]domain.Contact, error)
}

var _ API = (*contacts.Client)(nil)

// App is the CLI runtime: one resolved API endpoint plus command dispatch.
type App struct {
	cfg *config.Config
	api API
	log *zap.SugaredLogger
}

// New wires an App from config: profile resolution, transport, client.
func New(cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	baseURL := cfg.APIBaseURL
	var headers map[string]string

	if cfg.ProfilesFile != "" {
		if err := profiles.LoadProfiles(cfg.ProfilesFile); err != nil {
			return nil, fmt.Errorf("load profiles registry: %w", err)
		}

		var p profiles.Profile
		var ok bool
		if cfg.Profile != "" {
			p, ok = profiles.ProfileByID(cfg.Profile)
			if !ok {
				return nil, fmt.Errorf("unknown profile %q", cfg.Profile)
			}
		} else {
			p, ok = profiles.DefaultProfile()
		}
		if ok {
			baseURL = p.BaseURL
			headers = profiles.Headers(p)
			logger.InfoObj("profile resolved", "profile_meta", map[string]any{
				"id":       p.ID,
				"base_url": p.BaseURL,
			})
		}
	}

	if baseURL == "" {
		return nil, fmt.Errorf("no API base URL resolved (set api_base_url or a profile)")
	}

	client := contacts.
		NewClient(httpclient.NewRestyClient(cfg.HTTPTimeout), baseURL).
		WithLogger(log).
		WithHeaders(headers)

	return &App{cfg: cfg, api: client, log: log}, nil
}

// NewWithAPI builds an App around an existing API implementation.
func NewWithAPI(api API, log *zap.SugaredLogger) *App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &App{api: api, log: log}
}
