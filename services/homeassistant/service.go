// Package homeassistant serves the smart-home status panel: guest mode and
// a small set of monitored entity states read live from Home Assistant.
package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"denboard/models"
	"denboard/services/fetch"
	"denboard/services/settings"
)

// Service serves home status. Results are deliberately uncached: the panel
// polls on a short interval and stale switch states are worse than a brief
// fallback.
type Service struct {
	settings *settings.Service
	client   *fetch.Client
	token    string
}

// New creates the home status service. token is the Home Assistant bearer
// token from the environment.
func New(settingsSvc *settings.Service, client *fetch.Client, token string) *Service {
	return &Service{
		settings: settingsSvc,
		client:   client,
		token:    token,
	}
}

type entityState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Get returns the current home status. The payload is all-or-nothing: if any
// configured entity fails to resolve, the whole response degrades to the
// fallback rather than showing a partial, misleading panel.
func (s *Service) Get(ctx context.Context) models.HomeStatusPayload {
	st := s.settings.Load()
	ha := st.HomeAssistant

	if ha.BaseURL == "" || s.token == "" {
		return models.FallbackHomeStatus()
	}

	base := strings.TrimRight(ha.BaseURL, "/")
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)
	header.Set("Content-Type", "application/json")

	var (
		mu        sync.Mutex
		guestMode bool
		states    = make([]models.EntityState, len(ha.Entities))
	)

	p := pool.New().WithErrors().WithContext(ctx)

	if ha.GuestModeEntityID != "" {
		p.Go(func(ctx context.Context) error {
			entity, err := s.getEntity(ctx, base, header, ha.GuestModeEntityID)
			if err != nil {
				return err
			}
			mu.Lock()
			guestMode = entity.State == "on"
			mu.Unlock()
			return nil
		})
	}

	for i, cfg := range ha.Entities {
		i, cfg := i, cfg
		p.Go(func(ctx context.Context) error {
			entity, err := s.getEntity(ctx, base, header, cfg.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			states[i] = models.EntityState{
				ID:         cfg.ID,
				Label:      cfg.Label,
				State:      entity.State,
				Attributes: entity.Attributes,
			}
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		log.Printf("[homeassistant] status fetch failed: %v", err)
		return models.FallbackHomeStatus()
	}

	return models.HomeStatusPayload{
		GuestMode:  guestMode,
		Entities:   states,
		IsFallback: false,
	}
}

func (s *Service) getEntity(ctx context.Context, base string, header http.Header, id string) (entityState, error) {
	raw, err := s.client.Get(ctx, base+"/api/states/"+url.PathEscape(id), header)
	if err != nil {
		return entityState{}, fmt.Errorf("entity %s: %w", id, err)
	}
	var entity entityState
	if err := json.Unmarshal(raw, &entity); err != nil {
		return entityState{}, fmt.Errorf("parse entity %s: %w", id, err)
	}
	return entity, nil
}
