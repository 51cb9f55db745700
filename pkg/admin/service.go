// Package admin provides typed access to the entities managed
// by the admin dashboard API.
package admin

import (
	"context"
	"fmt"

	"github.com/mandelsoft/admin/pkg/client"
	"github.com/mandelsoft/admin/pkg/envelope"
)

type Record = envelope.Record

// Service performs the CRUD operations of all kinds
// against a single client.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

func (s *Service) Client() *client.Client {
	return s.client
}

func (s *Service) List(ctx context.Context, k *Kind) ([]Record, error) {
	list, err := s.client.List(ctx, k.ListPath, k.Envelope...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.Name, err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, k *Kind, id string) (Record, error) {
	var r Record
	err := s.client.Get(ctx, k.Item(id), &r)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", k.Name, id, err)
	}
	return r, nil
}

// Create creates a new record. The created record is returned
// as delivered by the server.
func (s *Service) Create(ctx context.Context, k *Kind, body any) (Record, error) {
	var r Record
	err := s.client.Post(ctx, k.CreatePath, body, &r)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", k.Name, err)
	}
	return r, nil
}

// Update partially updates a record. If the server omits the id
// in its answer, the requested one is set.
func (s *Service) Update(ctx context.Context, k *Kind, id string, body any) (Record, error) {
	var r Record
	err := s.client.Patch(ctx, k.Item(id), body, &r)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", k.Name, id, err)
	}
	if r == nil {
		r = Record{}
	}
	if r.GetId() == "" {
		r.SetId(id)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, k *Kind, id string) error {
	err := s.client.Delete(ctx, k.Item(id))
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", k.Name, id, err)
	}
	return nil
}

func (s *Service) Dashboard(ctx context.Context) (*Summary, error) {
	var sum Summary
	err := s.client.Get(ctx, PATH_DASHBOARD, &sum)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &sum, nil
}

func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := s.client.Get(ctx, PATH_PROFILE, &p)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &p, nil
}

// UpdateCredentials stores the api credentials used for external
// integrations.
func (s *Service) UpdateCredentials(ctx context.Context, body any) error {
	err := s.client.Post(ctx, PATH_CREDENTIALS, body, nil)
	if err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	return nil
}
