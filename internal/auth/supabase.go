// internal/auth/supabase.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseProvider resolves tokens through the GoTrue user endpoint
// (GET {url}/auth/v1/user) using the service role key.
type SupabaseProvider struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewSupabaseProvider(baseURL, serviceKey string, client *http.Client) *SupabaseProvider {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &SupabaseProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     client,
	}
}

func (p *SupabaseProvider) GetUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase get user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("supabase get user: status %d", resp.StatusCode)
	}

	var u User
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return nil, fmt.Errorf("supabase get user: decode: %w", err)
	}
	if u.ID == "" {
		return nil, ErrNoUser
	}
	return &u, nil
}
