package supabase

import (
	"fmt"
	"strings"

	"clementus360/wellness-sessions/config"

	"github.com/supabase-community/supabase-go"
)

// NewClient creates the server-side Supabase client. The key should be the
// service role key: ownership is enforced by the store's filters, not by RLS.
func NewClient(apiURL, apiKey string) (*supabase.Client, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}

	client, err := supabase.NewClient(strings.TrimRight(apiURL, "/"), apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	config.Logger.WithField("url", apiURL).Info("Supabase client ready")
	return client, nil
}
