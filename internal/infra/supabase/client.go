// Package supabase talks to a Supabase project's REST (PostgREST) endpoint.
package supabase

import (
	"fmt"
	"net/http"
	"strings"

	postgrest "github.com/supabase-community/postgrest-go"
)

const restPath = "/rest/v1"

// NewClient returns a PostgREST client for the project at projectURL
// (e.g. https://xyz.supabase.co) authenticated with the project API key.
// A nil rt sends requests through http.DefaultTransport.
func NewClient(projectURL, apiKey string, rt http.RoundTripper) (*postgrest.Client, error) {
	client := postgrest.NewClient(strings.TrimRight(projectURL, "/")+restPath, "", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("invalid supabase url %q: %w", projectURL, client.ClientError)
	}
	if rt != nil {
		client.Transport.Parent = rt
	}
	return client, nil
}
