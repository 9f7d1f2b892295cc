package headless

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{}, nil, nil)
	require.Error(t, err)
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	ex, err := New(Config{BaseURL: "https://clarity.fm"}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 20*time.Second, ex.cfg.WaitTimeout)
	require.Equal(t, 5, ex.cfg.MaxProfiles)
	require.NotNil(t, ex.logger)
}

func TestNew_KeepsExplicitSettings(t *testing.T) {
	t.Parallel()

	ex, err := New(Config{
		BaseURL:     "https://clarity.fm",
		WaitTimeout: 7 * time.Second,
		MaxProfiles: 3,
	}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 7*time.Second, ex.cfg.WaitTimeout)
	require.Equal(t, 3, ex.cfg.MaxProfiles)
}

func TestWebsocketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		token    string
		want     string
	}{
		{
			name:     "token appended as a query parameter",
			endpoint: "wss://chrome.browserless.io",
			token:    "abc123",
			want:     "wss://chrome.browserless.io?token=abc123",
		},
		{
			name:     "token is url escaped",
			endpoint: "wss://chrome.browserless.io",
			token:    "a b&c",
			want:     "wss://chrome.browserless.io?token=a+b%26c",
		},
		{
			name:     "no token leaves the endpoint untouched",
			endpoint: "wss://chrome.browserless.io",
			want:     "wss://chrome.browserless.io",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ex, err := New(Config{BaseURL: "https://clarity.fm", Endpoint: tt.endpoint, Token: tt.token}, nil, nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, ex.websocketURL())
		})
	}
}
