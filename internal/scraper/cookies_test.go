package scraper

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetCookies_CanceledContextYieldsNone(t *testing.T) {
	cm := NewCookieManager()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cookies, err := cm.GetCookies(ctx, "https://www.youtube.com/@somechannel")
	require.NoError(t, err)
	require.Empty(t, cookies)
}

func TestSaveCookiesToFile_NetscapeFormat(t *testing.T) {
	cm := NewCookieManager()

	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cm.cookies["youtube.com"] = []*http.Cookie{
		{
			Name:    "SESSION",
			Value:   "abc123",
			Path:    "/",
			Domain:  "www.youtube.com",
			Secure:  true,
			Expires: expires,
		},
	}

	path := filepath.Join(t.TempDir(), "cookies.txt")
	err := cm.SaveCookiesToFile(context.Background(), "https://www.youtube.com/@somechannel", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	require.True(t, strings.HasPrefix(out, "# Netscape HTTP Cookie File"))
	require.Contains(t, out, ".www.youtube.com\tFALSE\t/\tTRUE\t"+
		"1767225600\tSESSION\tabc123")
}
