package httpx

import (
	"net/http"
	"net/netip"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded first hop", headers: map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, remote: "10.0.0.2:80", want: "203.0.113.7"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, remote: "10.0.0.2:80", want: "198.51.100.4"},
		{name: "forwarded wins over real ip", headers: map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.4"}, want: "203.0.113.7"},
		{name: "remote addr", remote: "192.0.2.9:5555", want: "192.0.2.9"},
		{name: "remote without port", remote: "192.0.2.9", want: "192.0.2.9"},
		{name: "nothing", want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestClientMetaFromRequest_DefaultsUserAgent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Del("User-Agent")
	assert.Equal(t, "unknown", ClientMetaFromRequest(req).UserAgent)

	req.Header.Set("User-Agent", "curl/8.5")
	meta := ClientMetaFromRequest(req)
	assert.Equal(t, "curl/8.5", meta.UserAgent)
	assert.Equal(t, "192.0.2.1", meta.IPAddress)
}

func TestTrustedProxies_ClientKey(t *testing.T) {
	proxies := TrustedProxies{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name    string
		proxies TrustedProxies
		xff     string
		remote  string
		want    string
	}{
		{name: "no proxies ignores header", xff: "203.0.113.7", remote: "198.51.100.4:1234", want: "198.51.100.4"},
		{name: "untrusted peer ignores header", proxies: proxies, xff: "203.0.113.7", remote: "198.51.100.4:1234", want: "198.51.100.4"},
		{name: "trusted peer honours header", proxies: proxies, xff: "203.0.113.7, 10.1.1.1", remote: "10.0.0.2:80", want: "203.0.113.7"},
		{name: "trusted peer without header", proxies: proxies, remote: "10.0.0.2:80", want: "10.0.0.2"},
		{name: "mapped v4 peer", proxies: proxies, xff: "203.0.113.7", remote: "[::ffff:10.0.0.2]:80", want: "203.0.113.7"},
		{name: "unparseable peer", proxies: proxies, xff: "203.0.113.7", remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, tt.proxies.ClientKey(req))
		})
	}
}
