package httpx

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/unievents/unievents-api/internal/service"
)

const unknownClient = "unknown"

// ClientIP returns the first X-Forwarded-For entry, then X-Real-IP, then the
// connection's remote host. It is recorded on sessions and never used as a
// security key; see TrustedProxies.ClientKey.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return PeerIP(r)
}

// PeerIP returns the host of the connection's remote address.
func PeerIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return unknownClient
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// TrustedProxies are the peers allowed to name the client via forwarding headers.
type TrustedProxies []netip.Prefix

// ClientKey identifies the client for throttling. Forwarding headers count
// only when the direct peer is a trusted proxy.
func (t TrustedProxies) ClientKey(r *http.Request) string {
	peer := PeerIP(r)
	if len(t) == 0 {
		return peer
	}
	addr, err := netip.ParseAddr(peer)
	if err != nil {
		return peer
	}
	addr = addr.Unmap()
	for _, p := range t {
		if p.Contains(addr) {
			return ClientIP(r)
		}
	}
	return peer
}

// ClientMetaFromRequest collects the client details recorded on a new session.
func ClientMetaFromRequest(r *http.Request) service.ClientMeta {
	ua := strings.TrimSpace(r.UserAgent())
	if ua == "" {
		ua = unknownClient
	}
	return service.ClientMeta{IPAddress: ClientIP(r), UserAgent: ua}
}
