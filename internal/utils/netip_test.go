package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"127.0.0.1", "::1", "10.0.0.0/8", " ", "garbage"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"::ffff:127.0.0.1", true},
		{"10.20.30.40", true},
		{"192.168.1.1", false},
		{"", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if NewIPMatcher(nil).IsEmpty() != true {
		t.Error("empty list should give an empty matcher")
	}
	if NewIPMatcher([]string{"garbage"}).IsEmpty() != true {
		t.Error("unparseable entries should be skipped")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "ipv6 remote", remote: "[::1]:7878", want: "::1"},
		{
			name:    "headers ignored without trust",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.1"},
			remote:  "192.0.2.1:1234",
			want:    "192.0.2.1",
		},
		{
			name:       "left-most forwarded",
			headers:    map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"},
			remote:     "127.0.0.1:1234",
			trustProxy: true,
			want:       "10.0.0.1",
		},
		{
			name: "cloudflare first",
			headers: map[string]string{
				"CF-Connecting-IP": "203.0.113.5",
				"X-Forwarded-For":  "10.0.0.1",
			},
			remote:     "127.0.0.1:1234",
			trustProxy: true,
			want:       "203.0.113.5",
		},
		{
			name:       "real ip fallback",
			headers:    map[string]string{"X-Real-IP": "10.9.9.9"},
			remote:     "127.0.0.1:1234",
			trustProxy: true,
			want:       "10.9.9.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
