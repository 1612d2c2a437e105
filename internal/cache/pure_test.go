package cache

import (
	"strings"
	"testing"
)

func TestRateLimitKey(t *testing.T) {
	t.Parallel()

	key := rateLimitKey("login", "192.0.2.1")
	if !strings.HasPrefix(key, "ratelimit:ip:login:") {
		t.Fatalf("rateLimitKey = %q, want login bucket prefix", key)
	}
	if strings.Contains(key, "192.0.2.1") {
		t.Errorf("rateLimitKey leaks the raw address: %q", key)
	}
	if got := len(strings.TrimPrefix(key, "ratelimit:ip:login:")); got != 16 {
		t.Errorf("hashed address length = %d, want 16", got)
	}

	tests := []struct {
		name           string
		bucketA, ipA   string
		bucketB, ipB   string
		wantSameBucket bool
	}{
		{"same client same route", "login", "192.0.2.1", "login", "192.0.2.1", true},
		{"same client other route", "login", "192.0.2.1", "register", "192.0.2.1", false},
		{"other client same route", "login", "192.0.2.1", "login", "192.0.2.2", false},
		{"IPv4 vs IPv6 loopback", "refresh", "127.0.0.1", "refresh", "::1", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			same := rateLimitKey(tt.bucketA, tt.ipA) == rateLimitKey(tt.bucketB, tt.ipB)
			if same != tt.wantSameBucket {
				t.Errorf("shared bucket = %v, want %v", same, tt.wantSameBucket)
			}
		})
	}
}

func TestBucketTTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rate  float64
		burst int
		want  int
	}{
		{"fast refill keeps the floor", 10, 20, 61},
		{"refill exactly one minute", 0.5, 30, 61},
		{"default login allowance", 0.5, 10, 61},
		{"slow refill outlives the floor", 0.01, 2, 201},
		{"fractional refill rounds up", 0.03, 10, 335},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := bucketTTL(tt.rate, tt.burst); got != tt.want {
				t.Errorf("bucketTTL(%v, %d) = %d, want %d", tt.rate, tt.burst, got, tt.want)
			}
		})
	}
}
