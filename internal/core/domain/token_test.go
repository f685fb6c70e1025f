package domain

import (
	"testing"
	"time"
)

func TestToken_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future expiry", now.Add(time.Hour), false},
		{"past expiry", now.Add(-time.Second), true},
		{"expires exactly now", now, true},
		{"one nanosecond left", now.Add(time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &Token{AccessToken: "a", ExpiresAt: tt.expiresAt}
			if got := tok.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    Region
		wantErr bool
	}{
		{"eu", RegionEU, false},
		{"com", RegionUS, false},
		{"in", RegionIN, false},
		{"com.au", RegionAU, false},
		{"jp", RegionJP, false},
		{"com.cn", RegionCN, false},
		{"", DefaultRegion, false},
		{"mars", "", true},
		{"EU", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRegion(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRegion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegion_Domains(t *testing.T) {
	if got := RegionEU.AccountsDomain(); got != "https://accounts.zoho.eu" {
		t.Errorf("AccountsDomain() = %q", got)
	}
	if got := RegionEU.APIDomain(); got != "https://www.zohoapis.eu" {
		t.Errorf("APIDomain() = %q", got)
	}
	if got := RegionAU.AccountsDomain(); got != "https://accounts.zoho.com.au" {
		t.Errorf("AccountsDomain() = %q", got)
	}
}
