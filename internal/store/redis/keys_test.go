package redis

import (
	"testing"
	"time"
)

func TestUsageKeys(t *testing.T) {
	if got := UsageKey("sample"); got != "topdoor:usage:sample" {
		t.Errorf("UsageKey() = %q", got)
	}
	if got := AllUsageKey(); got != "topdoor:usage:all" {
		t.Errorf("AllUsageKey() = %q", got)
	}
}

func TestExtractGroupID(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "topdoor:usage:sample", want: "sample"},
		{key: "topdoor:usage:", wantErr: true},
		{key: "other:usage:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ExtractGroupID(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractGroupID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractGroupID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseUsage(t *testing.T) {
	u := parseUsage(map[string]string{"count": "12", "last_launched": "1700000000"})
	if u.Count != 12 {
		t.Errorf("Count = %v, want 12", u.Count)
	}
	if !u.LastLaunched.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("LastLaunched = %v", u.LastLaunched)
	}

	u = parseUsage(map[string]string{"count": "oops"})
	if u.Count != 0 || !u.LastLaunched.IsZero() {
		t.Errorf("parseUsage() with bad fields = %+v, want zero", u)
	}
}
