package models

import "testing"

// TestProfileNeeds2FA verifies 2FA detection based on TOTPEnabled and
// TOTPSecret fields.
func TestProfileNeeds2FA(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"

	tests := []struct {
		name        string
		totpSecret  *string
		totpEnabled bool
		want        bool
	}{
		{name: "no secret and not enabled", totpSecret: nil, totpEnabled: false, want: false},
		{name: "secret set but not enabled", totpSecret: &secret, totpEnabled: false, want: false},
		{name: "secret set and enabled", totpSecret: &secret, totpEnabled: true, want: true},
		{name: "nil secret but enabled (edge case)", totpSecret: nil, totpEnabled: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{TOTPSecret: tt.totpSecret, TOTPEnabled: tt.totpEnabled}
			if got := p.Needs2FA(); got != tt.want {
				t.Errorf("Needs2FA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileName(t *testing.T) {
	name := "Ada"
	empty := ""
	tests := []struct {
		name    string
		display *string
		want    string
	}{
		{name: "display name set", display: &name, want: "Ada"},
		{name: "display name empty", display: &empty, want: "ada@example.com"},
		{name: "display name nil", display: nil, want: "ada@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Email: "ada@example.com", DisplayName: tt.display}
			if got := p.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
