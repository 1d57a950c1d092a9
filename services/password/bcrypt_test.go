package pwdsvc

import "testing"

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(true)
	hash, err := h.Hash("Str0ng!Pass#42")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name string
		pwd  string
		want bool
	}{
		{"same password", "Str0ng!Pass#42", true},
		{"other password", "Str0ng!Pass#43", false},
		{"empty password", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Verify(tt.pwd, hash); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}
