package fingerprint

import "testing"

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum(tt.path).String(); got != tt.want {
				t.Errorf("Sum(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestSum_Deterministic(t *testing.T) {
	if Sum("/tmp/a") != Sum("/tmp/a") {
		t.Error("Sum is not deterministic")
	}
	if Sum("/tmp/a") == Sum("/tmp/a/") {
		t.Error("distinct strings produced the same digest")
	}
}
