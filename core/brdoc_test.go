package core

import "testing"

func TestMaskCPF(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "partial 2", in: "11", want: "11"},
		{name: "partial 4", in: "1114", want: "111.4"},
		{name: "partial 7", in: "1114447", want: "111.444.7"},
		{name: "partial 10", in: "1114447773", want: "111.444.777-3"},
		{name: "full", in: "11144477735", want: "111.444.777-35"},
		{name: "truncates extra digits", in: "111444777350000", want: "111.444.777-35"},
		{name: "strips junk", in: "111a444b777c35", want: "111.444.777-35"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskCPF(tt.in); got != tt.want {
				t.Errorf("MaskCPF(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskCPF_idempotent(t *testing.T) {
	for _, in := range []string{"", "111", "1114447", "11144477735"} {
		once := MaskCPF(in)
		if twice := MaskCPF(once); twice != once {
			t.Errorf("MaskCPF not idempotent on %q: %q != %q", in, twice, once)
		}
		if len(once) > len("XXX.XXX.XXX-XX") {
			t.Errorf("MaskCPF(%q) output too long: %q", in, once)
		}
	}
}

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "known valid", in: "11144477735", want: true},
		{name: "masked valid", in: "111.444.777-35", want: true},
		{name: "too short", in: "1114447773", want: false},
		{name: "too long", in: "111444777350", want: false},
		{name: "all identical", in: "11111111111", want: false},
		{name: "all identical 0", in: "00000000000", want: false},
		{name: "first check digit mutated", in: "11144477745", want: false},
		{name: "second check digit mutated", in: "11144477736", want: false},
		{name: "empty", in: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCPF(tt.in); got != tt.want {
				t.Errorf("ValidateCPF(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "ddd only", in: "81", want: "(81"},
		{name: "partial 5", in: "81988", want: "(81) 988"},
		{name: "partial 8", in: "81988776", want: "(81) 9887-76"},
		{name: "landline", in: "8133445566", want: "(81) 3344-5566"},
		{name: "mobile", in: "81988776655", want: "(81) 98877-6655"},
		{name: "truncates extra digits", in: "8198877665544", want: "(81) 98877-6655"},
		{name: "already masked", in: "(81) 98877-6655", want: "(81) 98877-6655"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskPhone(tt.in); got != tt.want {
				t.Errorf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskPhone_idempotent(t *testing.T) {
	for _, in := range []string{"", "81", "81988", "8133445566", "81988776655"} {
		once := MaskPhone(in)
		if twice := MaskPhone(once); twice != once {
			t.Errorf("MaskPhone not idempotent on %q: %q != %q", in, twice, once)
		}
		if len(once) > len("(XX) XXXXX-XXXX") {
			t.Errorf("MaskPhone(%q) output too long: %q", in, once)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "8133445566", want: true},
		{in: "81988776655", want: true},
		{in: "(81) 98877-6655", want: true},
		{in: "819887766", want: false},
		{in: "819887766554", want: false},
		{in: "", want: false},
	}
	for _, tt := range tests {
		if got := ValidatePhone(tt.in); got != tt.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
