package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "(201) 555-0123", want: "+12015550123"},
		{in: "+1 201 555 0123", want: "+12015550123"},
		{in: "  ", want: ""},
		{in: "not a number", want: "not a number"},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeE164PtrBlankIsNil(t *testing.T) {
	blank := " "
	if got := NormalizeE164Ptr(&blank); got != nil {
		t.Fatalf("expected nil, got %q", *got)
	}
	if got := NormalizeE164Ptr(nil); got != nil {
		t.Fatal("expected nil for nil input")
	}
}
