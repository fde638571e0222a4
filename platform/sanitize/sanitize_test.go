package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "  Sunny   3 bed home ", want: "Sunny 3 bed home"},
		{name: "tags", in: "<p>Great <b>views</b></p>", want: "Great views"},
		{name: "entities", in: "Tom &amp; Jerry &lt;3", want: "Tom & Jerry <3"},
		{name: "script dropped", in: "Hi<script>alert(1)</script> there", want: "Hi there"},
		{name: "line breaks", in: "one<br/>two", want: "one two"},
	}

	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("%s: StripHTML(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestTextPtrNil(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil")
	}
}
