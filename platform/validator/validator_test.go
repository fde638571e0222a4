package validator

import "testing"

type stageRequest struct {
	Stage string `validate:"required,stage"`
}

func TestRegisterStringEnum(t *testing.T) {
	val := New()
	if err := val.RegisterStringEnum("stage", func(s string) bool { return s == "qualified" }); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := val.Struct(stageRequest{Stage: "qualified"}); err != nil {
		t.Fatalf("expected known value to pass: %v", err)
	}
	if err := val.Struct(stageRequest{Stage: "bogus"}); err == nil {
		t.Fatal("expected unknown value to fail")
	}
	if err := val.Struct(stageRequest{}); err == nil {
		t.Fatal("expected required to reject empty value")
	}
}
