package errcode

import (
	"errors"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = BtnUninitialized
	if err.Error() != "btn_uninitialized" {
		t.Fatalf("Error()=%q", err.Error())
	}
	if !errors.Is(err, BtnUninitialized) {
		t.Fatal("errors.Is failed for bare code")
	}
}

func TestOf(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("Of(nil) != OK")
	}
	if Of(InvalidParams) != InvalidParams {
		t.Fatal("Of(bare code) lost the code")
	}
	wrapped := &E{C: BtnUninitialized, Op: "state", Err: errors.New("boom")}
	if Of(wrapped) != BtnUninitialized {
		t.Fatal("Of(E) lost the code")
	}
	if Of(errors.New("misc")) != Error {
		t.Fatal("Of(plain) should fall back to Error")
	}
}

func TestEWrapping(t *testing.T) {
	cause := errors.New("cause")
	e := &E{C: InvalidParams, Msg: "press_ticks must be >= 1", Err: cause}
	if e.Error() != "invalid_params: press_ticks must be >= 1" {
		t.Fatalf("Error()=%q", e.Error())
	}
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap chain broken")
	}
}
