package gojaengine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jonwraymond/scriptexec/script"
)

func TestParseStack(t *testing.T) {
	stack := "TypeError: inner\n" +
		"\tat snippet.internal:3:9(4)\n" +
		"\tat helper (lib.js:10:2(7))\n" +
		"\tat async (native)\n" +
		"\tat native\n"

	want := []script.Frame{
		{File: "snippet.internal", Line: 3, Column: 9},
		{Function: "helper", File: "lib.js", Line: 10, Column: 2},
		{Function: "async", Native: true},
		{Native: true},
	}
	if got := parseStack(stack); !reflect.DeepEqual(got, want) {
		t.Errorf("parseStack() = %+v, want %+v", got, want)
	}
}

func TestConvert_PassesThroughOtherErrors(t *testing.T) {
	exc := &script.Exception{Class: "X"}
	if got := convert(exc); got != error(exc) {
		t.Errorf("convert(*Exception) = %v", got)
	}
	plain := errors.New("plain")
	if got := convert(plain); got != plain {
		t.Errorf("convert(plain) = %v", got)
	}
}
