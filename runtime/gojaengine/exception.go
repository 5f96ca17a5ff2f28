package gojaengine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/jonwraymond/scriptexec/script"
)

// maxCauseDepth bounds cause chains, which scripts may build cyclically.
const maxCauseDepth = 16

// stackLine matches one frame of an Error's stack property, e.g.
// "at fn (file.js:3:5(12))" or "at native".
var stackLine = regexp.MustCompile(`^\s*at (?:(.+?) \()?(?:native|(.+):(\d+):(\d+)\(\d+\))\)?$`)

// convert translates an evaluation error into a *script.Exception.
func convert(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &script.Exception{
			Class:   "InterruptedError",
			Message: fmt.Sprint(interrupted.Value()),
			Frames:  frames(interrupted.Stack()),
		}
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		exc := fromValue(ex.Value(), 0)
		exc.Frames = frames(ex.Stack())
		return exc
	}

	var exc *script.Exception
	if errors.As(err, &exc) {
		return exc
	}
	return err
}

// fromValue builds an exception from a thrown script value. Frames of the
// outermost value come from the throw site and are set by the caller.
func fromValue(v goja.Value, depth int) *script.Exception {
	obj, ok := v.(*goja.Object)
	if !ok {
		msg := "undefined"
		if v != nil {
			msg = v.String()
		}
		return &script.Exception{Class: "Uncaught", Message: msg}
	}

	if goErr := goError(obj); goErr != nil {
		var exc *script.Exception
		if errors.As(goErr, &exc) {
			return &script.Exception{Class: exc.Class, Message: exc.Message, Cause: exc}
		}
		return &script.Exception{Class: "GoError", Message: goErr.Error()}
	}

	exc := &script.Exception{
		Class:   stringProperty(obj, "name"),
		Message: stringProperty(obj, "message"),
	}
	if exc.Class == "" {
		exc.Class = obj.ClassName()
	}
	if cause := obj.Get("cause"); cause != nil && !goja.IsUndefined(cause) && depth < maxCauseDepth {
		exc.Cause = fromValue(cause, depth+1)
		if co, ok := cause.(*goja.Object); ok && exc.Cause.Frames == nil {
			exc.Cause.Frames = parseStack(stringProperty(co, "stack"))
		}
	}
	return exc
}

// goError returns the Go error carried by a GoError object.
func goError(obj *goja.Object) error {
	if stringProperty(obj, "name") != "GoError" {
		return nil
	}
	v := obj.Get("value")
	if v == nil {
		return nil
	}
	err, _ := v.Export().(error)
	return err
}

func stringProperty(obj *goja.Object, name string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func frames(stack []goja.StackFrame) []script.Frame {
	out := make([]script.Frame, 0, len(stack))
	for i := range stack {
		f := &stack[i]
		pos := f.Position()
		out = append(out, script.Frame{
			Function: funcName(f.FuncName()),
			File:     pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
			Native:   pos.Line == 0,
		})
	}
	return out
}

// parseStack reads the frames out of an Error's stack property.
func parseStack(stack string) []script.Frame {
	var out []script.Frame
	for _, line := range strings.Split(stack, "\n") {
		m := stackLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		f := script.Frame{Function: funcName(m[1]), File: m[2]}
		if m[2] == "" {
			f.Native = true
		} else {
			f.Line, _ = strconv.Atoi(m[3])
			f.Column, _ = strconv.Atoi(m[4])
		}
		out = append(out, f)
	}
	return out
}

func funcName(name string) string {
	if name == "<anonymous>" {
		return ""
	}
	return name
}
