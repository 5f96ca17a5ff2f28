package script

import "strings"

const (
	requestOpenTag  = "<run-script"
	requestCloseTag = "</run-script>"
	purposeAttr     = `purpose="`
)

// Request is a snippet found in model output, together with the purpose
// the model stated for it.
type Request struct {
	Purpose string
	Source  string
}

// Extractor pulls <run-script purpose="..."> blocks out of streamed text.
// Incomplete blocks stay buffered until the chunk completing them arrives.
//
// An Extractor is not safe for concurrent use.
type Extractor struct {
	buf strings.Builder
}

// Feed appends chunk and returns every block completed by it, in order.
func (x *Extractor) Feed(chunk string) []Request {
	x.buf.WriteString(chunk)
	pending := x.buf.String()

	var out []Request
	for {
		req, rest, ok := nextRequest(pending)
		if !ok {
			break
		}
		out = append(out, req)
		pending = rest
	}

	x.buf.Reset()
	x.buf.WriteString(pending)
	return out
}

// Pending returns the buffered, not yet extracted text.
func (x *Extractor) Pending() string {
	return x.buf.String()
}

// ExtractAll returns every complete block in text.
func ExtractAll(text string) []Request {
	var x Extractor
	return x.Feed(text)
}

// nextRequest parses the first complete block of s and returns the text
// following it.
func nextRequest(s string) (Request, string, bool) {
	start := strings.Index(s, requestOpenTag)
	if start < 0 {
		return Request{}, s, false
	}
	attr := strings.Index(s[start:], purposeAttr)
	if attr < 0 {
		return Request{}, s, false
	}
	purposeStart := start + attr + len(purposeAttr)
	purposeLen := strings.IndexByte(s[purposeStart:], '"')
	if purposeLen < 0 {
		return Request{}, s, false
	}
	purposeEnd := purposeStart + purposeLen

	gt := strings.IndexByte(s[purposeEnd:], '>')
	if gt < 0 {
		return Request{}, s, false
	}
	contentStart := purposeEnd + gt + 1

	end := strings.Index(s[contentStart:], requestCloseTag)
	if end < 0 {
		return Request{}, s, false
	}
	contentEnd := contentStart + end

	return Request{
		Purpose: s[purposeStart:purposeEnd],
		Source:  strings.TrimSpace(s[contentStart:contentEnd]),
	}, s[contentEnd+len(requestCloseTag):], true
}
