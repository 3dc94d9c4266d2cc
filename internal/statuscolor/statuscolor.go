package statuscolor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/selimozcann/linktracer/internal/model"
)

// Class names the colour bucket of a status code.
type Class string

const (
	ClassSuccess  Class = "green"
	ClassRedirect Class = "blue"
	ClassClient   Class = "yellow"
	ClassServer   Class = "red"
	ClassOther    Class = "gray"
)

var statusTexts = map[int]string{
	200: "OK",
	301: "Moved Permanently",
	302: "Found (Temporary Redirect)",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	500: "Server Error",
}

// StatusText returns the short label shown next to a status code.
func StatusText(status int) string {
	if s, ok := statusTexts[status]; ok {
		return s
	}
	return "Status " + strconv.Itoa(status)
}

// ClassOf buckets status: 2xx green, 3xx blue, 4xx yellow, 5xx red, anything else gray.
func ClassOf(status int) Class {
	switch {
	case status >= 200 && status < 300:
		return ClassSuccess
	case status >= 300 && status < 400:
		return ClassRedirect
	case status >= 400 && status < 500:
		return ClassClient
	case status >= 500:
		return ClassServer
	default:
		return ClassOther
	}
}

var palette = map[Class]*color.Color{
	ClassSuccess:  color.New(color.FgGreen),
	ClassRedirect: color.New(color.FgBlue),
	ClassClient:   color.New(color.FgYellow),
	ClassServer:   color.New(color.FgRed),
	ClassOther:    color.New(color.FgHiBlack),
}

// Sprint returns a colorized "code - text" label. Failed requests print a gray dash.
func Sprint(status int) string {
	if status == 0 {
		return Gray("—")
	}
	return WrapByStatus(fmt.Sprintf("%d - %s", status, StatusText(status)), status)
}

// WrapByStatus wraps text with the colour that corresponds to status.
func WrapByStatus(text string, status int) string {
	return palette[ClassOf(status)].Sprint(text)
}

// Gray wraps text in the gray used for secondary details.
func Gray(text string) string {
	return palette[ClassOther].Sprint(text)
}

// PrintChain writes each hop with a colour-coded status code.
func PrintChain(w io.Writer, chain []model.Hop) {
	for i, h := range chain {
		fmt.Fprintf(w, "[%d] %s %s %s\n", i, h.URL, Sprint(h.Status), Gray(fmt.Sprintf("(%dms)", h.ResponseTimeMs)))
		fmt.Fprintf(w, "    %s %s\n", h.RedirectMethod, Gray(h.RedirectDetails))
		if h.Error != "" {
			fmt.Fprintf(w, "    %s\n", palette[ClassServer].Sprint("error: "+h.Error))
		}
	}
}
