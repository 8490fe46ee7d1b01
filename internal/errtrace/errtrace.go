// Package errtrace renders nested errors as an indented, human-readable trace.
package errtrace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const indent = "  "

// Format flattens err and its causes into a multi-line trace. Every line
// holds one error's own message, indented by its depth in the chain.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	write(&b, err, 0)
	return strings.TrimRight(b.String(), "\n")
}

func write(b *strings.Builder, err error, depth int) {
	if merr, ok := err.(*multierror.Error); ok {
		line(b, depth, fmt.Sprintf("%d errors occurred", len(merr.Errors)))
		for _, e := range merr.Errors {
			write(b, e, depth+1)
		}
		return
	}

	if u, ok := err.(interface{ Unwrap() []error }); ok {
		causes := u.Unwrap()
		line(b, depth, fmt.Sprintf("%d errors occurred", len(causes)))
		for _, e := range causes {
			write(b, e, depth+1)
		}
		return
	}

	cause := errors.Unwrap(err)
	if cause == nil {
		line(b, depth, err.Error())
		return
	}

	msg := strings.TrimSuffix(err.Error(), ": "+cause.Error())
	if msg == cause.Error() {
		write(b, cause, depth)
		return
	}
	line(b, depth, msg)
	write(b, cause, depth+1)
}

func line(b *strings.Builder, depth int, msg string) {
	for _, l := range strings.Split(msg, "\n") {
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

// IsCanceled reports whether err stems from a cancelled or timed-out context
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
