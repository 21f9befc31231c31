// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errhand

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// VerboseError is an error with a short display message and longer details shown on request.
type VerboseError interface {
	error
	Verbose() string
}

type DErrorBuilder struct {
	dispMsg string
	details string
	cause   error
}

func BuildDError(dispFmt string, args ...interface{}) *DErrorBuilder {
	return &DErrorBuilder{dispMsg: sprintf(dispFmt, args...)}
}

// BuildIf returns nil if |err| is nil, so that a chain of builder calls ending in Build yields a nil VerboseError.
func BuildIf(err error, dispFmt string, args ...interface{}) *DErrorBuilder {
	if err == nil {
		return nil
	}
	return &DErrorBuilder{dispMsg: sprintf(dispFmt, args...), cause: err}
}

func (builder *DErrorBuilder) AddDetails(detailsFmt string, args ...interface{}) *DErrorBuilder {
	if builder == nil {
		return nil
	}
	if len(builder.details) > 0 {
		builder.details += "\n"
	}
	builder.details += sprintf(detailsFmt, args...)
	return builder
}

func (builder *DErrorBuilder) AddCause(cause error) *DErrorBuilder {
	if builder == nil {
		return nil
	}
	builder.cause = cause
	return builder
}

func (builder *DErrorBuilder) Build() VerboseError {
	if builder == nil {
		return nil
	}
	return &DError{DisplayMsg: builder.dispMsg, Details: builder.details, cause: builder.cause}
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

type DError struct {
	DisplayMsg string
	Details    string
	cause      error
}

// VerboseErrorFromError converts |err| into a VerboseError, displaying its message. Returns nil for a nil error.
func VerboseErrorFromError(err error) VerboseError {
	if err == nil {
		return nil
	}
	if verr, ok := err.(VerboseError); ok {
		return verr
	}
	return &DError{DisplayMsg: err.Error(), cause: err}
}

func (derr *DError) Error() string {
	return color.RedString(derr.DisplayMsg)
}

func (derr *DError) Unwrap() error {
	return derr.cause
}

// Verbose renders the display message, any details, and the cause chain.
func (derr *DError) Verbose() string {
	sections := []string{derr.Error()}
	if derr.Details != "" {
		sections = append(sections, derr.Details)
	}

	if derr.cause != nil && derr.cause.Error() != derr.DisplayMsg {
		var causeStr string
		if vCause, ok := derr.cause.(VerboseError); ok {
			causeStr = vCause.Verbose()
		} else {
			causeStr = derr.cause.Error()
		}
		sections = append(sections, "cause:", indent(causeStr, "\t\t"))
	}

	return strings.Join(sections, "\n")
}

func indent(str, indentStr string) string {
	lines := strings.Split(str, "\n")
	return indentStr + strings.Join(lines, "\n"+indentStr)
}
