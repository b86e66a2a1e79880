// Copyright (c) hellebusch.io
// SPDX-License-Identifier: MIT

package redact

import (
	"fmt"
	"strings"
)

var _ error = UnregisteredFieldError{}

// UnregisteredFieldError reports redaction directed at a field no
// registered rule covers. Apply treats this as a hard failure for the
// whole record.
type UnregisteredFieldError struct {
	Field string
}

func (e UnregisteredFieldError) Error() string {
	return fmt.Sprintf("no registered rule for field, field=%s", e.Field)
}

var _ error = UnknownStrategyError{}

// UnknownStrategyError reports a rule declared with a strategy this
// package does not implement.
type UnknownStrategyError struct {
	Field    string
	Strategy Strategy
}

func (e UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown redaction strategy, field=%s, strategy=%q", e.Field, string(e.Strategy))
}

var _ error = DuplicateRuleError{}

// DuplicateRuleError reports two rules registered for the same field.
type DuplicateRuleError struct {
	Field string
}

func (e DuplicateRuleError) Error() string {
	return fmt.Sprintf("fields may only have one rule, field=%s", e.Field)
}

func targetList(es []error) string {
	if len(es) == 1 {
		return fmt.Sprintf("1 redaction target without a rule:\n\t* %s", es[0])
	}
	points := make([]string, len(es))
	for i, err := range es {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d redaction targets without rules:\n\t%s", len(es), strings.Join(points, "\n\t"))
}
