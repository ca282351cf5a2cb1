/*
 * errors.go, part of goMol.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mol

import (
	"errors"
	"fmt"
	"strings"
)

//Kind classifies the errors returned by the package. Kinds are compared with
//errors.Is against the Err* sentinels.
type Kind int

const (
	KindInvalidHandle Kind = iota + 1
	KindDuplicateName
	KindGeometryRejected
	KindNameSpaceExhausted
	KindInconsistentAtomCounts
	KindEditorActive
	KindEditorClosed
	KindOutOfRange
	KindAltGroup
)

var kindNames = map[Kind]string{
	KindInvalidHandle:          "invalid handle",
	KindDuplicateName:          "duplicate name",
	KindGeometryRejected:       "geometry rejected",
	KindNameSpaceExhausted:     "name space exhausted",
	KindInconsistentAtomCounts: "inconsistent atom counts",
	KindEditorActive:           "editor already active",
	KindEditorClosed:           "editor closed",
	KindOutOfRange:             "out of range",
	KindAltGroup:               "alternate location group",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

//Sentinels for errors.Is.
var (
	ErrInvalidHandle          = &Error{kind: KindInvalidHandle, msg: "invalid handle"}
	ErrDuplicateName          = &Error{kind: KindDuplicateName, msg: "duplicate name"}
	ErrGeometryRejected       = &Error{kind: KindGeometryRejected, msg: "geometry rejected"}
	ErrNameSpaceExhausted     = &Error{kind: KindNameSpaceExhausted, msg: "name space exhausted", critical: true}
	ErrInconsistentAtomCounts = &Error{kind: KindInconsistentAtomCounts, msg: "inconsistent atom counts", critical: true}
	ErrEditorActive           = &Error{kind: KindEditorActive, msg: "an editor is already active"}
	ErrEditorClosed           = &Error{kind: KindEditorClosed, msg: "editor closed"}
	ErrOutOfRange             = &Error{kind: KindOutOfRange, msg: "out of range"}
	ErrAltGroup               = &Error{kind: KindAltGroup, msg: "alternate location group"}
)

//Error is the error type of goMol. Besides a message, it carries the
//functions in the calling stack that decided to report it ("decorations")
//and whether it is critical, i.e. the whole operation that received it has
//to be abandoned.
type Error struct {
	kind     Kind
	msg      string
	deco     []string
	critical bool
}

//NewError returns an error of kind k, decorated with caller. Kinds
//NameSpaceExhausted and InconsistentAtomCounts are critical.
func NewError(k Kind, caller, format string, a ...interface{}) *Error {
	err := &Error{kind: k, msg: fmt.Sprintf(format, a...)}
	err.critical = k == KindNameSpaceExhausted || k == KindInconsistentAtomCounts
	err.Decorate(caller)
	return err
}

//Error returns a string with the error message and decorations.
func (err *Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("%s: %s", err.kind, err.msg)
	}
	return fmt.Sprintf("%s: %s: %s", strings.Join(err.deco, ": "), err.kind, err.msg)
}

//Decorate adds dec to the decoration slice of the error and returns the
//resulting slice. An empty dec just returns the current slice. The
//outermost caller goes first.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append([]string{dec}, err.deco...)
	return err.deco
}

//Critical returns whether the error is critical.
func (err *Error) Critical() bool { return err.critical }

//Kind returns the kind of the error.
func (err *Error) Kind() Kind { return err.kind }

//Is matches errors of the same kind, so errors.Is(err, ErrInvalidHandle)
//works for any invalid handle error.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == err.kind
}

//errDecorate adds caller to the decorations of err if it is a *Error,
//and returns it. Other errors are wrapped.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
		return err
	}
	return fmt.Errorf("%s: %w", caller, err)
}

//IsCritical reports whether err, or an error it wraps, is a critical goMol error.
func IsCritical(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Critical()
	}
	return false
}
