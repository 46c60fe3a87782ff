// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argtypes

import (
	"net/url"
	"reflect"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/targslib/targs/pkg/targs"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	semverType   = reflect.TypeOf(&semver.Version{})
	urlType      = reflect.TypeOf(&url.URL{})
	sliceType    = reflect.TypeOf(&Slice{})
	rangeType    = reflect.TypeOf(&Range{})
	indicesType  = reflect.TypeOf(&Indices{})
)

// ForType picks the coercion function for a Go type, used by the
// deduction layer when a field carries no explicit type rule. Pointer
// types resolve to their element's coercion. Unknown types report false.
func ForType(t reflect.Type) (targs.TypeFunc, bool) {
	switch t {
	case durationType:
		return Duration, true
	case uuidType:
		return UUID, true
	case semverType:
		return SemVer, true
	case urlType:
		return URL, true
	case sliceType:
		return SliceType, true
	case rangeType:
		return RangeType, true
	case indicesType:
		return IndicesType, true
	}
	if t.Kind() == reflect.Pointer {
		return ForType(t.Elem())
	}
	switch t.Kind() {
	case reflect.String:
		return String, true
	case reflect.Bool:
		return Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint, true
	case reflect.Float32, reflect.Float64:
		return Float, true
	}
	return nil, false
}
