package errors

import (
	"reflect"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// Use this function to combine results of independent checks that must all be
// reported together, for example all field validation failures of a model.
// The result implements the unpacker interface so that Is and FieldErrors can
// inspect each member.
func Append(errs ...error) error {
	var res multiError
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		// Flatten members to keep the collection a single level deep.
		if u, ok := err.(unpacker); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, err)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

type multiError []error

func (e multiError) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unpack implements the unpacker interface.
func (e multiError) Unpack() []error {
	return e
}

// unpacker is implemented by errors that hold multiple member errors. Unpack
// must return all of them.
type unpacker interface {
	Unpack() []error
}

// isNilErr tests an error for being nil, including a typed nil carried in an
// error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if v := reflect.ValueOf(err); v.Kind() == reflect.Ptr && v.IsNil() {
		return true
	}
	return false
}
