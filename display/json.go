// Package display formats structured command output.
package display

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/teranos/astbuild/errors"
)

// MarshalJSON marshals v as indented JSON with sorted map keys
func MarshalJSON(v interface{}) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	return data, nil
}

// OutputJSON writes v to w using MarshalJSON, newline terminated
func OutputJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
