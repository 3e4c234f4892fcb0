package codegen

import (
	"go/format"
	"strings"

	"github.com/sapodata/odatagen/internal/compiler/errors"
)

// FailedName returns the file name unformattable output is written to.
func FailedName(name string) string {
	return strings.TrimSuffix(name, ".go") + "_failed.go"
}

// Format runs gofmt over src. When src does not parse, it is returned
// unchanged together with a GEN601 diagnostic naming the _failed.go file the
// caller should write instead of name.
func Format(name string, src []byte) ([]byte, *errors.CompilerError) {
	out, err := format.Source(src)
	if err != nil {
		return src, errors.NewFormatFailed(FailedName(name), err)
	}
	return out, nil
}
