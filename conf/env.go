package conf

import (
	"bytes"
	"io"
	"os"
	"regexp"
)

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// NewEnvExpandedReader replaces ${VAR} references with values from the
// environment. Unset variables expand to the empty string. Any other `$`,
// such as $VAR or $$, is left as written.
func NewEnvExpandedReader(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	expanded := envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := envRef.FindSubmatch(ref)[1]
		return []byte(os.Getenv(string(name)))
	})

	return bytes.NewReader(expanded), nil
}
