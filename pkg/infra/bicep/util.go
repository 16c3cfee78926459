package bicep

import (
	"bytes"
	"regexp"
	"sync"
	"text/template"

	"github.com/fabrikplatform/fabrik/pkg/sanitization"
	"github.com/iancoleman/strcase"
)

var validIdentifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*$`)

// mapKey renders a mapping key: bare when it is a legal identifier, quoted
// otherwise.
func mapKey(key string) string {
	if validIdentifierPattern.MatchString(key) {
		return key
	}
	return "'" + key + "'"
}

// TransformOutputName converts an aggregated output key into the
// environment-variable-shaped name used for top-level re-export, e.g.
// "azureStorageAccountId" becomes "AZURE_STORAGE_ACCOUNT_ID".
func TransformOutputName(key string) string {
	return sanitization.EnvVarKeySanitizer.Apply(strcase.ToScreamingSnake(key))
}

var bufPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func releaseBuffer(buf *bytes.Buffer) {
	bufPool.Put(buf)
}

func executeToString(tmpl *template.Template, data any) (string, error) {
	buf := getBuffer()
	defer releaseBuffer(buf)
	err := tmpl.Execute(buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
