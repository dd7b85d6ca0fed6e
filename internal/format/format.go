package format

import (
	"encoding/json"
	"io"
)

// Formatter abstracts how CLI payloads are rendered to a stream.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes one JSON document per payload. A non-empty Indent
// pretty-prints nested structures such as diff rows.
type JSONFormatter struct {
	Indent string
}

// Write encodes payload as JSON followed by a newline.
func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(payload)
}
