// Package form reads portal form posts and validates them before anything is
// sent upstream.
package form

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

const maxMemory = 32 << 20

// Collector reads trimmed values from a submitted form.
type Collector struct {
	values url.Values
	files  map[string][]*multipart.FileHeader
}

// FromRequest parses a urlencoded or multipart request body.
func FromRequest(r *http.Request) (*Collector, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	c := &Collector{values: r.Form}
	if r.MultipartForm != nil {
		c.files = r.MultipartForm.File
	}
	return c, nil
}

// New wraps already parsed values.
func New(values url.Values) *Collector {
	return &Collector{values: values}
}

// Value returns the trimmed first value of a field.
func (c *Collector) Value(name string) string {
	return strings.TrimSpace(c.values.Get(name))
}

// Checked returns every submitted value of a checkbox group in submission order.
// Blank values are dropped.
func (c *Collector) Checked(group string) []string {
	var out []string
	for _, v := range c.values[group] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// File returns the uploaded file for name, or nil when none was attached.
func (c *Collector) File(name string) *multipart.FileHeader {
	fhs := c.files[name]
	if len(fhs) == 0 || fhs[0].Size == 0 && fhs[0].Filename == "" {
		return nil
	}
	return fhs[0]
}
