package tsconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultFileName is the manifest filename TypeScript tooling looks for
// inside a package directory.
const DefaultFileName = "tsconfig.json"

// Reference is one project-reference edge: a path, relative to the owning
// manifest's directory, pointing at another manifest file or at a directory
// that holds one.
type Reference struct {
	Path string `json:"path"`
}

// CompilerOptions models the option keys the synchronizer reads or writes.
// Every unrecognized caller-authored option lands in Extra and survives a
// rewrite byte-for-byte.
type CompilerOptions struct {
	Composite *bool
	RootDir   string
	OutDir    string
	BaseURL   string
	Paths     map[string][]string
	Extra     map[string]json.RawMessage
}

// Config is a partially-typed build or navigation manifest. Recognized keys
// get fields; everything else is carried opaquely so a full rewrite never
// drops user configuration.
type Config struct {
	Extends         json.RawMessage
	CompilerOptions *CompilerOptions
	References      []Reference
	Extra           map[string]json.RawMessage

	// hasReferences remembers whether the source document carried a
	// references key, so a rewrite neither invents nor loses an empty list.
	hasReferences bool
}

// SetReferences replaces the reference list and marks the key present so it
// serializes even when empty.
func (c *Config) SetReferences(refs []Reference) {
	c.References = refs
	c.hasReferences = true
}

// ReferencePaths returns the reference targets in document order.
func (c *Config) ReferencePaths() []string {
	paths := make([]string, 0, len(c.References))
	for _, r := range c.References {
		paths = append(paths, r.Path)
	}
	return paths
}

// UnmarshalJSON splits the document into typed fields and the opaque
// passthrough bag.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		switch key {
		case "extends":
			c.Extends = val
		case "compilerOptions":
			opts := &CompilerOptions{}
			if err := json.Unmarshal(val, opts); err != nil {
				return fmt.Errorf("compilerOptions: %w", err)
			}
			c.CompilerOptions = opts
		case "references":
			c.hasReferences = true
			if err := json.Unmarshal(val, &c.References); err != nil {
				return fmt.Errorf("references: %w", err)
			}
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = val
		}
	}
	return nil
}

// MarshalJSON renders the document with a deterministic member order:
// extends first, then compilerOptions, then passthrough keys sorted by
// name, then references last. Stable order keeps repeated rewrites free of
// formatting churn.
func (c *Config) MarshalJSON() ([]byte, error) {
	var w objectWriter
	if c.Extends != nil {
		w.raw("extends", c.Extends)
	}
	if c.CompilerOptions != nil {
		w.member("compilerOptions", c.CompilerOptions)
	}
	for _, key := range sortedKeys(c.Extra) {
		w.raw(key, c.Extra[key])
	}
	if c.hasReferences || len(c.References) > 0 {
		refs := c.References
		if refs == nil {
			refs = []Reference{}
		}
		w.member("references", refs)
	}
	return w.finish()
}

func (o *CompilerOptions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		var err error
		switch key {
		case "composite":
			err = json.Unmarshal(val, &o.Composite)
		case "rootDir":
			err = json.Unmarshal(val, &o.RootDir)
		case "outDir":
			err = json.Unmarshal(val, &o.OutDir)
		case "baseUrl":
			err = json.Unmarshal(val, &o.BaseURL)
		case "paths":
			err = json.Unmarshal(val, &o.Paths)
		default:
			if o.Extra == nil {
				o.Extra = make(map[string]json.RawMessage)
			}
			o.Extra[key] = val
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (o *CompilerOptions) MarshalJSON() ([]byte, error) {
	var w objectWriter
	if o.Composite != nil {
		w.member("composite", *o.Composite)
	}
	if o.RootDir != "" {
		w.member("rootDir", o.RootDir)
	}
	if o.OutDir != "" {
		w.member("outDir", o.OutDir)
	}
	if o.BaseURL != "" {
		w.member("baseUrl", o.BaseURL)
	}
	if o.Paths != nil {
		w.member("paths", sortedPaths(o.Paths))
	}
	for _, key := range sortedKeys(o.Extra) {
		w.raw(key, o.Extra[key])
	}
	return w.finish()
}

// sortedPaths serializes an alias map with its patterns in sorted order.
// json.Marshal already sorts map keys, but doing it explicitly keeps the
// escaping consistent with the rest of the document.
func sortedPaths(paths map[string][]string) json.RawMessage {
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var w objectWriter
	for _, k := range keys {
		w.member(k, paths[k])
	}
	out, err := w.finish()
	if err != nil {
		// Plain strings and string slices cannot fail to marshal.
		panic(err)
	}
	return out
}

// objectWriter assembles a JSON object whose members appear exactly in the
// order they were added. encoding/json has no ordered map and the manifests
// must serialize deterministically.
type objectWriter struct {
	buf     bytes.Buffer
	started bool
	err     error
}

func (w *objectWriter) member(key string, value any) {
	if w.err != nil {
		return
	}
	data, err := marshalNoEscape(value)
	if err != nil {
		w.err = err
		return
	}
	w.raw(key, data)
}

func (w *objectWriter) raw(key string, value json.RawMessage) {
	if w.err != nil {
		return
	}
	if w.started {
		w.buf.WriteByte(',')
	} else {
		w.buf.WriteByte('{')
		w.started = true
	}
	name, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(name)
	w.buf.WriteByte(':')
	w.buf.Write(value)
}

func (w *objectWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if !w.started {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

// marshalNoEscape marshals without HTML escaping, so patterns like
// "src/**/*" and scoped names like "@theia/core" stay readable.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
