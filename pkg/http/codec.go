package http

// Decoder populates a request struct from query or form values, driven by
// the struct's `schema` tags.
type Decoder interface {
	Decode(dst any, src map[string][]string) error
}
