package binder

import (
	"fmt"
	"net/http"
)

// Path creates a binder for router path parameters. extractor is called with
// the name from each `path:"name"` tag; pass chi.URLParam for chi routers.
// Empty values leave the field at its zero value.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}

		rv, err := structTarget(v, ErrFailedToParsePath)
		if err != nil {
			return err
		}

		values := make(map[string][]string)
		rt := rv.Type()
		for i := range rt.NumField() {
			name, ok := fieldName(rt.Field(i), "path")
			if !ok {
				continue
			}
			if value := extractor(r, name); value != "" {
				values[name] = []string{value}
			}
		}

		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
