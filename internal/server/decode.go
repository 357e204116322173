package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// decodeRequest accepts JSON from API clients and form posts from the
// web frontends, decoding into the same tagged input struct.
func (s *Service) decodeRequest(r *http.Request, dst any) error {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("parse form: %w", err)
		}
		if err := decoder.Decode(dst, r.Form); err != nil {
			return fmt.Errorf("decode form: %w", err)
		}
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}
