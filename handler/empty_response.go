package handler

import (
	"net/http"
	"strconv"
)

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates an empty response with status 204 (No Content).
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus creates an empty response with a custom status code.
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}

type blobResponse struct {
	contentType string
	data        []byte
	headers     map[string]string
}

func (b blobResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", b.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.data)))
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(b.data)
	return err
}

// Blob writes data as-is with the given content type, e.g. a PNG image.
// Extra headers are set before the status line.
func Blob(contentType string, data []byte, headers map[string]string) Response {
	return blobResponse{contentType: contentType, data: data, headers: headers}
}
