package backup

import "mime/multipart"

// RestorePayload carries the uploaded database file. The binder fills
// FormFiles from the multipart form.
type RestorePayload struct {
	FormFiles map[string]*multipart.FileHeader `json:"-"`
}
