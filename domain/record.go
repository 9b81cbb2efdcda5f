package domain

import "time"

// Record is the shape every collection shares: a prefixed id, the
// module-specific fields as a document, an optional stored file and the
// audit stamps. CreatedBy/ModifiedBy reference an admin id and are never
// embedded or dereferenced here.
type Record struct {
	ID         string
	Data       map[string]interface{}
	File       *StoredFile
	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt *time.Time
}

// StoredFile is what the file storage collaborator hands back for an
// upload. The ID is an internal storage handle and must never leave the
// service; only the links are public.
type StoredFile struct {
	ID            string `json:"fileId"`
	ShareableLink string `json:"shareableLink"`
	DownloadLink  string `json:"downloadLink"`
}

// Blob is an uploaded file body on its way into storage.
type Blob struct {
	Name        string
	ContentType string
	Content     []byte
}

// Public returns the response projection of the record: domain fields,
// id, timestamps and the file links. Audit references and the storage
// file id are excluded by contract.
func (r *Record) Public() map[string]interface{} {
	if r == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(r.Data)+4)
	for k, v := range r.Data {
		out[k] = v
	}
	out["id"] = r.ID
	out["createdAt"] = r.CreatedAt
	if r.ModifiedAt != nil {
		out["modifiedAt"] = *r.ModifiedAt
	}
	if r.File != nil {
		out["shareableLink"] = r.File.ShareableLink
		out["downloadLink"] = r.File.DownloadLink
	}
	return out
}

// Clone returns a deep copy so callers can mutate freely.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Data = make(map[string]interface{}, len(r.Data))
	for k, v := range r.Data {
		out.Data[k] = v
	}
	if r.File != nil {
		f := *r.File
		out.File = &f
	}
	if r.ModifiedAt != nil {
		t := *r.ModifiedAt
		out.ModifiedAt = &t
	}
	return &out
}
