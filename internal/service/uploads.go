package service

import (
	"errors"

	"travel-journal-backend/internal/storage"
)

type pendingUpload struct {
	photo  *storage.DecodedPhoto
	assign func(path string)
}

// uploadBatch collects decoded photos during validation and writes them only once the
// whole request is known to be valid. Files are written before any row references them.
type uploadBatch struct {
	pending []pendingUpload
	written []string
}

func (b *uploadBatch) add(photo *storage.DecodedPhoto, assign func(path string)) {
	b.pending = append(b.pending, pendingUpload{photo: photo, assign: assign})
}

func (b *uploadBatch) write(store *storage.PhotoStore) error {
	for _, p := range b.pending {
		path, err := store.Save(p.photo)
		if err != nil {
			b.rollback(store)
			return err
		}
		b.written = append(b.written, path)
		p.assign(path)
	}
	return nil
}

// rollback removes files written by this batch; used when the database write fails.
func (b *uploadBatch) rollback(store *storage.PhotoStore) {
	store.RemoveAll(b.written)
	b.written = nil
}

func decodePhoto(store *storage.PhotoStore, in PhotoInput) (*storage.DecodedPhoto, error) {
	photo, err := store.Decode(in.FileName, in.Base64Content)
	switch {
	case errors.Is(err, storage.ErrPhotoTooLarge):
		return nil, invalidf("Photo %s exceeds %dMB limit", in.FileName, store.MaxBytes()/(1024*1024))
	case errors.Is(err, storage.ErrInvalidBase64):
		return nil, invalidf("Invalid base64 format for photo %s", in.FileName)
	case err != nil:
		return nil, err
	}
	return photo, nil
}
