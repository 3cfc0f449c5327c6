package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"profile-backend/internal/shared/util"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ErrNotFound indicates no object exists under the key.
var ErrNotFound = errors.New("object not found")

const documentPrefix = "profiles"

// DocumentKey returns the storage key of a submission's rendered document:
// profiles/<submissionID>/<fileName>.
func DocumentKey(submissionID, fileName string) (string, error) {
	id, err := util.SanitizeFileName(submissionID)
	if err != nil {
		return "", fmt.Errorf("submission id: %w", err)
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("file name: %w", err)
	}
	return path.Join(documentPrefix, id, name), nil
}
