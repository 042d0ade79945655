package object

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"careerprep-backend/internal/shared/util"
)

// UploadKey builds the slash-separated key an upload is stored under:
// the owner's hashed namespace, then a UUID joined to the sanitized file name.
func UploadKey(ownerID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.OwnerKey(ownerID), uuid.NewString()+"_"+name), nil
}

// Sniff detects the content type from the first 512 bytes and returns a
// reader that still yields the whole stream.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
