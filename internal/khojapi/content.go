package khojapi

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/khoj-ai/khoj-sync/internal/utils"
)

const apiContent = "/api/content"

// ContentAPI wraps the Khoj content ingestion endpoint. Uploads and deletes
// both go through the same multipart PATCH; a delete is an upload of empty
// content for the path, which the server treats as removal from its index.
type ContentAPI struct {
	client *req.Client
}

func newContentAPI(client *req.Client) *ContentAPI {
	return &ContentAPI{
		client: client,
	}
}

// Upload pushes one file to the server's content index. The server responds
// with the list of paths it indexed; an upload that is accepted with a 2xx
// but not echoed back is reported as ErrNotIndexed.
func (c *ContentAPI) Upload(ctx context.Context, params *UploadParams) error {
	if !utils.FileExists(params.FilePath) {
		return ErrFileNotFound
	}

	contentType := params.ContentType
	if contentType == "" {
		contentType = utils.DetectContentType(params.Path)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetRetryCount(0).
		SetFileUpload(req.FileUpload{
			ParamName:   "files",
			FileName:    params.Path,
			ContentType: contentType,
			GetFileContent: func() (io.ReadCloser, error) {
				return os.Open(params.FilePath)
			},
		}).
		Patch(apiContent)

	if err := handleAPIError(resp, err, "content upload"); err != nil {
		return err
	}

	if !strings.Contains(resp.String(), params.Path) {
		return ErrNotIndexed
	}

	return nil
}

// Delete removes a previously indexed path by re-uploading it as an empty
// file. This is the deletion contract of the Khoj API.
func (c *ContentAPI) Delete(ctx context.Context, path string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetRetryCount(0).
		SetFileUpload(req.FileUpload{
			ParamName:   "files",
			FileName:    path,
			ContentType: utils.DetectContentType(path),
			GetFileContent: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("")), nil
			},
		}).
		Patch(apiContent)

	if err := handleAPIError(resp, err, "content delete"); err != nil {
		return err
	}

	if !strings.Contains(resp.String(), path) {
		return ErrNotIndexed
	}

	return nil
}
