package khojapi

// UploadParams describes one file to push to the content index.
type UploadParams struct {
	// Path is the sync-dir-relative, slash-separated path used as the
	// document's identity on the server.
	Path string

	// FilePath is the absolute path of the file on disk.
	FilePath string

	// ContentType overrides MIME detection when set.
	ContentType string
}
