package entities

// UploadRequest identifies the built template to transfer.
type UploadRequest struct {
	Name       string
	Version    string
	Production bool
	KeyPath    string // private key used for the scp transfer
}
