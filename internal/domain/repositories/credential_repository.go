package repositories

// CredentialRepository persists the small key files kept under the tool home
// directory. Each key is independent of the others.
type CredentialRepository interface {
	// Read returns the stored value, or an empty string if the key was never written.
	Read(key string) (string, error)
	Write(key, value string) error
	// Path returns where the key is stored, for log output.
	Path(key string) string
}

// CredentialRepositoryFactory opens the store rooted at homePath.
type CredentialRepositoryFactory func(homePath string) (CredentialRepository, error)
