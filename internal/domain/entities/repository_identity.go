package entities

// OwnerKind says whether the remote repository belongs to a user or an organization.
type OwnerKind string

const (
	OwnerUser OwnerKind = "user"
	OwnerOrg  OwnerKind = "org"
)

// RepositoryIdentity describes the local project being released.
// Everything but Version is fixed once resolved.
type RepositoryIdentity struct {
	Name      string
	Version   string
	Dir       string
	Login     string
	OwnerKind OwnerKind
}

// HostType names a supported remote hosting provider.
type HostType string

const (
	HostGitee  HostType = "gitee"
	HostGitHub HostType = "github"
)

// RemoteRepository is the resolved link between the project and its host.
type RemoteRepository struct {
	HostType  HostType
	Token     string
	RemoteURL string
}

// HostUser is the authenticated account on a host.
type HostUser struct {
	Login string
	Name  string
}

// HostOrg is an organization the authenticated account belongs to.
type HostOrg struct {
	Login string
}

// HostRepo is a repository as reported by a host.
type HostRepo struct {
	FullName string
	SSHURL   string
	HTMLURL  string
}

// Choice is a single selectable option presented to the operator.
type Choice struct {
	Name  string
	Value string
}

// Keys of the small cache files stored under the tool home directory.
const (
	KeyHostType  = ".git_server"
	KeyToken     = ".git_token"
	KeyOwnerKind = ".git_own"
	KeyLogin     = ".git_login"
	KeyPublish   = ".git_publish"
	KeyUploadKey = ".git_upload_key"
)

// PublishTarget is where a built template is transferred after a build.
type PublishTarget string

const (
	PublishNone PublishTarget = "none"
	PublishSSH  PublishTarget = "ssh"
)
