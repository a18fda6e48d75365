package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// HostRefresh forces the cached host answers to be asked again.
type HostRefresh struct {
	Server bool
	Token  bool
	Owner  bool
}

// HostLinker resolves which host, token and owner the project is released
// under, caching each answer so later runs do not prompt again.
type HostLinker struct {
	hosts       repositories.HostRepositoryProvider
	credentials repositories.CredentialRepository
	prompt      repositories.PromptRepository
}

// NewHostLinker creates a HostLinker.
func NewHostLinker(
	hosts repositories.HostRepositoryProvider,
	credentials repositories.CredentialRepository,
	prompt repositories.PromptRepository,
) *HostLinker {
	return &HostLinker{hosts: hosts, credentials: credentials, prompt: prompt}
}

// Prepare resolves the host and fills in the owner of identity.
func (it *HostLinker) Prepare(
	ctx context.Context,
	identity *entities.RepositoryIdentity,
	refresh HostRefresh,
) (repositories.HostRepository, entities.RemoteRepository, error) {
	hostType, err := it.resolveHostType(refresh.Server)
	if err != nil {
		return nil, entities.RemoteRepository{}, err
	}

	token, err := it.resolveToken(hostType, refresh.Token)
	if err != nil {
		return nil, entities.RemoteRepository{}, err
	}

	host, err := it.hosts.Get(hostType, token)
	if err != nil {
		return nil, entities.RemoteRepository{}, err
	}

	if ownerErr := it.resolveOwner(ctx, host, identity, refresh.Owner); ownerErr != nil {
		return nil, entities.RemoteRepository{}, ownerErr
	}

	remote := entities.RemoteRepository{
		HostType:  hostType,
		Token:     token,
		RemoteURL: host.RemoteURL(identity.Login, identity.Name),
	}
	logger.Infof("Remote repository: %s", remote.RemoteURL)
	return host, remote, nil
}

// EnsureRepo creates the remote repository under the resolved owner unless it
// already exists. A creation that races an existing repository is accepted.
func (it *HostLinker) EnsureRepo(
	ctx context.Context,
	host repositories.HostRepository,
	identity entities.RepositoryIdentity,
) error {
	repo, err := host.GetRepo(ctx, identity.Login, identity.Name)
	if err != nil {
		return fmt.Errorf("failed to look up remote repository: %w", err)
	}
	if repo != nil {
		logger.Infof("Remote repository %s already exists", repo.FullName)
		return nil
	}

	if identity.OwnerKind == entities.OwnerOrg {
		repo, err = host.CreateOrgRepo(ctx, identity.Name, identity.Login)
	} else {
		repo, err = host.CreateRepo(ctx, identity.Name)
	}
	if errors.Is(err, entities.ErrRepositoryExists) {
		logger.Infof("Remote repository %s/%s already exists", identity.Login, identity.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create remote repository: %w", err)
	}
	if repo == nil {
		return fmt.Errorf("failed to create remote repository %s/%s", identity.Login, identity.Name)
	}
	logger.Infof("Created remote repository %s", repo.FullName)
	return nil
}

func (it *HostLinker) resolveHostType(refresh bool) (entities.HostType, error) {
	cached, err := it.credentials.Read(entities.KeyHostType)
	if err != nil {
		return "", err
	}
	if cached != "" && !refresh {
		logger.Debugf("Using cached host %s", cached)
		return entities.HostType(cached), nil
	}

	answer, err := it.prompt.Select("Select a Git host", it.hosts.Choices(), "")
	if err != nil {
		return "", fmt.Errorf("failed to read host: %w", err)
	}
	if answer == "" {
		return "", fmt.Errorf("%w: no Git host selected", entities.ErrConfiguration)
	}
	if writeErr := it.credentials.Write(entities.KeyHostType, answer); writeErr != nil {
		return "", writeErr
	}
	logger.Infof("Host saved to %s", it.credentials.Path(entities.KeyHostType))
	return entities.HostType(answer), nil
}

func (it *HostLinker) resolveToken(hostType entities.HostType, refresh bool) (string, error) {
	cached, err := it.credentials.Read(entities.KeyToken)
	if err != nil {
		return "", err
	}
	if cached != "" && !refresh {
		return cached, nil
	}

	// the URLs are only known once the host is resolved
	host, err := it.hosts.Get(hostType, "")
	if err != nil {
		return "", err
	}
	logger.Warnf("A %s token is required, generate one at %s (help: %s)",
		hostType, host.TokenURL(), host.TokenHelpURL())

	token, err := it.prompt.Password("Token")
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", entities.ErrMissingToken
	}
	if writeErr := it.credentials.Write(entities.KeyToken, token); writeErr != nil {
		return "", writeErr
	}
	logger.Infof("Token saved to %s", it.credentials.Path(entities.KeyToken))
	return token, nil
}

func (it *HostLinker) resolveOwner(
	ctx context.Context,
	host repositories.HostRepository,
	identity *entities.RepositoryIdentity,
	refresh bool,
) error {
	ownerKind, err := it.credentials.Read(entities.KeyOwnerKind)
	if err != nil {
		return err
	}
	login, err := it.credentials.Read(entities.KeyLogin)
	if err != nil {
		return err
	}
	if ownerKind != "" && login != "" && !refresh {
		identity.OwnerKind = entities.OwnerKind(ownerKind)
		identity.Login = login
		logger.Debugf("Using cached owner %s (%s)", login, ownerKind)
		return nil
	}

	user, err := host.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if user == nil || user.Login == "" {
		return fmt.Errorf("%w: the host did not return a user for this token", entities.ErrRemoteAuth)
	}
	orgs, err := host.GetOrgs(ctx, user.Login)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	identity.OwnerKind = entities.OwnerUser
	identity.Login = user.Login
	if len(orgs) > 0 {
		if chooseErr := it.chooseOwner(user, orgs, identity); chooseErr != nil {
			return chooseErr
		}
	}

	if writeErr := it.credentials.Write(entities.KeyOwnerKind, string(identity.OwnerKind)); writeErr != nil {
		return writeErr
	}
	if writeErr := it.credentials.Write(entities.KeyLogin, identity.Login); writeErr != nil {
		return writeErr
	}
	logger.Infof("Owner %s (%s) saved", identity.Login, identity.OwnerKind)
	return nil
}

func (it *HostLinker) chooseOwner(
	user *entities.HostUser,
	orgs []entities.HostOrg,
	identity *entities.RepositoryIdentity,
) error {
	kind, err := it.prompt.Select("Select the repository owner type", []entities.Choice{
		{Name: "User", Value: string(entities.OwnerUser)},
		{Name: "Organization", Value: string(entities.OwnerOrg)},
	}, string(entities.OwnerUser))
	if err != nil {
		return fmt.Errorf("failed to read owner type: %w", err)
	}
	if entities.OwnerKind(kind) != entities.OwnerOrg {
		return nil
	}

	choices := make([]entities.Choice, 0, len(orgs))
	for _, org := range orgs {
		choices = append(choices, entities.Choice{Name: org.Login, Value: org.Login})
	}
	login, err := it.prompt.Select("Select the organization", choices, orgs[0].Login)
	if err != nil {
		return fmt.Errorf("failed to read organization: %w", err)
	}
	identity.OwnerKind = entities.OwnerOrg
	identity.Login = login
	logger.Debugf("Releasing under organization %s (user %s)", login, user.Login)
	return nil
}
