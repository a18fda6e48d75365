package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/httpclient"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/shell"
)

const templateFile = "index.html"

// TemplateUploader downloads the template the build service published to the
// object store and copies it to the static host with scp.
type TemplateUploader struct {
	client *retryablehttp.Client
	runner shell.Runner
}

var _ repositories.UploaderRepository = (*TemplateUploader)(nil)

// NewTemplateUploader creates an uploader with the default retrying client.
func NewTemplateUploader(runner shell.Runner) *TemplateUploader {
	return NewTemplateUploaderWithClient(httpclient.New(), runner)
}

// NewTemplateUploaderWithClient creates an uploader on a custom HTTP client.
func NewTemplateUploaderWithClient(client *retryablehttp.Client, runner shell.Runner) *TemplateUploader {
	return &TemplateUploader{client: client, runner: runner}
}

// TemplateURL returns <artifact_url>/<prod|dev>/<name>/<version>/index.html.
func TemplateURL(artifactURL string, req entities.UploadRequest) (string, error) {
	env := "dev"
	if req.Production {
		env = "prod"
	}
	u, err := url.JoinPath(artifactURL, env, req.Name, req.Version, templateFile)
	if err != nil {
		return "", fmt.Errorf("%w: invalid artifact_url %q: %w", entities.ErrConfiguration, artifactURL, err)
	}
	return u, nil
}

func (p *TemplateUploader) Upload(
	ctx context.Context,
	publish entities.PublishSettings,
	req entities.UploadRequest,
) error {
	if req.KeyPath == "" {
		return fmt.Errorf("%w: no SSH key for the upload", entities.ErrConfiguration)
	}
	source, err := TemplateURL(publish.ArtifactURL, req)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "shipflow-upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, templateFile)
	if fetchErr := p.fetch(ctx, source, localPath); fetchErr != nil {
		return fetchErr
	}

	destination := fmt.Sprintf("%s@%s:%s", publish.SSHUser, publish.SSHHost, publish.SSHPath)
	logger.Infof("Copying %s to %s", source, destination)
	if _, runErr := p.runner.Run(ctx, tmpDir, "scp", "-i", req.KeyPath, localPath, destination); runErr != nil {
		return fmt.Errorf("failed to copy template: %w", runErr)
	}
	return nil
}

func (p *TemplateUploader) fetch(ctx context.Context, source, localPath string) error {
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to download template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download template %s: HTTP %d", source, resp.StatusCode)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	if _, copyErr := io.Copy(file, resp.Body); copyErr != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write template: %w", copyErr)
	}
	return file.Close()
}
