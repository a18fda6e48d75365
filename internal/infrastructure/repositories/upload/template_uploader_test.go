//go:build unit

package upload_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/httpclient"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/upload"
)

type recordingRunner struct {
	err      error
	name     string
	args     []string
	uploaded string
}

func (r *recordingRunner) Run(_ context.Context, _ string, name string, args ...string) (string, error) {
	r.name = name
	r.args = args
	if len(args) >= 3 { //nolint:mnd // -i key file
		content, _ := os.ReadFile(args[2])
		r.uploaded = string(content)
	}
	return "", r.err
}

func newUploader(runner *recordingRunner) *upload.TemplateUploader {
	client := httpclient.New()
	client.RetryMax = 0
	return upload.NewTemplateUploaderWithClient(client, runner)
}

func publishSettings(artifactURL string) entities.PublishSettings {
	return entities.PublishSettings{
		ArtifactURL: artifactURL,
		SSHUser:     "deploy",
		SSHHost:     "static.example",
		SSHPath:     "/var/www/app",
	}
}

func TestTemplateURL(t *testing.T) {
	t.Parallel()

	t.Run("should place production builds under prod", func(t *testing.T) {
		t.Parallel()
		// given
		req := entities.UploadRequest{Name: "app", Version: "1.2.0", Production: true}

		// when
		u, err := upload.TemplateURL("https://oss.example/", req)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://oss.example/prod/app/1.2.0/index.html", u)
	})

	t.Run("should place development builds under dev", func(t *testing.T) {
		t.Parallel()
		// given
		req := entities.UploadRequest{Name: "app", Version: "1.2.0"}

		// when
		u, err := upload.TemplateURL("https://oss.example", req)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://oss.example/dev/app/1.2.0/index.html", u)
	})
}

func TestTemplateUploaderUpload(t *testing.T) {
	t.Parallel()

	t.Run("should download the template and scp it to the host", func(t *testing.T) {
		t.Parallel()
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/prod/app/1.2.0/index.html", r.URL.Path)
			_, _ = w.Write([]byte("<html>app</html>"))
		}))
		t.Cleanup(server.Close)
		runner := &recordingRunner{}
		req := entities.UploadRequest{Name: "app", Version: "1.2.0", Production: true, KeyPath: "/keys/id_rsa"}

		// when
		err := newUploader(runner).Upload(context.Background(), publishSettings(server.URL), req)

		// then
		require.NoError(t, err)
		assert.Equal(t, "scp", runner.name)
		require.Len(t, runner.args, 4)
		assert.Equal(t, []string{"-i", "/keys/id_rsa"}, runner.args[:2])
		assert.Equal(t, "deploy@static.example:/var/www/app", runner.args[3])
		assert.Equal(t, "<html>app</html>", runner.uploaded)
	})

	t.Run("should not run scp when the template is missing", func(t *testing.T) {
		t.Parallel()
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)
		runner := &recordingRunner{}
		req := entities.UploadRequest{Name: "app", Version: "1.2.0", KeyPath: "/keys/id_rsa"}

		// when
		err := newUploader(runner).Upload(context.Background(), publishSettings(server.URL), req)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
		assert.Empty(t, runner.name)
	})

	t.Run("should surface a failed transfer", func(t *testing.T) {
		t.Parallel()
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		t.Cleanup(server.Close)
		runner := &recordingRunner{err: errors.New("permission denied (publickey)")}
		req := entities.UploadRequest{Name: "app", Version: "1.2.0", KeyPath: "/keys/id_rsa"}

		// when
		err := newUploader(runner).Upload(context.Background(), publishSettings(server.URL), req)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("should reject a request without a key", func(t *testing.T) {
		t.Parallel()
		// given
		runner := &recordingRunner{}

		// when
		err := newUploader(runner).Upload(context.Background(), publishSettings("https://oss.example"), entities.UploadRequest{})

		// then
		require.ErrorIs(t, err, entities.ErrConfiguration)
		assert.Empty(t, runner.name)
	})
}
