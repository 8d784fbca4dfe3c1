package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ralt/webapt/internal/utils"
)

const (
	testRelease = "Origin: Example\nLabel: Example\nSuite: stable\nCodename: bookworm\nArchitectures: amd64 arm64\nComponents: main\nDescription: Example archive\n Second line\n"

	testPackages = `Package: apt
Version: 2.6.1
Filename: pool/main/a/apt/apt_2.6.1_amd64.deb

Package: bash
Version: 5.2.15-2+b2
Filename: pool/main/b/bash/bash_5.2.15-2+b2_amd64.deb
`
)

// runCmd executes the root command with args and returns its output
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APTREPO", "")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type testRepo struct {
	*httptest.Server

	mu    sync.Mutex
	files map[string][]byte
}

func (r *testRepo) setFile(path string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if data == nil {
		delete(r.files, path)
		return
	}
	r.files[path] = data
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	gz, err := utils.GzipCompress([]byte(testPackages))
	if err != nil {
		t.Fatalf("GzipCompress failed: %v", err)
	}

	repo := &testRepo{files: map[string][]byte{
		"/debian/dists/bookworm/Release":                       []byte(testRelease),
		"/debian/dists/bookworm/main/binary-amd64/Packages":    []byte(testPackages),
		"/debian/dists/bookworm/main/binary-amd64/Packages.gz": gz,
		"/debian/dists/":                                       []byte(`<a href="bookworm/">bookworm/</a> <a href="trixie/">trixie/</a>`),
	}}
	repo.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		repo.mu.Lock()
		data, ok := repo.files[r.URL.Path]
		repo.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(repo.Close)
	return repo
}

func TestURLCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{
			args: []string{"url", "http://deb.debian.org/debian", "bookworm", "main", "amd64"},
			want: "http://deb.debian.org/debian/dists/bookworm/main/binary-amd64/Packages\n",
		},
		{
			args: []string{"url", "http://deb.debian.org/debian/dists/bookworm/", "bookworm", "contrib", "arm64"},
			want: "http://deb.debian.org/debian/dists/bookworm/contrib/binary-arm64/Packages\n",
		},
		{
			args: []string{"url", "--compression", "xz", "http://deb.debian.org/debian/dists/bullseye", "bookworm", "main", "amd64"},
			want: "http://deb.debian.org/debian/dists/bookworm/main/binary-amd64/Packages.xz\n",
		},
	}

	for _, tt := range tests {
		got, err := runCmd(t, tt.args...)
		if err != nil {
			t.Fatalf("url %v failed: %v", tt.args[1:], err)
		}
		if got != tt.want {
			t.Errorf("url %v = %q, want %q", tt.args[1:], got, tt.want)
		}
	}
}

func TestURLCommandErrors(t *testing.T) {
	if _, err := runCmd(t, "url", "http://deb.debian.org/debian", "bookworm"); err == nil {
		t.Error("expected error for missing arguments")
	}
	if _, err := runCmd(t, "url", "--compression", "bz2", "http://deb.debian.org/debian", "bookworm", "main", "amd64"); err == nil {
		t.Error("expected error for unknown compression")
	}
}

func TestPackagesCommand(t *testing.T) {
	repo := newTestRepo(t)

	out, err := runCmd(t, "packages", repo.URL+"/debian", "--dist", "bookworm", "--compression", "gz", "--search", "bash")
	if err != nil {
		t.Fatalf("packages failed: %v", err)
	}

	if !strings.Contains(out, repo.URL+"/debian/pool/main/b/bash/bash_5.2.15-2+b2_amd64.deb") {
		t.Errorf("missing download URL in output:\n%s", out)
	}
	if strings.Contains(out, "apt_2.6.1") {
		t.Errorf("search did not filter apt:\n%s", out)
	}
	if !strings.Contains(out, "Page 1/1 (1 of 2 packages)") {
		t.Errorf("missing page footer:\n%s", out)
	}
}

func TestPackagesCommandJSON(t *testing.T) {
	repo := newTestRepo(t)

	out, err := runCmd(t, "packages", repo.URL+"/debian/dists/bookworm", "--json", "--sort", "name", "--desc")
	if err != nil {
		t.Fatalf("packages failed: %v", err)
	}

	var page struct {
		Groups []struct {
			Name string `json:"name"`
		} `json:"groups"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if page.Total != 2 || len(page.Groups) != 2 || page.Groups[0].Name != "bash" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestPackagesCommandFromConfigFile(t *testing.T) {
	repo := newTestRepo(t)

	configPath := filepath.Join(t.TempDir(), "webapt.yaml")
	config := "default_repo: " + repo.URL + "/debian\ndefault_dist: bookworm\ntimeout: 5s\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out, err := runCmd(t, "packages", "--config", configPath)
	if err != nil {
		t.Fatalf("packages failed: %v", err)
	}
	if !strings.Contains(out, "Page 1/1 (2 of 2 packages)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPackagesCommandNotFound(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := runCmd(t, "packages", repo.URL+"/debian", "--dist", "sid"); err == nil {
		t.Error("expected error for missing Packages index")
	}
}

func TestReleaseCommand(t *testing.T) {
	repo := newTestRepo(t)

	out, err := runCmd(t, "release", repo.URL+"/debian", "--dist", "bookworm")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if out != testRelease {
		t.Errorf("release output = %q, want %q", out, testRelease)
	}
}

func TestReleaseCommandJSON(t *testing.T) {
	repo := newTestRepo(t)

	out, err := runCmd(t, "release", repo.URL+"/debian/dists/bookworm", "--json")
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(out), &fields); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if fields["Codename"] != "bookworm" {
		t.Errorf("Codename = %v", fields["Codename"])
	}
	if arches, ok := fields["Architectures"].([]any); !ok || len(arches) != 2 {
		t.Errorf("Architectures = %v", fields["Architectures"])
	}
}

func TestReleaseCommandVerify(t *testing.T) {
	repo := newTestRepo(t)

	entity, err := openpgp.NewEntity("Example Archive", "", "archive@example.com", nil)
	if err != nil {
		t.Fatalf("Failed to create entity: %v", err)
	}

	var key bytes.Buffer
	w, err := armor.Encode(&key, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to create armor encoder: %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	w.Close()

	keyringPath := filepath.Join(t.TempDir(), "archive.asc")
	if err := os.WriteFile(keyringPath, key.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write keyring: %v", err)
	}

	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, entity, strings.NewReader(testRelease), nil); err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	repo.setFile("/debian/dists/bookworm/Release.gpg", sig.Bytes())

	if _, err := runCmd(t, "release", repo.URL+"/debian", "--dist", "bookworm", "--keyring", keyringPath); err != nil {
		t.Fatalf("release with valid signature failed: %v", err)
	}

	repo.setFile("/debian/dists/bookworm/Release", []byte(testRelease+"Date: tampered\n"))
	if _, err := runCmd(t, "release", repo.URL+"/debian", "--dist", "bookworm", "--keyring", keyringPath); err == nil {
		t.Error("expected signature error for modified Release")
	}

	repo.setFile("/debian/dists/bookworm/Release.gpg", nil)
	if _, err := runCmd(t, "release", repo.URL+"/debian", "--dist", "bookworm", "--keyring", keyringPath); err == nil {
		t.Error("expected error for missing Release.gpg")
	}
}

func TestReleaseCommandNoRepo(t *testing.T) {
	if _, err := runCmd(t, "release"); err == nil {
		t.Error("expected error without a repository")
	}
}

func TestDistsCommand(t *testing.T) {
	repo := newTestRepo(t)

	out, err := runCmd(t, "dists", repo.URL+"/debian/dists/bookworm")
	if err != nil {
		t.Fatalf("dists failed: %v", err)
	}

	want := "  stable\n* bookworm\n  trixie\n"
	if out != want {
		t.Errorf("dists output = %q, want %q", out, want)
	}
}
