package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mythcatalog/internal/api"
	"github.com/mcoot/mythcatalog/internal/cli"
	"github.com/mcoot/mythcatalog/internal/factory"
)

// cliRunner runs mythctl commands in-process against one server
type cliRunner struct {
	serverURL string
	tokenFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()
	return &cliRunner{
		serverURL: serverURL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// startTestServer serves a test app on a loopback port until the test ends
func startTestServer(t *testing.T) string {
	t.Helper()

	app := factory.NewTestApp()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(app.Router(), api.DefaultServerConfig(), app.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop in time")
		}
	})

	serverURL := "http://" + ln.Addr().String()
	waitForServer(t, serverURL+"/api/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCLI_Health(t *testing.T) {
	r := newCLIRunner(t, startTestServer(t))

	out, err := r.run("health")
	require.NoError(t, err, out)
	assert.Equal(t, "ok", decode[cli.HealthResult](t, out).Status)
}

func TestCLI_CatalogFlow(t *testing.T) {
	r := newCLIRunner(t, startTestServer(t))

	out, err := r.run("user", "register", "--username", "MythFan", "--email", "mythfan@example.com", "--pass", "StrongPass123")
	require.NoError(t, err, out)

	out, err = r.run("user", "login", "--email", "mythfan@example.com", "--pass", "WrongPass123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password or email is wrong.")

	// not logged in yet
	_, err = r.run("category", "create", "--name", "Japanese")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access Denied.")

	out, err = r.run("user", "login", "--email", "mythfan@example.com", "--pass", "StrongPass123")
	require.NoError(t, err, out)
	login := decode[cli.LoginResult](t, out)
	assert.NotEmpty(t, login.Token)

	out, err = r.run("user", "me")
	require.NoError(t, err, out)
	assert.Equal(t, "MythFan", decode[cli.User](t, out).Username)

	out, err = r.run("category", "create", "--name", "Japanese")
	require.NoError(t, err, out)
	category := decode[cli.Category](t, out)

	out, err = r.run("creature", "create",
		"--name", "Kitsune",
		"--translation", "Fox spirit",
		"--description", "A shapeshifting fox of folklore",
		"--power", "70",
		"--strengths", "Illusions",
		"--weaknesses", "Dogs",
		"--fun-fact", "Gains a tail every hundred years",
		"--image", "https://example.com/kitsune.png",
		"--category", category.ID,
	)
	require.NoError(t, err, out)
	kitsune := decode[cli.Creature](t, out)
	assert.Equal(t, login.UserID, kitsune.CreatedBy)

	out, err = r.run("creature", "create",
		"--name", "Tanuki",
		"--translation", "Raccoon dog",
		"--description", "A jolly shapeshifter fond of sake",
		"--power", "45",
		"--strengths", "Disguise",
		"--weaknesses", "Overconfidence",
		"--fun-fact", "Often shown with a straw hat",
		"--image", "https://example.com/tanuki.png",
	)
	require.NoError(t, err, out)
	tanuki := decode[cli.Creature](t, out)

	out, err = r.run("creature", "update", kitsune.ID, "--power", "85")
	require.NoError(t, err, out)
	updated := decode[cli.Creature](t, out)
	assert.Equal(t, 85, updated.PowerLevel)
	assert.Equal(t, "Kitsune", updated.Name)

	out, err = r.run("question", "create",
		"--text", "Which trickster would you trust?",
		"--option", "The fox="+kitsune.ID,
		"--option", "The raccoon dog="+tanuki.ID,
	)
	require.NoError(t, err, out)
	question := decode[cli.Question](t, out)
	assert.Len(t, question.Options, 2)

	out, err = r.run("creature", "list")
	require.NoError(t, err, out)
	assert.Len(t, decode[[]cli.Creature](t, out), 2)

	out, err = r.run("question", "delete", question.ID)
	require.NoError(t, err, out)

	_, err = r.run("question", "get", question.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quiz question not found.")

	out, err = r.run("user", "logout")
	require.NoError(t, err, out)

	_, err = r.run("creature", "delete", tanuki.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access Denied.")
}

func TestCLI_OtherUsersCannotEdit(t *testing.T) {
	serverURL := startTestServer(t)
	owner := newCLIRunner(t, serverURL)
	stranger := newCLIRunner(t, serverURL)

	for _, u := range []struct {
		r     *cliRunner
		name  string
		email string
	}{
		{owner, "Owner", "owner@example.com"},
		{stranger, "Stranger", "stranger@example.com"},
	} {
		out, err := u.r.run("user", "register", "--username", u.name, "--email", u.email, "--pass", "StrongPass123")
		require.NoError(t, err, out)
		out, err = u.r.run("user", "login", "--email", u.email, "--pass", "StrongPass123")
		require.NoError(t, err, out)
	}

	out, err := owner.run("category", "create", "--name", "Greek")
	require.NoError(t, err, out)
	category := decode[cli.Category](t, out)

	_, err = stranger.run("category", "update", category.ID, "--name", "Roman")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access denied.")

	_, err = stranger.run("category", "delete", category.ID)
	require.Error(t, err)

	out, err = stranger.run("category", "get", category.ID)
	require.NoError(t, err, out)
	assert.Equal(t, "Greek", decode[cli.Category](t, out).Name)
}
