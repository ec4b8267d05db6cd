package commands

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sternrassler/ifunny-client/internal/testutil"
	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// cli runs the root command against a mock API with an isolated config file.
type cli struct {
	t      *testing.T
	mock   *testutil.MockIFunny
	config string
	stdin  string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	for _, key := range []string{"IFUNNY_TOKEN", "IFUNNY_API", "IFUNNY_OUTPUT", "IFUNNY_LOG_LEVEL", "IFUNNY_REDIS_ADDR", "IFUNNY_CONFIG"} {
		t.Setenv(key, "")
	}

	mock := testutil.NewMockIFunny()
	t.Cleanup(mock.Close)

	return &cli{t: t, mock: mock, config: filepath.Join(t.TempDir(), "config.yml")}
}

// run executes args with --config and --api set, but no token.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()

	root := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(c.stdin))
	root.SetArgs(append([]string{"--config", c.config, "--api", c.mock.URL()}, args...))

	err := root.Execute()
	return out.String(), err
}

// authed is run with a token.
func (c *cli) authed(args ...string) (string, error) {
	c.t.Helper()
	return c.run(append([]string{"--token", "test-token"}, args...)...)
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand(BuildInfo{})

	assert.Equal(t, "ifunny", root.Use)
	for _, name := range []string{"version", "account", "user", "post", "list", "lists", "feed", "upload", "smile", "unsmile", "token", "serve"} {
		assert.NotNil(t, findSubcommand(root, name), "command %s", name)
	}
	for _, flag := range []string{"config", "token", "api", "output", "log-level", "redis-addr"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %s", flag)
	}

	token := findSubcommand(root, "token")
	require.NotNil(t, token)
	assert.NotNil(t, findSubcommand(token, "set"))
	assert.NotNil(t, findSubcommand(token, "show"))
}

func TestVersion(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("-o", "json", "version")
	require.NoError(t, err)

	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "2026-01-01", info.Date)

	out, err = c.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "abc123")
}

func TestSettingsValidation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("-o", "xml", "version")
	assert.ErrorContains(t, err, "invalid settings")

	_, err = c.run("--log-level", "loud", "version")
	assert.ErrorContains(t, err, "unknown log level")

	_, err = c.run("--redis-addr", "no port", "version")
	assert.ErrorContains(t, err, "invalid settings")
}

func TestMissingToken(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("account")
	assert.ErrorIs(t, err, client.ErrMissingToken)
	assert.Zero(t, c.mock.GetRequestCount())
}

func TestTokenFromEnvironment(t *testing.T) {
	c := newCLI(t)
	t.Setenv("IFUNNY_TOKEN", "env-token")
	c.mock.SetResponse("/account", testutil.NewDataResponse(`{"id":"me","nick":"tester"}`))

	_, err := c.run("account")
	require.NoError(t, err)

	req, ok := c.mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Bearer env-token", req.Header.Get("Authorization"))
}

func TestAccount(t *testing.T) {
	c := newCLI(t)
	c.mock.SetResponse("/account", testutil.NewDataResponse(`{"id":"me","nick":"tester","num":{"subscribers":7}}`))

	out, err := c.authed("account")
	require.NoError(t, err)
	assert.Contains(t, out, "tester")

	out, err = c.authed("-o", "yaml", "account")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "tester", doc["nick"])
	assert.Equal(t, 7, doc["num"].(map[string]any)["subscribers"])
}

func TestUser(t *testing.T) {
	c := newCLI(t)
	c.mock.SetResponse("/users/u1", testutil.NewDataResponse(`{"id":"u1","nick":"one"}`))
	c.mock.SetResponse("/users/by_nick/one", testutil.NewDataResponse(`{"id":"u1","nick":"one"}`))

	out, err := c.authed("-o", "json", "user", "u1")
	require.NoError(t, err)
	var user ifunny.User
	require.NoError(t, json.Unmarshal([]byte(out), &user))
	assert.Equal(t, "one", user.Nick)

	_, err = c.authed("user", "--nick", "one")
	require.NoError(t, err)
	req, _ := c.mock.LastRequest()
	assert.Equal(t, "/users/by_nick/one", req.Path)
}

func TestPost(t *testing.T) {
	c := newCLI(t)
	c.mock.SetResponse("/content/p1", testutil.NewDataResponse(`{"id":"p1","type":"pic","url":"https://img/p1.jpg","creator":{"nick":"one"},"tags":["a","b"]}`))

	out, err := c.authed("post", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "https://img/p1.jpg")
	assert.Contains(t, out, "a, b")
}

func TestList(t *testing.T) {
	c := newCLI(t)
	c.mock.SetPagedItems("/timelines/users/u1", "content", testutil.Items("p", 130), 100)

	out, err := c.authed("-o", "json", "list", "user_posts", "u1", "--limit", "5")
	require.NoError(t, err)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 5)
	req, _ := c.mock.LastRequest()
	assert.Equal(t, "5", req.Query.Get("limit"))

	c.mock.Reset()
	out, err = c.authed("-o", "json", "list", "user_posts", "u1", "--all")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 130)
	assert.Equal(t, 3, c.mock.GetRequestCount())

	out, err = c.authed("list", "user_posts", "u1", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "p0")
	assert.Contains(t, out, "p1")
}

func TestList_Errors(t *testing.T) {
	c := newCLI(t)

	_, err := c.authed("list", "nope")
	assert.ErrorIs(t, err, ifunny.ErrUnknownList)

	_, err = c.authed("list", "user_posts")
	assert.ErrorIs(t, err, ifunny.ErrListArgs)

	assert.Zero(t, c.mock.GetRequestCount())
}

func TestLists(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("lists")
	require.NoError(t, err)
	assert.Contains(t, out, "user_posts <user_id>")
	assert.Contains(t, out, "comment_replies <post_id> <comment_id>")

	out, err = c.run("-o", "json", "lists")
	require.NoError(t, err)
	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, len(ifunny.Lists()))
}

func TestFeed(t *testing.T) {
	c := newCLI(t)
	c.mock.SetResponse("GET /feeds/featured", testutil.NewDataResponse(`{"content":{"items":[{"id":"f1","type":"pic"}]}}`))

	out, err := c.authed("-o", "json", "feed", "featured", "--limit", "2")
	require.NoError(t, err)

	var posts []ifunny.Post
	require.NoError(t, json.Unmarshal([]byte(out), &posts))
	assert.Len(t, posts, 2)

	reqs := c.mock.Requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, "/reads/f1", reqs[1].Path)
	assert.Equal(t, "feat", reqs[1].Query.Get("from"))

	c.mock.Reset()
	_, err = c.authed("feed", "featured", "--limit", "2", "--no-read")
	require.NoError(t, err)
	assert.Equal(t, 2, c.mock.GetRequestCount())

	_, err = c.authed("feed", "trending")
	assert.ErrorContains(t, err, "unknown feed")
}

func TestSmileCommands(t *testing.T) {
	tests := []struct {
		args   []string
		method string
		path   string
		out    string
	}{
		{[]string{"smile", "p1"}, http.MethodPut, "/content/p1/smiles", "Smiled p1"},
		{[]string{"smile", "p1", "--remove"}, http.MethodDelete, "/content/p1/smiles", "Removed smile from p1"},
		{[]string{"unsmile", "p1"}, http.MethodPost, "/content/p1/unsmiles", "Unsmiled p1"},
		{[]string{"unsmile", "p1", "--remove"}, http.MethodDelete, "/content/p1/unsmiles", "Removed unsmile from p1"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			c := newCLI(t)

			out, err := c.authed(tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.out)

			req, ok := c.mock.LastRequest()
			require.True(t, ok)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
		})
	}
}

func TestUpload(t *testing.T) {
	c := newCLI(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 50))))
	path := filepath.Join(t.TempDir(), "meme.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := c.authed("upload", path, "--crop", "--tags", "a,b", "--description", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "Uploaded")

	req, ok := c.mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/content", req.Path)
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))

	_, err = c.authed("upload", path, "--visibility", "friends")
	assert.ErrorContains(t, err, "unknown visibility")
}

func TestCropMedia(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 50))))

	cropped, err := cropMedia(buf.Bytes())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(cropped))
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dy())

	_, err = cropMedia([]byte("not an image"))
	assert.ErrorContains(t, err, "not a still image")
}

func TestToken(t *testing.T) {
	c := newCLI(t)
	c.stdin = "secret-token-value\n"

	out, err := c.run("token", "set")
	require.NoError(t, err)
	assert.Contains(t, out, c.config)

	data, err := os.ReadFile(c.config)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "secret-token-value", doc["token"])

	out, err = c.run("token", "show")
	require.NoError(t, err)
	assert.Equal(t, "secr...alue\n", out)

	out, err = c.run("token", "show", "--reveal")
	require.NoError(t, err)
	assert.Equal(t, "secret-token-value\n", out)

	// Stored token authenticates later commands
	_, err = c.run("smile", "p1")
	require.NoError(t, err)
	req, _ := c.mock.LastRequest()
	assert.Equal(t, "Bearer secret-token-value", req.Header.Get("Authorization"))
}

func TestTokenSet_KeepsOtherSettings(t *testing.T) {
	c := newCLI(t)
	require.NoError(t, os.WriteFile(c.config, []byte("output: json\n"), 0o600))

	_, err := c.run("token", "set", "abc")
	require.NoError(t, err)

	data, err := os.ReadFile(c.config)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "json", doc["output"])
	assert.Equal(t, "abc", doc["token"])

	_, err = c.run("token", "show")
	require.NoError(t, err)
}

func TestTokenShow_None(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("token", "show")
	assert.ErrorContains(t, err, "no token configured")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", maskToken("abcd"))
	assert.Equal(t, "abcd...mnop", maskToken("abcdefghijklmnop"))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		raw         string
		wantID      string
		wantSummary string
	}{
		{`{"id":"u1","nick":"one"}`, "u1", "one"},
		{`{"guest":{"id":"u2","nick":"two"},"visit_timestamp":1}`, "u2", "two"},
		{`{"id":"c1","text":"lol","user":{"nick":"x"}}`, "c1", "lol"},
		{`{"id":"p1","type":"pic","url":"https://img"}`, "p1", "https://img"},
		{`{"type":"smile"}`, "", "smile"},
	}

	for _, tt := range tests {
		id, summary := summarize([]byte(tt.raw))
		assert.Equal(t, tt.wantID, id, tt.raw)
		assert.Equal(t, tt.wantSummary, summary, tt.raw)
	}
}
