package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/cardano-utxo/reporter"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestSelectFromFiles(t *testing.T) {
	g := newGolden(t)

	for _, file := range []string{"scenario.yaml", "scenario.json"} {
		t.Run(file, func(t *testing.T) {
			out, err := runRoot(t, "", "select", filepath.Join("testdata", file))
			require.NoError(t, err)
			g.Assert(t, "select_scenario", []byte(out))
		})
	}
}

func TestSelectFromStdin(t *testing.T) {
	g := newGolden(t)

	yamlDoc, err := os.ReadFile(filepath.Join("testdata", "scenario.yaml"))
	require.NoError(t, err)

	out, err := runRoot(t, string(yamlDoc), "select", "--format", "yaml")
	require.NoError(t, err)
	g.Assert(t, "select_scenario", []byte(out))

	_, err = runRoot(t, string(yamlDoc), "select", "-")
	assert.Error(t, err, "stdin defaults to json")

	_, err = runRoot(t, string(yamlDoc), "select", "--format", "toml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestSelectInsufficient(t *testing.T) {
	out, err := runRoot(t, "", "select", filepath.Join("testdata", "scenario.yaml"), "--min-change", "0.0012")
	require.NoError(t, err)
	assert.Contains(t, out, `"lovelace": 1200`)

	_, err = runRoot(t, "", "select", filepath.Join("testdata", "scenario.yaml"), "--min-change", "0.011201")
	assert.ErrorIs(t, err, ErrInsufficient)

	_, err = runRoot(t, "", "select", filepath.Join("testdata", "scenario.yaml"), "--min-change", "0.0000001")
	assert.ErrorContains(t, err, "min-change")
}

func TestSelectOverflow(t *testing.T) {
	doc := `{"inputs":[],"outputs":[{"lovelace":18446744073709551615,"assets":[]},{"lovelace":1,"assets":[]}]}`
	_, err := runRoot(t, doc, "select")
	assert.ErrorContains(t, err, "outputs overflowed")
}

func TestSelectRemote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(reporter.NewHttpReporter("", "", nil).SetupRouter())
	defer srv.Close()

	g := newGolden(t)
	out, err := runRoot(t, "", "select", filepath.Join("testdata", "scenario.json"), "--remote", srv.URL)
	require.NoError(t, err)
	g.Assert(t, "select_scenario", []byte(out))

	_, err = runRoot(t, "", "select", filepath.Join("testdata", "scenario.json"), "--remote", srv.URL, "--min-change", "1")
	assert.ErrorIs(t, err, ErrInsufficient)
}
