package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() ReadResult {
	return ReadResult{
		Session: "5f0c",
		Root:    "Desktop 1",
		Window:  "Untitled - Notepad",
		TS:      1707500000,
		Elements: []model.Element{
			{ID: 1, Role: "btn", Title: "Save <&>", RuntimeID: "42.1.2", Bounds: [4]int{10, 20, 100, 30}},
		},
	}
}

func capture(t *testing.T, format Format, pretty bool) string {
	t.Helper()
	var buf bytes.Buffer
	oldOut, oldFormat, oldPretty := Stdout, OutputFormat, PrettyOutput
	Stdout, OutputFormat, PrettyOutput = &buf, format, pretty
	t.Cleanup(func() { Stdout, OutputFormat, PrettyOutput = oldOut, oldFormat, oldPretty })

	require.NoError(t, Print(sampleResult()))
	return buf.String()
}

func TestPrint_CompactJSON(t *testing.T) {
	out := capture(t, FormatJSON, false)

	assert.Equal(t, 1, strings.Count(out, "\n"), "compact JSON is one line")
	assert.Contains(t, out, "Save <&>", "HTML is not escaped")

	var decoded ReadResult
	require.NoError(t, jsonAPI.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, sampleResult(), decoded)
}

func TestWriteJSON_SortsMapKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"zeta": 1, "alpha": 2, "mid": 3}, false))
	assert.Equal(t, `{"alpha":2,"mid":3,"zeta":1}`+"\n", buf.String())
}

func TestPrint_PrettyJSON(t *testing.T) {
	out := capture(t, FormatJSON, true)
	assert.Greater(t, strings.Count(out, "\n"), 5)
	assert.Contains(t, out, `  "session": "5f0c"`)
}

func TestPrint_YAML(t *testing.T) {
	out := capture(t, FormatYAML, false)

	assert.Contains(t, out, "root: Desktop 1")
	assert.Contains(t, out, "rid: 42.1.2")

	var decoded ReadResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, sampleResult(), decoded)
}

func TestPrint_UnknownFormat(t *testing.T) {
	old := OutputFormat
	OutputFormat = "xml"
	defer func() { OutputFormat = old }()

	assert.Error(t, Fprint(&bytes.Buffer{}, sampleResult()))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}
