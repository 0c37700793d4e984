package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/core/config"
	"github.com/hay-kot/autoid/internal/printer"
	"github.com/hay-kot/autoid/internal/store/jsonfile"
	"github.com/hay-kot/autoid/pkg/randid"
)

type registrar interface {
	Register(app *cli.Command) *cli.Command
}

// testFlags returns Flags wired to a seeded generator and a temp data dir.
func testFlags(t *testing.T, seed uint64) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.UseSeed(seed)

	gen, err := cfg.Generator()
	require.NoError(t, err)

	return &Flags{
		Config:    &cfg,
		Generator: gen,
		Ledger:    jsonfile.NewLedgerStore(cfg.LedgerFile()),
	}
}

func runCmd(t *testing.T, cmd registrar, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:           "autoid",
		Writer:         &buf,
		ErrWriter:      &buf,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = cmd.Register(app)

	ctx := printer.NewContext(context.Background(), printer.NewPlain(&buf))
	err := app.Run(ctx, append([]string{"autoid"}, args...))
	return buf.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestIDCmd_Default(t *testing.T) {
	out, err := runCmd(t, NewIDCmd(testFlags(t, 1)), "id")
	require.NoError(t, err)

	ids := lines(out)
	require.Len(t, ids, 1)
	assert.True(t, randid.IsAutoID(ids[0]), "unexpected id %q", ids[0])
}

func TestIDCmd_SeededIsReproducible(t *testing.T) {
	first, err := runCmd(t, NewIDCmd(testFlags(t, 99)), "id", "-n", "3")
	require.NoError(t, err)
	second, err := runCmd(t, NewIDCmd(testFlags(t, 99)), "id", "-n", "3")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, lines(first), 3)
}

func TestIDCmd_JSON(t *testing.T) {
	out, err := runCmd(t, NewIDCmd(testFlags(t, 2)), "id", "-n", "5", "--format", "json")
	require.NoError(t, err)

	var got struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.IDs, 5)
	for _, id := range got.IDs {
		assert.True(t, randid.IsAutoID(id))
	}
}

func TestIDCmd_Length(t *testing.T) {
	out, err := runCmd(t, NewIDCmd(testFlags(t, 3)), "id", "--length", "8")
	require.NoError(t, err)

	id := strings.TrimSpace(out)
	assert.Len(t, id, 8)
	assert.True(t, randid.InAlphabet(id))
}

func TestIDCmd_InvalidFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"zero count", []string{"id", "-n", "0"}, "count"},
		{"count too large", []string{"id", "-n", "9223372036854775807"}, "count"},
		{"length too long", []string{"id", "--length", "1000"}, "length"},
		{"bad format", []string{"id", "--format", "xml"}, "format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, NewIDCmd(testFlags(t, 4)), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIDCmd_Ledger(t *testing.T) {
	flags := testFlags(t, 5)

	out, err := runCmd(t, NewIDCmd(flags), "id", "-n", "3", "--ledger")
	require.NoError(t, err)

	n, err := flags.Ledger.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, id := range lines(out) {
		found, err := flags.Ledger.Has(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, found, "id %q not recorded", id)
	}
}

func TestFloatCmd(t *testing.T) {
	out, err := runCmd(t, NewFloatCmd(testFlags(t, 6)), "float", "-n", "100")
	require.NoError(t, err)

	values := lines(out)
	require.Len(t, values, 100)
	for _, s := range values {
		v, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestFloatCmd_JSON(t *testing.T) {
	out, err := runCmd(t, NewFloatCmd(testFlags(t, 7)), "float", "-n", "2", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Values []float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Values, 2)
}

func TestCountFlagsAreBounded(t *testing.T) {
	huge := strconv.Itoa(math.MaxInt)

	tests := []struct {
		name    string
		cmd     func(*Flags) registrar
		args    []string
		wantErr string
	}{
		{"float count", func(f *Flags) registrar { return NewFloatCmd(f) }, []string{"float", "-n", huge}, "count"},
		{"check samples", func(f *Flags) registrar { return NewCheckCmd(f) }, []string{"check", "--samples", huge}, "samples"},
		{"backoff attempts", func(f *Flags) registrar { return NewBackoffCmd(f) }, []string{"backoff", "-n", huge}, "attempts"},
		{"backoff zero attempts", func(f *Flags) registrar { return NewBackoffCmd(f) }, []string{"backoff", "-n", "0"}, "attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.cmd(testFlags(t, 13)), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckCmd_Healthy(t *testing.T) {
	out, err := runCmd(t, NewCheckCmd(testFlags(t, 8)), "check", "--samples", "5000")
	require.NoError(t, err)

	assert.Contains(t, out, "ID Shape")
	assert.Contains(t, out, "Uniformity")
	assert.Contains(t, out, "0 failed")
}

func TestCheckCmd_JSON(t *testing.T) {
	out, err := runCmd(t, NewCheckCmd(testFlags(t, 9)), "check", "--samples", "5000", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Healthy)
	assert.Len(t, got.Checks, 5)
}

func TestCheckCmd_BrokenSourceFails(t *testing.T) {
	flags := testFlags(t, 10)
	flags.Generator = randid.New(randid.Sequence(100))

	out, err := runCmd(t, NewCheckCmd(flags), "check", "--samples", "100")
	require.Error(t, err)
	assert.Contains(t, out, "duplicates")
}

func TestBackoffCmd(t *testing.T) {
	flags := testFlags(t, 11)
	flags.Generator = randid.New(randid.Sequence(1 << 31))

	out, err := runCmd(t, NewBackoffCmd(flags), "backoff", "-n", "4")
	require.NoError(t, err)

	rows := lines(out)
	require.Len(t, rows, 5)
	assert.Contains(t, rows[0], "ATTEMPT")
	assert.Contains(t, rows[1], "0s")
	assert.Contains(t, rows[2], "1s")
	assert.Contains(t, rows[3], "1.5s")
	assert.Contains(t, rows[4], "2.25s")
}

func TestConfigValidateCmd(t *testing.T) {
	flags := testFlags(t, 12)

	out, err := runCmd(t, NewConfigValidateCmd(flags), "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "seed     12")
	assert.Contains(t, out, "Configuration is valid (1 warning(s))")
}

func TestConfigValidateCmd_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: lottery\nbackoff:\n  jitter: 2\n"), 0o644))

	// The root command loads without validating for config subcommands.
	cfg, err := config.Read(path, t.TempDir())
	require.NoError(t, err)
	flags := &Flags{Config: cfg, ConfigPath: path}

	out, err := runCmd(t, NewConfigValidateCmd(flags), "config", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "source")
	assert.Contains(t, out, "backoff.jitter")
	assert.Contains(t, out, "2 error(s)")

	out, err = runCmd(t, NewConfigValidateCmd(flags), "config", "validate", "--format", "json")
	require.Error(t, err)

	var got struct {
		Valid  bool   `json:"valid"`
		Path   string `json:"path"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Valid)
	assert.Equal(t, path, got.Path)

	fields := make([]string, 0, len(got.Errors))
	for _, e := range got.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"source", "backoff.jitter"}, fields)
}

func TestLedgerCmd(t *testing.T) {
	flags := testFlags(t, 14)

	out, err := runCmd(t, NewLedgerCmd(flags), "ledger", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No ids issued")

	out, err = runCmd(t, NewIDCmd(flags), "id", "-n", "2", "--ledger")
	require.NoError(t, err)
	issued := lines(out)

	out, err = runCmd(t, NewLedgerCmd(flags), "ledger", "ls")
	require.NoError(t, err)
	rows := lines(out)
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "ISSUED")

	out, err = runCmd(t, NewLedgerCmd(flags), "ledger", "ls", "--format", "json")
	require.NoError(t, err)
	var got struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Count)

	out, err = runCmd(t, NewLedgerCmd(flags), append([]string{"ledger", "has"}, issued...)...)
	require.NoError(t, err)
	assert.Contains(t, out, issued[0]+" issued")

	out, err = runCmd(t, NewLedgerCmd(flags), "ledger", "has", issued[0], "neverIssued0000000000")
	require.Error(t, err)
	assert.Contains(t, out, "neverIssued0000000000 not issued")

	_, err = runCmd(t, NewLedgerCmd(flags), "ledger", "has", "not-an-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
}
