package venv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/upkeep/internal/adapters/venv"
	"go.trai.ch/upkeep/internal/core/domain"
	"go.trai.ch/upkeep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type call struct {
	env  []string
	name string
	args []string
}

// fakeRunner records calls and answers from a script keyed by the first pip/venv argument.
type fakeRunner struct {
	calls   []call
	answers map[string]venv.Output
	errs    map[string]error
	onVenv  func(root string)
}

func (f *fakeRunner) run(_ context.Context, env []string, name string, args ...string) (venv.Output, error) {
	f.calls = append(f.calls, call{env: env, name: name, args: args})
	key := args[1]
	if key == "pip" {
		key = args[2]
	}
	if key == "venv" && f.onVenv != nil {
		f.onVenv(args[2])
	}
	if err := f.errs[key]; err != nil {
		return venv.Output{ExitCode: -1}, err
	}
	return f.answers[key], nil
}

func newProbe(t *testing.T, root string, f *fakeRunner, cfg domain.ProbeConfig) *venv.Probe {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	return venv.NewWithRunner(cfg, root, f.run, log)
}

func TestProbe_CreateRebuildsScratch(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".upkeep", "venv")
	require.NoError(t, os.MkdirAll(root, 0o750))
	stale := filepath.Join(root, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("left over"), 0o600))

	f := &fakeRunner{onVenv: func(dir string) {
		_, err := os.Stat(stale)
		assert.True(t, os.IsNotExist(err), "previous environment is removed before creation")
		assert.NoError(t, os.MkdirAll(dir, 0o750))
	}}
	p := newProbe(t, root, f, domain.ProbeConfig{Python: "python3.11"})

	env, err := p.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, venv.Handle(root), env)
	require.Len(t, f.calls, 1)
	assert.Equal(t, "python3.11", f.calls[0].name)
	assert.Equal(t, []string{"-m", "venv", root}, f.calls[0].args)
}

func TestProbe_CreateFailure(t *testing.T) {
	f := &fakeRunner{answers: map[string]venv.Output{
		"venv": {Combined: "Error: ensurepip is not available", ExitCode: 1},
	}}
	p := newProbe(t, filepath.Join(t.TempDir(), "venv"), f, domain.ProbeConfig{})

	_, err := p.Create(context.Background())
	require.ErrorIs(t, err, domain.ErrEnvironmentFailed)
	assert.Equal(t, "python3", f.calls[0].name, "python3 is the default interpreter")
}

func TestProbe_InstallWritesRequestAndReportsConflict(t *testing.T) {
	root := t.TempDir()
	f := &fakeRunner{answers: map[string]venv.Output{
		"install": {Combined: "ERROR: ResolutionImpossible", ExitCode: 1},
	}}
	p := newProbe(t, root, f, domain.ProbeConfig{PipArgs: []string{"--no-cache-dir"}})
	env := venv.Handle(root)

	res, err := p.Install(context.Background(), env, []string{"numpy==2.0.0", "protobuf<4"})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Log, "ResolutionImpossible")

	require.Len(t, f.calls, 1)
	c := f.calls[0]
	assert.Equal(t, env.Python, c.name)
	assert.Contains(t, c.args, "--no-cache-dir")
	assert.Contains(t, c.env, "VIRTUAL_ENV="+root)

	request := c.args[len(c.args)-1]
	content, err := os.ReadFile(request)
	require.NoError(t, err)
	assert.Equal(t, "numpy==2.0.0\nprotobuf<4\n", string(content))
}

func TestProbe_InstallStartFailure(t *testing.T) {
	root := t.TempDir()
	f := &fakeRunner{errs: map[string]error{"install": errors.New("exec: not found")}}
	p := newProbe(t, root, f, domain.ProbeConfig{})

	_, err := p.Install(context.Background(), venv.Handle(root), []string{"six==1.16.0"})
	require.ErrorIs(t, err, domain.ErrEnvironmentFailed)
}

func TestProbe_Freeze(t *testing.T) {
	root := t.TempDir()
	f := &fakeRunner{answers: map[string]venv.Output{
		"freeze": {Combined: "numpy==2.0.0\n\n-e git+https://example.com/x.git#egg=x\nsix==1.16.0\n"},
	}}
	p := newProbe(t, root, f, domain.ProbeConfig{})

	lines, err := p.Freeze(context.Background(), venv.Handle(root))
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy==2.0.0", "-e git+https://example.com/x.git#egg=x", "six==1.16.0"}, lines)
	assert.Equal(t, []string{"numpy==2.0.0", "six==1.16.0"}, specLines(domain.PruneFrozen(lines)))
}

func TestProbe_FreezeFailure(t *testing.T) {
	root := t.TempDir()
	f := &fakeRunner{answers: map[string]venv.Output{"freeze": {Combined: "boom", ExitCode: 2}}}
	p := newProbe(t, root, f, domain.ProbeConfig{})

	_, err := p.Freeze(context.Background(), venv.Handle(root))
	require.ErrorIs(t, err, domain.ErrEnvironmentFailed)
	assert.True(t, strings.Contains(err.Error(), "pip freeze failed"))
}

func TestProbe_Destroy(t *testing.T) {
	root := filepath.Join(t.TempDir(), "venv")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o750))
	p := newProbe(t, root, &fakeRunner{}, domain.ProbeConfig{})

	require.NoError(t, p.Destroy(context.Background(), venv.Handle(root)))
	_, err := os.Stat(root)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, p.Destroy(context.Background(), domain.EnvHandle{}))
}

func TestExecRunner(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh available")
	}
	out, err := venv.ExecRunner(context.Background(), []string{"UPKEEP_PROBE=yes"},
		"/bin/sh", "-c", "echo $UPKEEP_PROBE; echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Contains(t, out.Combined, "yes")
	assert.Contains(t, out.Combined, "oops")

	_, err = venv.ExecRunner(context.Background(), nil, "upkeep-no-such-binary-xyz")
	require.Error(t, err)
}

func specLines(specs []domain.PackageSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.String()
	}
	return out
}
