//go:build integration

package integration_test

import (
	"context"
	"io/fs"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/internal/dbtest/postgrestest"
	"github.com/openkcm/storefront-client/internal/dbtest/valkeytest"
)

type infraStat struct {
	PostgresPort   nat.Port
	ValKeyPort     nat.Port
	ValKeyClient   valkey.Client
	ConfigFilePath string
	Procdir        string
	Cfg            config.Config

	closeFuncs []func(ctx context.Context)
}

// initInfra loads the example config into a per-command directory,
// since the binary reads its config from $PWD/config.yaml.
func initInfra(t *testing.T, cmdName string) *infraStat {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")

	istat := &infraStat{Procdir: filepath.Join(wd, cmdName+"-test")}
	istat.ConfigFilePath = filepath.Join(istat.Procdir, "config.yaml")

	require.NoError(t, os.MkdirAll(istat.Procdir, fs.ModePerm), "failed to create a dir for the process")
	require.NoError(t, os.WriteFile(istat.ConfigFilePath, []byte(validConfig), fs.ModePerm), "failed to write config file")
	require.NoError(t, commoncfg.LoadConfig(&istat.Cfg, nil, istat.Procdir), "failed to load config")

	return istat
}

func (istat *infraStat) PreparePostgres(t *testing.T) {
	t.Helper()

	pool, port, terminate := postgrestest.Start(t.Context())
	pool.Close()

	istat.PostgresPort = port
	istat.closeFuncs = append(istat.closeFuncs, terminate)

	istat.Cfg.Database.Name = postgrestest.DBName
	istat.Cfg.Database.User = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBUser}
	istat.Cfg.Database.Password = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBPassword}
	istat.Cfg.Database.Host = commoncfg.SourceRef{Source: "embedded", Value: postgrestest.DBHost}
	istat.Cfg.Database.Port = port.Port()
	istat.Cfg.Database.SSLMode = postgrestest.DBSSLMode
}

func (istat *infraStat) PrepareValKey(t *testing.T) {
	t.Helper()

	client, port, terminate := valkeytest.Start(t.Context())

	istat.ValKeyPort = port
	istat.ValKeyClient = client
	istat.closeFuncs = append(istat.closeFuncs, terminate)

	istat.Cfg.ValKey.Host = commoncfg.SourceRef{Source: "embedded", Value: net.JoinHostPort("localhost", port.Port())}
	istat.Cfg.ValKey.User = commoncfg.SourceRef{Source: "embedded", Value: ""}
	istat.Cfg.ValKey.Password = commoncfg.SourceRef{Source: "embedded", Value: ""}
}

// PrepareConfig writes the current config into ConfigFilePath.
func (istat *infraStat) PrepareConfig(t *testing.T) {
	t.Helper()

	cfgMap := make(map[string]any)
	require.NoError(t, mapstructure.Decode(istat.Cfg, &cfgMap), "failed to decode config")

	out, err := yaml.Marshal(cfgMap)
	require.NoError(t, err, "failed to encode config")
	require.NoError(t, os.WriteFile(istat.ConfigFilePath, out, fs.ModePerm), "failed to write config")
}

// Run runs the storefront binary in Procdir and returns its combined output.
func (istat *infraStat) Run(t *testing.T, args ...string) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")

	cmd := exec.CommandContext(t.Context(), filepath.Join(wd, binary), append(args, "--graceful-shutdown=0s")...)
	cmd.Dir = istat.Procdir

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "process exited abnormally: %s", out)

	return string(out)
}

func (istat *infraStat) Close(ctx context.Context) {
	_ = os.RemoveAll(istat.Procdir)

	for _, closeFn := range istat.closeFuncs {
		closeFn(ctx)
	}
}
