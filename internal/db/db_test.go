package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	pc, err := PoolConfig(Config{
		Addr:        "postgres://souq:pw@localhost:5432/souq?sslmode=disable",
		MaxConns:    7,
		MaxIdleTime: 3 * time.Minute,
		AppName:     "souq-api",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, 3*time.Minute, pc.MaxConnIdleTime)
	assert.Equal(t, "UTC", pc.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, "souq-api", pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfigKeepsDefaults(t *testing.T) {
	pc, err := PoolConfig(Config{Addr: "postgres://localhost/souq?pool_max_conns=3"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), pc.MaxConns)
	assert.NotZero(t, pc.MaxConnIdleTime)
	assert.NotContains(t, pc.ConnConfig.RuntimeParams, "application_name")
}

func TestPoolConfigBadAddr(t *testing.T) {
	_, err := PoolConfig(Config{Addr: "postgres://localhost:notaport/souq"})
	assert.ErrorContains(t, err, "parse DB_ADDR")
}
