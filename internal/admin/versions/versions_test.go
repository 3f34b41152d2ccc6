package versions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_PreservesDeclarationOrder(t *testing.T) {
	reg := Resolve(context.Background(), zerolog.Nop(),
		Static("gitarena", "", "0.5.0"),
		Static("go", "compiler", "go1.25.0"),
		Static("postgres", "database", "16.4"),
	)

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, "gitarena", list[0].Name)
	assert.Equal(t, "go", list[1].Name)
	assert.Equal(t, "postgres", list[2].Name)
}

func TestResolve_FailureDegradesToUnknown(t *testing.T) {
	failing := Resolver{
		Name: "libgit2",
		Resolve: func(context.Context) (string, error) {
			return "", errors.New("not linked")
		},
	}

	reg := Resolve(context.Background(), zerolog.Nop(), Static("gitarena", "", "0.5.0"), failing)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "0.5.0", list[0].Version)
	assert.Equal(t, Unknown, list[1].Version)
}

func TestResolve_EmptyVersionDegradesToUnknown(t *testing.T) {
	reg := Resolve(context.Background(), zerolog.Nop(), Static("libgit2", "", ""))
	assert.Equal(t, Unknown, reg.List()[0].Version)
}

func TestResolve_ResolversRunExactlyOnce(t *testing.T) {
	calls := 0
	counting := Resolver{
		Name: "gitarena",
		Resolve: func(context.Context) (string, error) {
			calls++
			return "0.5.0", nil
		},
	}

	reg := Resolve(context.Background(), zerolog.Nop(), counting)
	reg.List()
	reg.List()
	reg.Get("gitarena")

	assert.Equal(t, 1, calls)
}

func TestList_StableAcrossCalls(t *testing.T) {
	reg := Resolve(context.Background(), zerolog.Nop(),
		Static("gitarena", "", "0.5.0"),
		Static("postgres", "", "16.4"),
	)

	assert.Equal(t, reg.List(), reg.List())
}

func TestList_ReturnsCopy(t *testing.T) {
	reg := Resolve(context.Background(), zerolog.Nop(), Static("gitarena", "", "0.5.0"))

	list := reg.List()
	list[0].Version = "tampered"

	assert.Equal(t, "0.5.0", reg.List()[0].Version)
}

func TestGet(t *testing.T) {
	reg := Resolve(context.Background(), zerolog.Nop(), Static("postgres", "", "16.4"))

	assert.Equal(t, "16.4", reg.Get("postgres"))
	assert.Equal(t, Unknown, reg.Get("mysql"))
}

func TestGoRuntime(t *testing.T) {
	version, err := GoRuntime("go", "").Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(version, "go"))
}

func TestModule_NotLinked(t *testing.T) {
	version, err := Module("libgit2", "", "github.com/libgit2/git2go/v34").Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, version)
}
