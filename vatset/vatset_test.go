package vatset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vatkernel/vatkernel/kernel"
)

func nopFactories() Factories {
	return Factories{
		"echo": func(name string) kernel.Dispatch {
			return &nopDispatch{}
		},
	}
}

type nopDispatch struct{}

func (nopDispatch) Deliver(kernel.Syscall, kernel.InboundTarget, kernel.VatMessage)          {}
func (nopDispatch) NotifyResolved(kernel.Syscall, kernel.VatPromiseId, kernel.VatResolution) {}

func TestBuildWiresVatsAndImports(t *testing.T) {
	cfg := Config{
		Bootstrap: "alice",
		Vats: []VatSpec{
			{Name: "alice", Kind: "echo"},
			{Name: "bob", Kind: "echo"},
		},
		Imports: []ImportSpec{
			{From: "alice", ImportID: -1, To: "bob", ExportID: 0},
		},
	}

	k := kernel.New()
	bootstrapID, err := Build(k, cfg, nopFactories())
	require.NoError(t, err)

	aliceID, ok := k.VatByName("alice")
	require.True(t, ok)
	assert.Equal(t, aliceID, bootstrapID)

	_, ok = k.VatByName("bob")
	require.True(t, ok)
}

func TestBuildRejectsUnknownKind(t *testing.T) {
	cfg := Config{
		Bootstrap: "alice",
		Vats:      []VatSpec{{Name: "alice", Kind: "mystery"}},
	}
	_, err := Build(kernel.New(), cfg, nopFactories())
	assert.Error(t, err)
}

func TestBuildRejectsUnknownBootstrap(t *testing.T) {
	cfg := Config{
		Bootstrap: "nobody",
		Vats:      []VatSpec{{Name: "alice", Kind: "echo"}},
	}
	_, err := Build(kernel.New(), cfg, nopFactories())
	assert.Error(t, err)
}

func TestConfigNamesSorted(t *testing.T) {
	cfg := Config{Vats: []VatSpec{{Name: "zed"}, {Name: "amy"}}}
	assert.Equal(t, []string{"amy", "zed"}, cfg.Names())
}

func TestLoadParsesExampleTopology(t *testing.T) {
	cfg, err := Load("../examples/two-vats.yaml")
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Bootstrap)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Names())
	require.Len(t, cfg.Imports, 1)
	assert.Equal(t, int32(-1), cfg.Imports[0].ImportID)
}
