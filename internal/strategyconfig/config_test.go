package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `meta:
  set_id: asx_value_screen
  version: "2"
strategies:
  - name: low_pe_absolute
    top_overall: 25
    top_per_industry: 3
  - name: high_dividend_yield
    top_overall: 0
    top_per_industry: 1
`

func writeStrategyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeStrategyFile(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "asx_value_screen", cfg.Meta.SetID)
	assert.Equal(t, "2", cfg.Meta.Version)
	require.Len(t, cfg.Strategies, 2)
	assert.Equal(t, "low_pe_absolute", cfg.Strategies[0].Name)
	assert.Equal(t, 25, cfg.Strategies[0].TopOverall)
	assert.Equal(t, 3, cfg.Strategies[0].TopPerIndustry)
	assert.Equal(t, 0, cfg.Strategies[1].TopOverall)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	content := `meta:
  set_id: x
strategies:
  - name: low_pe_absolute
    top_overal: 10
`
	_, err := Load(writeStrategyFile(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_overal")
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	content := `meta:
  set_id: x
strategies:
  - name: momentum_breakout
    top_overall: 10
`
	_, err := Load(writeStrategyFile(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy: momentum_breakout")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault(writeStrategyFile(t, validYAML))
	require.NoError(t, err)
	assert.Len(t, cfg.Strategies, 2)
}

func TestValidate(t *testing.T) {
	t.Run("default set is valid", func(t *testing.T) {
		assert.NoError(t, Validate(Default()))
	})

	t.Run("empty set", func(t *testing.T) {
		err := Validate(&Config{Meta: Meta{SetID: "empty"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no strategies")
	})

	t.Run("duplicate strategy", func(t *testing.T) {
		err := Validate(&Config{Strategies: []Spec{
			{Name: "high_eps", TopOverall: 1},
			{Name: "high_eps", TopOverall: 2},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configured twice")
	})

	t.Run("negative counts", func(t *testing.T) {
		err := Validate(&Config{Strategies: []Spec{
			{Name: "high_eps", TopOverall: -1},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "top_overall")
	})
}

func TestHashIsStable(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	changed := Default()
	changed.Strategies[0].TopOverall = 99
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
