package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/types"
)

type stubAnalyst struct {
	name string
	cfg  Params
}

func (s *stubAnalyst) Name() string { return s.name }

func (s *stubAnalyst) Analyze(ctx context.Context, st *state.State) (map[string]types.Signal, error) {
	return map[string]types.Signal{}, nil
}

func stubRegistration(name string, defaults Params) Registration {
	return Registration{
		Name:        name,
		Description: "stub",
		Defaults:    defaults,
		New: func(cfg Params) interfaces.Analyst {
			return &stubAnalyst{name: name, cfg: cfg}
		},
	}
}

func TestCreateUnknownName(t *testing.T) {
	r := New()
	_, err := r.Create("nobody", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMergesOverrides(t *testing.T) {
	r := New()
	r.Register(stubRegistration("alpha", Params{"threshold": 0.5, "weight": 1}))

	a, err := r.Create("alpha", Params{"threshold": 0.9})
	require.NoError(t, err)

	cfg := a.(*stubAnalyst).cfg
	assert.Equal(t, 0.9, cfg["threshold"])
	assert.Equal(t, 1.0, cfg["weight"])
}

func TestCreateRejectsUnknownParameter(t *testing.T) {
	r := New()
	r.Register(stubRegistration("alpha", Params{"threshold": 0.5}))

	_, err := r.Create("alpha", Params{"typo_threshold": 0.9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo_threshold")
}

func TestCreateDoesNotMutateDefaults(t *testing.T) {
	defaults := Params{"threshold": 0.5}
	r := New()
	r.Register(stubRegistration("alpha", defaults))

	_, err := r.Create("alpha", Params{"threshold": 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.5, defaults["threshold"])

	// A second create without overrides sees the original defaults.
	a, err := r.Create("alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, a.(*stubAnalyst).cfg["threshold"])
}

func TestRegisterLastWinsKeepsOrder(t *testing.T) {
	r := New()
	r.Register(stubRegistration("alpha", nil))
	r.Register(stubRegistration("beta", nil))
	r.Register(Registration{
		Name:        "alpha",
		Description: "replacement",
		New: func(cfg Params) interfaces.Analyst {
			return &stubAnalyst{name: "alpha-v2", cfg: cfg}
		},
	})

	infos := r.List()
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "replacement", infos[0].Description)
	assert.Equal(t, "beta", infos[1].Name)

	a, err := r.Create("alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, "alpha-v2", a.Name())
}

func TestListStableOrder(t *testing.T) {
	r := New()
	names := []string{"zeta", "alpha", "mid", "beta"}
	for _, n := range names {
		r.Register(stubRegistration(n, nil))
	}
	for range 5 {
		infos := r.List()
		require.Len(t, infos, len(names))
		for i, n := range names {
			assert.Equal(t, n, infos[i].Name)
		}
	}
}

func TestParamsValue(t *testing.T) {
	p := Params{"set": 2}
	assert.Equal(t, 2.0, p.Value("set", 9))
	assert.Equal(t, 9.0, p.Value("missing", 9))
}
