package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	n int
}

func TestApplyRunsInOrder(t *testing.T) {
	tgt := &target{}

	err := Apply(tgt,
		NoError[*target](func(tr *target) { tr.n += 1 }),
		NoError[*target](func(tr *target) { tr.n *= 10 }),
	)
	require.NoError(t, err)
	require.Equal(t, 10, tgt.n)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tgt := &target{}
	boom := errors.New("boom")

	err := Apply(tgt,
		NoError[*target](func(tr *target) { tr.n = 1 }),
		New[*target](func(tr *target) error { return boom }),
		NoError[*target](func(tr *target) { tr.n = 2 }),
	)

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, tgt.n)
}
