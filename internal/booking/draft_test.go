package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftLifecycle(t *testing.T) {
	d := NewDraft()

	state, quote, err := d.Snapshot()
	assert.Equal(t, DraftIdle, state)
	assert.Nil(t, quote)
	assert.NoError(t, err)

	sel := Selection{From: day("2024-07-01"), To: day("2024-07-03")}
	gen := d.Begin(sel)

	state, _, _ = d.Snapshot()
	assert.Equal(t, DraftLoading, state)
	assert.Equal(t, sel, d.Selection())

	assert.True(t, d.Complete(gen, Quote{Units: 2, RentalTotal: 20}))
	state, quote, err = d.Snapshot()
	assert.Equal(t, DraftLoaded, state)
	assert.NoError(t, err)
	assert.Equal(t, 2, quote.Units)
}

func TestDraftStaleResultDiscarded(t *testing.T) {
	d := NewDraft()

	gen1 := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-05")})
	gen2 := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-02")})

	// The slower first response arrives after the second selection.
	assert.False(t, d.Complete(gen1, Quote{Units: 4}))
	assert.True(t, d.Complete(gen2, Quote{Units: 1}))

	_, quote, _ := d.Snapshot()
	assert.Equal(t, 1, quote.Units)
}

func TestDraftStaleFailureDiscarded(t *testing.T) {
	d := NewDraft()

	gen1 := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-05")})
	gen2 := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-02")})

	assert.False(t, d.Fail(gen1, errors.New("timeout")))
	assert.True(t, d.Complete(gen2, Quote{Units: 1}))

	state, quote, err := d.Snapshot()
	assert.Equal(t, DraftLoaded, state)
	assert.NotNil(t, quote)
	assert.NoError(t, err)
}

func TestDraftFail(t *testing.T) {
	d := NewDraft()
	gen := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-02")})

	boom := errors.New("backend down")
	assert.True(t, d.Fail(gen, boom))

	state, quote, err := d.Snapshot()
	assert.Equal(t, DraftFailed, state)
	assert.Nil(t, quote)
	assert.ErrorIs(t, err, boom)
}

func TestDraftResetInvalidatesOutstandingGeneration(t *testing.T) {
	d := NewDraft()
	gen := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-02")})
	d.Reset()

	assert.False(t, d.Complete(gen, Quote{Units: 1}))
	state, quote, _ := d.Snapshot()
	assert.Equal(t, DraftIdle, state)
	assert.Nil(t, quote)
}

func TestDraftSnapshotReturnsCopy(t *testing.T) {
	d := NewDraft()
	gen := d.Begin(Selection{From: day("2024-07-01"), To: day("2024-07-02")})
	d.Complete(gen, Quote{Units: 1, RentalTotal: 10})

	_, quote, _ := d.Snapshot()
	quote.RentalTotal = 999

	_, fresh, _ := d.Snapshot()
	assert.Equal(t, 10.0, fresh.RentalTotal)
}
