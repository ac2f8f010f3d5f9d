package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmGate_ConfirmReleasesOnce(t *testing.T) {
	var g ConfirmGate
	assert.False(t, g.Blocking())

	require.NoError(t, g.Open(DeleteBook("978-1", "Germinal")))
	assert.True(t, g.Blocking())
	assert.Equal(t, `Voulez-vous vraiment supprimer le livre "Germinal" ?`, g.Message())

	assert.ErrorIs(t, g.Open(DeleteLoan(1, "Nana")), ErrGateOpen)

	intent, ok := g.Confirm()
	require.True(t, ok)
	assert.Equal(t, EntityBook, intent.Entity)
	assert.Equal(t, "978-1", intent.TargetID)
	assert.False(t, g.Blocking())

	_, ok = g.Confirm()
	assert.False(t, ok)
}

func TestConfirmGate_CancelAndDismissDrop(t *testing.T) {
	var g ConfirmGate

	require.NoError(t, g.Open(ReturnLoan(4, "Nana")))
	g.Cancel()
	_, ok := g.Confirm()
	assert.False(t, ok)

	require.NoError(t, g.Open(ReturnLoan(4, "Nana")))
	g.Dismiss()
	assert.False(t, g.Blocking())
	_, ok = g.Confirm()
	assert.False(t, ok)
}

func TestConfirmGate_ResolveRunsExactlyOne(t *testing.T) {
	tests := []struct {
		name      string
		confirmed bool
	}{
		{"confirm", true},
		{"cancel", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g ConfirmGate
			require.NoError(t, g.Open(DeleteStudent(7, "Marie Dupont")))

			var confirms, cancels int
			onConfirm := func(Intent) { confirms++ }
			onCancel := func(Intent) { cancels++ }

			g.Resolve(tt.confirmed, onConfirm, onCancel)
			g.Resolve(tt.confirmed, onConfirm, onCancel)

			assert.Equal(t, 1, confirms+cancels)
			if tt.confirmed {
				assert.Equal(t, 1, confirms)
			} else {
				assert.Equal(t, 1, cancels)
			}
		})
	}
}

func TestIntent_Prompt(t *testing.T) {
	assert.Equal(t, "Voulez-vous vraiment supprimer l'étudiant Marie Dupont ?", DeleteStudent(1, "Marie Dupont").Prompt())
	assert.Equal(t, `Confirmer le retour du livre "Nana" ?`, ReturnLoan(2, "Nana").Prompt())
	assert.Equal(t, `Voulez-vous vraiment supprimer l'emprunt du livre "Nana" ?`, DeleteLoan(2, "Nana").Prompt())

	id, err := ReturnLoan(42, "x").ID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = DeleteBook("978-1", "x").ID()
	assert.Error(t, err)
}
