package dashboard

import (
	"testing"

	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FormDialog_Transitions(t *testing.T) {
	var d FormDialog
	assert.Equal(t, FormClosed, d.State())
	require.ErrorIs(t, d.Reject(service.FormInput{}, nil), producterrors.ErrInvalidTransition)

	require.NoError(t, d.OpenCreate())
	assert.Equal(t, FormCreating, d.State())
	assert.Nil(t, d.Product())
	require.ErrorIs(t, d.OpenEdit(service.ProductDto{ID: "1"}), producterrors.ErrInvalidTransition)

	require.NoError(t, d.Reject(service.FormInput{Name: "x"}, service.FieldErrors{"price": "bad"}))
	assert.Equal(t, FormCreating, d.State())
	assert.Equal(t, "x", d.Input().Name)

	d.Cancel()
	assert.Equal(t, FormClosed, d.State())
	assert.Nil(t, d.Errors())

	require.NoError(t, d.OpenEdit(service.ProductDto{ID: "1", Name: "Lamp"}))
	assert.Equal(t, FormEditing, d.State())
	assert.Equal(t, "1", d.Product().ID)
	assert.Equal(t, "Lamp", d.Input().Name)
	assert.Nil(t, d.Errors(), "opening a form clears old errors")
}

func Test_DeleteDialog_Transitions(t *testing.T) {
	var d DeleteDialog
	assert.Equal(t, DeleteIdle, d.State())
	_, err := d.Confirm()
	require.ErrorIs(t, err, producterrors.ErrInvalidTransition)

	require.NoError(t, d.Request(service.ProductDto{ID: "1", Name: "Lamp"}))
	assert.Equal(t, DeleteConfirmPending, d.State())
	assert.Equal(t, "Lamp", d.Target().Name)

	target, err := d.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "1", target.ID)
	assert.Equal(t, DeleteIdle, d.State())
	assert.Nil(t, d.Target())

	require.NoError(t, d.Request(service.ProductDto{ID: "2"}))
	d.Cancel()
	assert.Equal(t, DeleteIdle, d.State())
}

func Test_States_MarshalText(t *testing.T) {
	text, err := FormEditing.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "editing", string(text))
	assert.Equal(t, "confirm_pending", DeleteConfirmPending.String())
}

func Test_States_UnmarshalText(t *testing.T) {
	var fs FormState
	require.NoError(t, fs.UnmarshalText([]byte("creating")))
	assert.Equal(t, FormCreating, fs)
	assert.Error(t, fs.UnmarshalText([]byte("open")))

	var ds DeleteState
	require.NoError(t, ds.UnmarshalText([]byte("confirm_pending")))
	assert.Equal(t, DeleteConfirmPending, ds)
	assert.Error(t, ds.UnmarshalText([]byte("busy")))
}
