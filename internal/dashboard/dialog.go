package dashboard

import (
	"fmt"

	producterrors "github.com/abgdnv/producthub/internal/product/errors"
	"github.com/abgdnv/producthub/internal/product/service"
)

// FormState is the state of the product form dialog.
type FormState int

const (
	FormClosed FormState = iota
	FormCreating
	FormEditing
)

func (s FormState) String() string {
	switch s {
	case FormCreating:
		return "creating"
	case FormEditing:
		return "editing"
	default:
		return "closed"
	}
}

func (s FormState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FormState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "closed":
		*s = FormClosed
	case "creating":
		*s = FormCreating
	case "editing":
		*s = FormEditing
	default:
		return fmt.Errorf("unknown form state %q", text)
	}
	return nil
}

// FormDialog is the create/edit product dialog. The zero value is closed.
type FormDialog struct {
	state   FormState
	product *service.ProductDto
	input   service.FormInput
	errors  service.FieldErrors
}

// OpenCreate opens an empty form for a new product.
func (d *FormDialog) OpenCreate() error {
	if d.state != FormClosed {
		return fmt.Errorf("cannot open create form while %s: %w", d.state, producterrors.ErrInvalidTransition)
	}
	*d = FormDialog{state: FormCreating}
	return nil
}

// OpenEdit opens the form prefilled with p.
func (d *FormDialog) OpenEdit(p service.ProductDto) error {
	if d.state != FormClosed {
		return fmt.Errorf("cannot open edit form while %s: %w", d.state, producterrors.ErrInvalidTransition)
	}
	*d = FormDialog{
		state:   FormEditing,
		product: &p,
		input:   service.FormInputFromDto(p),
	}
	return nil
}

// Reject keeps the form open with the submitted input and its field errors.
func (d *FormDialog) Reject(in service.FormInput, errs service.FieldErrors) error {
	if d.state == FormClosed {
		return fmt.Errorf("cannot submit a closed form: %w", producterrors.ErrInvalidTransition)
	}
	d.input = in
	d.errors = errs
	return nil
}

// Cancel closes the form and discards its input.
func (d *FormDialog) Cancel() {
	*d = FormDialog{}
}

func (d *FormDialog) State() FormState {
	return d.state
}

// Product returns the product being edited, nil unless editing.
func (d *FormDialog) Product() *service.ProductDto {
	return d.product
}

func (d *FormDialog) Input() service.FormInput {
	return d.input
}

func (d *FormDialog) Errors() service.FieldErrors {
	return d.errors
}

// DeleteState is the state of the delete confirmation dialog.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteConfirmPending
)

func (s DeleteState) String() string {
	if s == DeleteConfirmPending {
		return "confirm_pending"
	}
	return "idle"
}

func (s DeleteState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DeleteState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = DeleteIdle
	case "confirm_pending":
		*s = DeleteConfirmPending
	default:
		return fmt.Errorf("unknown delete state %q", text)
	}
	return nil
}

// DeleteDialog asks for confirmation before a product is removed. The zero value is idle.
type DeleteDialog struct {
	state  DeleteState
	target *service.ProductDto
}

// Request asks to confirm the deletion of p.
func (d *DeleteDialog) Request(p service.ProductDto) error {
	if d.state != DeleteIdle {
		return fmt.Errorf("delete of %s is already pending: %w", d.target.ID, producterrors.ErrInvalidTransition)
	}
	d.state = DeleteConfirmPending
	d.target = &p
	return nil
}

// Confirm returns the product to delete and goes back to idle.
func (d *DeleteDialog) Confirm() (service.ProductDto, error) {
	if d.state != DeleteConfirmPending {
		return service.ProductDto{}, fmt.Errorf("no delete to confirm: %w", producterrors.ErrInvalidTransition)
	}
	target := *d.target
	*d = DeleteDialog{}
	return target, nil
}

// Cancel goes back to idle without deleting.
func (d *DeleteDialog) Cancel() {
	*d = DeleteDialog{}
}

func (d *DeleteDialog) State() DeleteState {
	return d.state
}

// Target returns the product awaiting confirmation, nil when idle.
func (d *DeleteDialog) Target() *service.ProductDto {
	return d.target
}
