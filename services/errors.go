package services

import "errors"

var (
	// ErrInvalidMealType rejects meal types outside breakfast/lunch/snack.
	ErrInvalidMealType = errors.New("tipo de refeição inválido")

	// ErrMealWindowClosed rejects answers after the meal window closed.
	ErrMealWindowClosed = errors.New("o horário para responder sobre esta refeição já passou")

	// ErrNotConfirmed rejects QR issuance for a slot that is declined or unanswered.
	ErrNotConfirmed = errors.New("presença não confirmada para esta refeição")

	// ErrStoreUnavailable signals an underlying read/write failure; callers show
	// a generic message and re-read server state.
	ErrStoreUnavailable = errors.New("não foi possível atualizar os dados")
)
