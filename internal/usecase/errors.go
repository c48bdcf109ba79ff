package usecase

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to transport status codes with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrUpstream = errors.New("upstream request failed")
)

var (
	ErrDoctorNotFound          = fmt.Errorf("doctor %w", ErrNotFound)
	ErrClinicNotFound          = fmt.Errorf("clinic %w", ErrNotFound)
	ErrFeedbackSubjectNotFound = fmt.Errorf("feedback subject %w", ErrNotFound)
	ErrOcrResultNotFound       = fmt.Errorf("ocr result %w", ErrNotFound)
	ErrSeedLogNotFound         = fmt.Errorf("seed log %w", ErrNotFound)
	ErrUserNotFound            = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidVerification     = errors.New("invalid verification status")
	ErrEmailTaken              = errors.New("email already taken")
)
