package approve_booking

import "fmt"

// validateRequest проверяет входные данные
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	if req.AdminID <= 0 {
		return fmt.Errorf("%w: admin id must be positive", ErrInvalidInput)
	}
	return nil
}
