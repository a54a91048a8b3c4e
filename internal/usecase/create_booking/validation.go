package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует строки
func validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)

	if req.ClientPhone == "" {
		return fmt.Errorf("%w: client phone is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client name is too long, max %d", ErrInvalidInput, domain.MaxClientNameLength)
	}
	if req.Comment != nil && utf8.RuneCountInString(*req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment is too long, max %d", ErrInvalidInput, domain.MaxCommentLength)
	}
	if len(req.ClaimedServices) > domain.MaxClaimedServices {
		return fmt.Errorf("%w: too many services, max %d", ErrInvalidInput, domain.MaxClaimedServices)
	}
	if req.ClaimedTotalPrice < 0 {
		return fmt.Errorf("%w: total price must not be negative", ErrInvalidInput)
	}

	req.ClientEmail = emptyToNil(req.ClientEmail)
	req.Comment = emptyToNil(req.Comment)
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
