package components

import (
	"fmt"

	"github.com/DukeRupert/skybooker/internal/domain"
)

// Actions a user can take in the confirmation modal.
const (
	ConfirmActionCancel  = "cancel"
	ConfirmActionConfirm = "confirm"
)

// Button labels of the confirmation modal.
const (
	FinalConfirmCancelLabel  = "Huỷ"
	FinalConfirmConfirmLabel = "Xác nhận đặt vé"
)

// FinalConfirmProps controls the booking confirmation modal. Visibility
// belongs to the owner; the modal only relays the user's choice.
type FinalConfirmProps struct {
	IsOpen    bool
	Summary   string // One-line description of what is being confirmed
	Action    string // Form POST target
	CSRFToken string

	OnClose   func()
	OnConfirm func()
}

// Handle relays a posted action to exactly one callback.
// Unknown actions call neither and return an invalid-input error.
func (p FinalConfirmProps) Handle(action string) error {
	switch action {
	case ConfirmActionCancel:
		if p.OnClose != nil {
			p.OnClose()
		}
		return nil
	case ConfirmActionConfirm:
		if p.OnConfirm != nil {
			p.OnConfirm()
		}
		return nil
	default:
		return domain.Invalid("FinalConfirm.Handle", fmt.Sprintf("unknown action %q", action))
	}
}
