package repository

import (
	"fmt"
	"slices"

	"github.com/magabrotheeeer/eventmaster/internal/models"
)

// applyParticipation вычисляет новый список участников. Владелец считается
// участником неявно: его вступление даёт ErrAlreadyMember, выход даёт ErrNotMember.
func applyParticipation(participants []string, ownerLogin, action, login string) ([]string, error) {
	switch action {
	case models.ActionJoin:
		if login == ownerLogin || slices.Contains(participants, login) {
			return nil, models.ErrAlreadyMember
		}
		next := make([]string, 0, len(participants)+1)
		next = append(next, participants...)
		return append(next, login), nil
	case models.ActionLeave:
		if login == ownerLogin || !slices.Contains(participants, login) {
			return nil, models.ErrNotMember
		}
		next := make([]string, 0, len(participants))
		for _, p := range participants {
			if p != login {
				next = append(next, p)
			}
		}
		return next, nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", models.ErrValidation, action)
	}
}
