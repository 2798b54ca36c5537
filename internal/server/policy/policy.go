// Package policy содержит правила доступа. Функции чистые: они только
// смотрят на Principal и никогда не обращаются к хранилищу.
package policy

import (
	"github.com/iudanet/userkeeper/internal/server/apperr"
	"github.com/iudanet/userkeeper/internal/server/auth"
)

const (
	msgInactive     = "Inactive user"
	msgNotSuperuser = "The user doesn't have enough privileges"
)

// RequireActive разрешает только активного пользователя
func RequireActive(p *auth.Principal) error {
	if p == nil || p.User == nil {
		return apperr.Authentication(auth.MsgBadToken)
	}
	if !p.User.IsActive {
		return apperr.PermissionDenied(msgInactive)
	}
	return nil
}

// RequireSuperuser разрешает только активного администратора
func RequireSuperuser(p *auth.Principal) error {
	if err := RequireActive(p); err != nil {
		return err
	}
	if !p.User.IsSuperuser {
		return apperr.PermissionDenied(msgNotSuperuser)
	}
	return nil
}

// RequireSelfOrSuperuser разрешает действие над своей записью или администратору над любой
func RequireSelfOrSuperuser(p *auth.Principal, targetID string) error {
	if err := RequireActive(p); err != nil {
		return err
	}
	if p.User.ID == targetID || p.User.IsSuperuser {
		return nil
	}
	return apperr.PermissionDenied(msgNotSuperuser)
}
