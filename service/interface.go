package service

import (
	"context"

	"ims-client/model"
)

// Sessions is the view of the session store every screen is given.
type Sessions interface {
	Current() *model.Session
	Set(ctx context.Context, s *model.Session) error
	Clear(ctx context.Context) error
	Subscribe(fn func(*model.Session)) func()
}
