// Package session stores per-visitor state (the cart and pending flash
// messages) keyed by an opaque session id.
package session

import (
	"context"

	"github.com/ray-remotestate/comandas/cart"
)

type Data struct {
	Cart    cart.Cart `json:"cart"`
	Flashes []string  `json:"flashes,omitempty"`
}

func (d *Data) AddFlash(msg string) {
	d.Flashes = append(d.Flashes, msg)
}

// PopFlashes returns the pending messages and forgets them.
func (d *Data) PopFlashes() []string {
	f := d.Flashes
	d.Flashes = nil
	return f
}

// Store is the key-value collaborator holding session data. Unknown ids read
// as empty data.
type Store interface {
	Get(ctx context.Context, id string) (Data, error)
	Save(ctx context.Context, id string, data Data) error
}
