package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CarritoRepository persists the pending cart of each operator. Carts are
// working state, not business records, so they live in Redis rather than
// PostgreSQL and survive server restarts without touching the ledger.
type CarritoRepository interface {
	// Get returns the operator's cart, or an empty one when none is stored.
	Get(ctx context.Context, usuarioID uuid.UUID) (*model.Carrito, error)
	Save(ctx context.Context, c *model.Carrito) error
	Delete(ctx context.Context, usuarioID uuid.UUID) error
}

type carritoRepo struct{ rdb *redis.Client }

func NewCarritoRepository(rdb *redis.Client) CarritoRepository { return &carritoRepo{rdb: rdb} }

func carritoKey(usuarioID uuid.UUID) string { return "carrito:" + usuarioID.String() }

func (r *carritoRepo) Get(ctx context.Context, usuarioID uuid.UUID) (*model.Carrito, error) {
	raw, err := r.rdb.Get(ctx, carritoKey(usuarioID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Carrito{UsuarioID: usuarioID, Items: []model.CarritoItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var c model.Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("carrito corrupto para %s: %w", usuarioID, err)
	}
	if c.Items == nil {
		c.Items = []model.CarritoItem{}
	}
	return &c, nil
}

func (r *carritoRepo) Save(ctx context.Context, c *model.Carrito) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, carritoKey(c.UsuarioID), raw, 0).Err()
}

func (r *carritoRepo) Delete(ctx context.Context, usuarioID uuid.UUID) error {
	return r.rdb.Del(ctx, carritoKey(usuarioID)).Err()
}
