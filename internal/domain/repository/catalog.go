package repository

import (
	"context"

	"github.com/polkiloo/catering/internal/domain/model"
)

// MenuRepository reads menus from the catalog.
type MenuRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Menu, error)
}

// MaterialRepository reads loanable material from the catalog.
type MaterialRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Material, error)
}

// CustomerRepository reads customer contact details.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
}
