package handlers

import (
	"onlineshop/internal/config"
	"onlineshop/internal/repos"
	"onlineshop/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"
)

type Deps struct {
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
	AuthHandler    *AuthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, pool *ants.Pool) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	actRepo := repos.NewActivityRepo(db)

	activity := services.NewActivityService(actRepo, pool)
	mailer := services.NewMailer(cfg, pool)
	invSvc := services.NewInventoryService(db, prodRepo)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(db, userRepo, cartRepo, orderRepo, invSvc, activity, mailer)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc, Mailer: mailer},
		AdminHandler:   &AdminHandler{OrderSvc: orderSvc, Inv: invSvc, Activity: actRepo},
		AuthHandler:    &AuthHandler{Auth: auth, Activity: activity},
	}
}
