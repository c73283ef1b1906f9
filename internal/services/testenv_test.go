package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"onlineshop/internal/config"
	"onlineshop/internal/repos"
	"onlineshop/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// every :memory: connection is its own database
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT, password_hash TEXT, role TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE sessions(id TEXT PRIMARY KEY, user_id TEXT, created_at TEXT, last_seen TEXT);
	CREATE TABLE categories(id TEXT PRIMARY KEY, name TEXT, created_at TEXT, updated_at TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, category_id TEXT, name TEXT, description TEXT, sku TEXT,
	  price NUMERIC, stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
	  status TEXT NOT NULL DEFAULT 'ACTIVE', image_url TEXT, created_by TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE cart_items(user_id TEXT, product_id TEXT, quantity INTEGER CHECK (quantity >= 1),
	  added_at TEXT DEFAULT CURRENT_TIMESTAMP, PRIMARY KEY(user_id, product_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, order_number TEXT UNIQUE, user_id TEXT, total_amount NUMERIC,
	  status TEXT DEFAULT 'PENDING', shipping_address TEXT, billing_address TEXT, payment_method TEXT,
	  payment_status TEXT DEFAULT 'PENDING', notes TEXT, confirmation_token TEXT UNIQUE, confirmed_at TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE order_items(id TEXT PRIMARY KEY, order_id TEXT, product_id TEXT, product_name TEXT,
	  product_price NUMERIC, quantity INTEGER, subtotal NUMERIC);
	CREATE TABLE user_activity_logs(id TEXT PRIMARY KEY, user_id TEXT, activity_type TEXT,
	  activity_details TEXT, ip_address TEXT, user_agent TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('u-test','test@shop.test','Tester','x','USER');
	INSERT INTO categories(id,name) VALUES ('gadgets','Gadgets');
	INSERT INTO products(id,category_id,name,description,sku,price,stock_quantity,status) VALUES
	  ('p-a','gadgets','Widget A','','SKU-A',10.00,5,'ACTIVE'),
	  ('p-b','gadgets','Widget B','','SKU-B',5.00,3,'ACTIVE'),
	  ('p-zero','gadgets','Zero Widget','','SKU-Z',7.50,0,'OUT_OF_STOCK'),
	  ('p-inactive','gadgets','Hidden Widget','','SKU-H',2.00,4,'INACTIVE');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type env struct {
	db       *sqlx.DB
	prods    *repos.ProductRepo
	carts    *repos.CartRepo
	orders   *repos.OrderRepo
	inv      *services.InventoryService
	cartSvc  *services.CartService
	orderSvc *services.OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memdb(t)

	prods := repos.NewProductRepo(db)
	carts := repos.NewCartRepo(db)
	orders := repos.NewOrderRepo(db)
	users := repos.NewUserRepo(db)

	// nil pool: collaborators run inline so assertions see their effects
	activity := services.NewActivityService(repos.NewActivityRepo(db), nil)
	mailer := services.NewMailer(config.Config{BaseURL: "http://shop.test"}, nil)

	inv := services.NewInventoryService(db, prods)
	cartSvc := services.NewCartService(carts, prods)
	orderSvc := services.NewOrderService(db, users, carts, orders, inv, activity, mailer)

	return &env{db: db, prods: prods, carts: carts, orders: orders,
		inv: inv, cartSvc: cartSvc, orderSvc: orderSvc}
}

func (e *env) stock(t *testing.T, productID string) (int, string) {
	t.Helper()
	p, err := e.prods.Get(productID)
	if err != nil {
		t.Fatal(err)
	}
	return p.StockQty, p.Status
}
