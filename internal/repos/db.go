package repos

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: an in-memory database lives and dies with its connection,
	// and SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed the house menu and floor plan if the DB is empty
	if err := seedMenu(db); err != nil {
		return nil, err
	}
	if err := seedTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Menu
CREATE TABLE IF NOT EXISTS menu_items(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  unit_price TEXT NOT NULL,
  original_price TEXT,
  discount_percent INTEGER NOT NULL DEFAULT 0 CHECK (discount_percent BETWEEN 0 AND 100),
  available_count INTEGER NOT NULL DEFAULT 0 CHECK (available_count >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category);
CREATE INDEX IF NOT EXISTS idx_menu_items_name     ON menu_items(LOWER(name));

-- Carts (one per ordering session)
CREATE TABLE IF NOT EXISTS carts(
  session_id TEXT PRIMARY KEY,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  session_id TEXT NOT NULL REFERENCES carts(session_id) ON DELETE CASCADE,
  item_id    TEXT NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
  qty        INTEGER NOT NULL CHECK (qty >= 1),
  position   INTEGER NOT NULL,
  PRIMARY KEY (session_id, item_id)
);

-- Floor plan
CREATE TABLE IF NOT EXISTS dining_tables(
  id TEXT PRIMARY KEY,
  number INTEGER NOT NULL UNIQUE CHECK (number > 0),
  seats INTEGER NOT NULL CHECK (seats >= 1),
  status TEXT NOT NULL DEFAULT 'Available' CHECK (status IN ('Available','Occupied')),
  current_order_id TEXT,
  server TEXT,
  occupied_since TEXT,
  version INTEGER NOT NULL DEFAULT 0
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  seq INTEGER NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  party_size INTEGER NOT NULL CHECK (party_size >= 1),
  subtotal TEXT NOT NULL,
  discount_total TEXT NOT NULL,
  tax_rate TEXT NOT NULL,
  tax TEXT NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Preparing',
  table_id TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  version INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_orders_status     ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_lines(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  original_price TEXT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  PRIMARY KEY (order_id, position)
);

-- Payments
CREATE TABLE IF NOT EXISTS payments(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE REFERENCES orders(id),
  method TEXT NOT NULL CHECK (method IN ('credit-card','cash','mobile','gift-card')),
  subtotal TEXT NOT NULL,
  tax TEXT NOT NULL,
  tip_amount TEXT NOT NULL,
  grand_total TEXT NOT NULL,
  paid_at TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedMenu(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM menu_items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting house menu")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO menu_items(id,name,category,description,unit_price,original_price,discount_percent,available_count) VALUES
	  ('caesar-salad','Caesar Salad','Appetizer','Fresh romaine lettuce with Caesar dressing, croutons, and parmesan cheese.','8.99','11.50',15,12),
	  ('margherita-pizza','Margherita Pizza','Main Course','Classic pizza with tomato sauce, fresh mozzarella, and basil.','14.99',NULL,0,21),
	  ('chocolate-cake','Chocolate Cake','Dessert','Rich chocolate cake with a layer of chocolate ganache.','6.99','8.00',15,10),
	  ('garlic-bread','Garlic Bread','Appetizer','Toasted bread with garlic butter and herbs.','4.99',NULL,0,19),
	  ('grilled-salmon','Grilled Salmon','Main Course','Fresh salmon fillet grilled with lemon and herbs, served with seasonal vegetables.','18.99','20.00',15,5),
	  ('tiramisu','Tiramisu','Dessert','Italian dessert made of ladyfingers dipped in coffee, layered with mascarpone cheese.','7.99',NULL,0,56),
	  ('iced-tea','Iced Tea','Beverages','Refreshing iced tea with lemon slice.','2.99',NULL,0,16),
	  ('chicken-alfredo','Chicken Alfredo','Main Course','Fettuccine pasta with creamy Alfredo sauce and grilled chicken.','16.99',NULL,0,18),
	  ('cheesecake','Cheesecake','Dessert','Creamy New York style cheesecake with graham cracker crust.','6.99',NULL,0,8)`)

	return tx.Commit()
}

// seedTables lays out the default twelve-table floor.
func seedTables(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM dining_tables`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting floor plan")

	seats := []int{4, 2, 6, 4, 2, 8, 4, 2, 6, 4, 2, 4}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for i, s := range seats {
		if _, err := tx.Exec(`INSERT INTO dining_tables(id, number, seats) VALUES(?,?,?)`,
			uuid.NewString(), i+1, s); err != nil {
			return err
		}
	}
	return tx.Commit()
}
