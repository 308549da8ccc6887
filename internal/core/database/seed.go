package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type seedProduct struct {
	ID, SKU, Name, Price, Category, ImageURL string
	Stock, Critical                          int
}

var demoCatalog = []seedProduct{
	{"ram-ddr4-8", "RAM-DDR4-8G", "Memoria RAM DDR4 8GB 3200MHz", "1490", "memoria", "products/ram-ddr4-8.jpg", 12, 3},
	{"ram-ddr4-16", "RAM-DDR4-16G", "Memoria RAM DDR4 16GB 3200MHz", "2690", "memoria", "products/ram-ddr4-16.jpg", 6, 2},
	{"ssd-nvme-512", "SSD-NVME-512", "SSD NVMe M.2 512GB", "2390", "almacenamiento", "products/ssd-nvme-512.jpg", 9, 3},
	{"ssd-sata-480", "SSD-SATA-480", "SSD SATA 2.5\" 480GB", "1790", "almacenamiento", "products/ssd-sata-480.jpg", 2, 3},
	{"charger-usbc-65", "CHG-USBC-65W", "Cargador USB-C 65W", "1290", "accesorios", "products/charger-usbc-65.jpg", 15, 4},
	{"paste-thermal", "THM-PASTE-4G", "Pasta térmica 4g", "390", "accesorios", "products/paste-thermal.jpg", 30, 5},
}

// seedCatalog inserts the demo products that are missing. Safe to run on every startup.
func seedCatalog(db *sqlx.DB) (int, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := FormatTime(time.Now())
	inserted := 0
	for _, p := range demoCatalog {
		res, err := tx.Exec(`
			INSERT INTO products(id, sku, name, price, stock, critical_stock, category, active, image_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, p.ID, p.SKU, p.Name, p.Price, p.Stock, p.Critical, p.Category, p.ImageURL, now, now)
		if err != nil {
			return 0, fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return inserted, nil
}
