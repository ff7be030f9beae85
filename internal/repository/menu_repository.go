// This file defines menu sections and items plus the MenuRepo. A shop's
// menu is a flat list of sections, each holding items with server-side
// prices in cents. Item rows are the price source of truth at checkout;
// client-submitted prices are never trusted.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
)

// idsToPgArray renders ids as a Postgres array literal so the slice can be
// bound as a single text parameter through database/sql.
func idsToPgArray(ids []uint64) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(id, 10))
	}
	b.WriteByte('}')
	return b.String()
}

// MenuSection groups items on the storefront, ordered by Position.
type MenuSection struct {
	ID       uint64 `json:"id"`
	ShopID   uint64 `json:"shop_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// MenuItem is a purchasable menu entry. Prices are integer cents.
type MenuItem struct {
	ID          uint64  `json:"id"`
	ShopID      uint64  `json:"shop_id"`
	SectionID   uint64  `json:"section_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	IsVeg       bool    `json:"is_veg"`
	IsAvailable bool    `json:"is_available"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// MenuSectionWithItems is the storefront menu shape: a section with its
// currently available items.
type MenuSectionWithItems struct {
	MenuSection
	Items []*MenuItem `json:"items"`
}

var (
	// ErrSectionNotFound is returned when a menu section cannot be found.
	ErrSectionNotFound = errors.New("menu section not found")
	// ErrItemNotFound is returned when a menu item cannot be found.
	ErrItemNotFound = errors.New("menu item not found")
)

// MenuRepo encapsulates all database queries related to menu sections and
// items.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo constructs a MenuRepo with the provided DB handle.
func NewMenuRepo(db *sql.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// ---- Sections ----

// CreateSection inserts a section for the shop.
func (r *MenuRepo) CreateSection(ctx context.Context, s *MenuSection) error {
	const q = `INSERT INTO menu_sections (shop_id, name, position)
	           VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, q, s.ShopID, s.Name, s.Position).Scan(&s.ID)
}

// UpdateSection renames/repositions a section owned by the shop.
func (r *MenuRepo) UpdateSection(ctx context.Context, shopID, id uint64, name string, position int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_sections SET name = $1, position = $2 WHERE id = $3 AND shop_id = $4`,
		name, position, id, shopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// DeleteSection removes an empty section. Sections that still contain
// items return ErrConflict so the admin UI can explain the refusal.
func (r *MenuRepo) DeleteSection(ctx context.Context, shopID, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE section_id = $1 AND shop_id = $2`, id, shopID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_sections WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// ListSections returns all of the shop's sections in display order.
func (r *MenuRepo) ListSections(ctx context.Context, shopID uint64) ([]*MenuSection, error) {
	const q = `SELECT id, shop_id, name, position FROM menu_sections
	           WHERE shop_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MenuSection
	for rows.Next() {
		s := new(MenuSection)
		if err := rows.Scan(&s.ID, &s.ShopID, &s.Name, &s.Position); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- Items ----

const itemCols = "id, shop_id, section_id, name, description, price_cents, is_veg, is_available, image_url"

func scanItem(scan func(...any) error) (*MenuItem, error) {
	i := new(MenuItem)
	var img sql.NullString
	if err := scan(&i.ID, &i.ShopID, &i.SectionID, &i.Name, &i.Description,
		&i.PriceCents, &i.IsVeg, &i.IsAvailable, &img); err != nil {
		return nil, err
	}
	if img.Valid {
		i.ImageURL = &img.String
	}
	return i, nil
}

// CreateItem inserts a menu item into a section the shop owns. A section
// belonging to a different shop yields ErrSectionNotFound.
func (r *MenuRepo) CreateItem(ctx context.Context, i *MenuItem) error {
	var sectionShop uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT shop_id FROM menu_sections WHERE id = $1`, i.SectionID).Scan(&sectionShop)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && sectionShop != i.ShopID) {
		return ErrSectionNotFound
	}
	if err != nil {
		return err
	}
	const q = `INSERT INTO menu_items
	             (shop_id, section_id, name, description, price_cents, is_veg, is_available, image_url)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	var img sql.NullString
	if i.ImageURL != nil {
		img = sql.NullString{String: *i.ImageURL, Valid: true}
	}
	return r.db.QueryRowContext(ctx, q,
		i.ShopID, i.SectionID, i.Name, i.Description, i.PriceCents, i.IsVeg, i.IsAvailable, img).Scan(&i.ID)
}

// GetItem fetches an item owned by the shop.
func (r *MenuRepo) GetItem(ctx context.Context, shopID, id uint64) (*MenuItem, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+itemCols+" FROM menu_items WHERE id = $1 AND shop_id = $2", id, shopID)
	i, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return i, err
}

// UpdateItem overwrites the mutable fields of an item owned by the shop.
func (r *MenuRepo) UpdateItem(ctx context.Context, i *MenuItem) error {
	const q = `UPDATE menu_items SET
	             section_id = $1, name = $2, description = $3, price_cents = $4,
	             is_veg = $5, is_available = $6, image_url = $7, updated_at = NOW()
	           WHERE id = $8 AND shop_id = $9`
	var img sql.NullString
	if i.ImageURL != nil {
		img = sql.NullString{String: *i.ImageURL, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q,
		i.SectionID, i.Name, i.Description, i.PriceCents, i.IsVeg, i.IsAvailable, img, i.ID, i.ShopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetItemAvailability flips the sold-out toggle without touching anything
// else.
func (r *MenuRepo) SetItemAvailability(ctx context.Context, shopID, id uint64, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET is_available = $1, updated_at = NOW() WHERE id = $2 AND shop_id = $3`,
		available, id, shopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem removes an item owned by the shop.
func (r *MenuRepo) DeleteItem(ctx context.Context, shopID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListItems returns every item of the shop, including unavailable ones.
// Admin console view.
func (r *MenuRepo) ListItems(ctx context.Context, shopID uint64) ([]*MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemCols+" FROM menu_items WHERE shop_id = $1 ORDER BY section_id, id", shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MenuItem
	for rows.Next() {
		i, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicMenu returns the storefront view: sections in display order, each
// with only its available items.
func (r *MenuRepo) PublicMenu(ctx context.Context, shopID uint64) ([]*MenuSectionWithItems, error) {
	sections, err := r.ListSections(ctx, shopID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemCols+" FROM menu_items WHERE shop_id = $1 AND is_available ORDER BY section_id, id", shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySection := make(map[uint64][]*MenuItem)
	for rows.Next() {
		i, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		bySection[i.SectionID] = append(bySection[i.SectionID], i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*MenuSectionWithItems, 0, len(sections))
	for _, s := range sections {
		items := bySection[s.ID]
		if items == nil {
			items = []*MenuItem{}
		}
		out = append(out, &MenuSectionWithItems{MenuSection: *s, Items: items})
	}
	return out, nil
}

// GetItemsForOrder fetches the available items with the given IDs in one
// query, keyed by ID. Checkout uses it to snapshot names and recompute
// prices server-side.
func (r *MenuRepo) GetItemsForOrder(ctx context.Context, shopID uint64, ids []uint64) (map[uint64]*MenuItem, error) {
	if len(ids) == 0 {
		return map[uint64]*MenuItem{}, nil
	}
	const q = `SELECT id, shop_id, section_id, name, description, price_cents, is_veg, is_available, image_url
	           FROM menu_items WHERE shop_id = $1 AND is_available AND id = ANY($2::bigint[])`
	rows, err := r.db.QueryContext(ctx, q, shopID, idsToPgArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64]*MenuItem, len(ids))
	for rows.Next() {
		i, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out[i.ID] = i
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
