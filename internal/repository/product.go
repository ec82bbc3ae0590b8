package repository

import (
	"context"
	"fmt"

	"craftsmen_marketplace/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = "id, name, COALESCE(description,''), price, COALESCE(category,''), COALESCE(image_path,''), COALESCE(ai_generated_caption,''), COALESCE(facebook_post_id,''), COALESCE(instagram_post_id,''), is_active, COALESCE(owner_id,0), created_at, updated_at"

func (r *ProductRepository) Create(ctx context.Context, p *entities.Product) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category, image_path, owner_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0))
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.Price, p.Category, p.ImagePath, p.OwnerID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*entities.Product, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns), id)
	p, err := scanProduct(row)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]entities.Product, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM products WHERE is_active ORDER BY id", productColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) GetByCategory(ctx context.Context, category string) ([]entities.Product, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM products WHERE is_active AND category ILIKE $1 ORDER BY id", productColumns), category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) GetByOwner(ctx context.Context, ownerID int) ([]entities.Product, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM products WHERE is_active AND owner_id = $1 ORDER BY id", productColumns), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) Update(ctx context.Context, p *entities.Product) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, category=$4, is_active=$5, updated_at=NOW()
		WHERE id=$6
	`, p.Name, p.Description, p.Price, p.Category, p.IsActive, p.ID)
	return err
}

// SavePostIDs records the externally-issued post identifiers after a
// publish. Only non-empty ids overwrite; a partial publish keeps the
// surviving platform's previous id intact.
func (r *ProductRepository) SavePostIDs(ctx context.Context, productID int, facebookPostID, instagramPostID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET facebook_post_id = COALESCE(NULLIF($1,''), facebook_post_id),
		    instagram_post_id = COALESCE(NULLIF($2,''), instagram_post_id),
		    updated_at = NOW()
		WHERE id = $3
	`, facebookPostID, instagramPostID, productID)
	return err
}

func (r *ProductRepository) SaveCaption(ctx context.Context, productID int, caption string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products SET ai_generated_caption=$1, updated_at=NOW() WHERE id=$2
	`, caption, productID)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, "UPDATE products SET is_active=FALSE, updated_at=NOW() WHERE id=$1", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entities.Product, error) {
	var p entities.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImagePath,
		&p.AICaption, &p.FacebookPostID, &p.InstagramPostID, &p.IsActive, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]entities.Product, error) {
	var products []entities.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
