package storage

import (
	"context"
	"database/sql"
	"errors"

	"viralhub-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, first_name, last_name, profile_image_url, subscription_plan,
       subscription_status, subscription_ends_at, stripe_customer_id, stripe_subscription_id,
       monthly_product_generations, monthly_content_generations, last_reset_date,
       affiliate_code, affiliate_earnings, created_at, updated_at`

const productColumns = `id, user_id, name, description, price, image_url, rating, reviews,
       trending, viral, popular, views, tags, affiliate_url, commission, supplier,
       supplier_url, created_at`

const contentColumns = `id, user_id, product_id, title, description, music, animation, cta,
       video_url, created_at`

const assistantColumns = `id, user_id, name, role, system_prompt, temperature, active, created_at`

// Postgres implements Gateway with single-statement queries over sqlx.
type Postgres struct {
	DB *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) GetUser(ctx context.Context, id string) (models.User, bool, error) {
	var user models.User
	err := p.DB.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return found(user, err, "get user")
}

func (p *Postgres) UpsertUser(ctx context.Context, profile models.UserProfile) (models.User, error) {
	var user models.User
	err := p.DB.GetContext(ctx, &user, `
INSERT INTO users (id, email, first_name, last_name, profile_image_url)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  profile_image_url = EXCLUDED.profile_image_url,
  updated_at = now()
RETURNING `+userColumns,
		profile.ID, profile.Email, profile.FirstName, profile.LastName, profile.ProfileImageURL)
	return user, wrap("upsert user", err)
}

func (p *Postgres) GetProduct(ctx context.Context, id int64) (models.Product, bool, error) {
	var product models.Product
	if !validID(id) {
		return product, false, nil
	}
	err := p.DB.GetContext(ctx, &product, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return found(product, err, "get product")
}

func (p *Postgres) GetRecentProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.DB.SelectContext(ctx, &products, `
SELECT `+productColumns+`
FROM products
ORDER BY id DESC
LIMIT $1
`, normalizeLimit(limit))
	return products, wrap("recent products", err)
}

func (p *Postgres) GetUserProducts(ctx context.Context, userID string, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.DB.SelectContext(ctx, &products, `
SELECT `+productColumns+`
FROM products
WHERE user_id = $1
ORDER BY id DESC
LIMIT $2
`, userID, normalizeLimit(limit))
	return products, wrap("user products", err)
}

func (p *Postgres) CreateProduct(ctx context.Context, input models.NewProduct) (models.Product, error) {
	var product models.Product
	err := p.DB.GetContext(ctx, &product, `
INSERT INTO products (
  user_id, name, description, price, image_url, rating, reviews, trending, viral, popular,
  views, tags, affiliate_url, commission, supplier, supplier_url
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,
  COALESCE($8::boolean, false), COALESCE($9::boolean, false), COALESCE($10::boolean, false),
  $11,$12,$13, COALESCE($14::double precision, 0), $15,$16
)
RETURNING `+productColumns,
		input.UserID, input.Name, input.Description, input.Price, input.ImageURL, input.Rating, input.Reviews,
		input.Trending, input.Viral, input.Popular, input.Views, input.Tags, input.AffiliateURL,
		input.Commission, input.Supplier, input.SupplierURL)
	return product, wrap("create product", err)
}

func (p *Postgres) CreateContent(ctx context.Context, input models.NewContent) (models.Content, error) {
	var content models.Content
	err := p.DB.GetContext(ctx, &content, `
INSERT INTO contents (user_id, product_id, title, description, music, animation, cta, video_url)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING `+contentColumns,
		input.UserID, input.ProductID, input.Title, input.Description, input.Music, input.Animation,
		input.CTA, input.VideoURL)
	return content, wrap("create content", err)
}

func (p *Postgres) CreateAssistant(ctx context.Context, input models.NewAssistant) (models.Assistant, error) {
	var assistant models.Assistant
	err := p.DB.GetContext(ctx, &assistant, `
INSERT INTO assistants (user_id, name, role, system_prompt, temperature, active)
VALUES ($1,$2,$3,$4, COALESCE($5::double precision, 0.7), COALESCE($6::boolean, true))
RETURNING `+assistantColumns,
		input.UserID, input.Name, input.Role, input.SystemPrompt, input.Temperature, input.Active)
	return assistant, wrap("create assistant", err)
}

func (p *Postgres) GetAssistant(ctx context.Context, id int64) (models.Assistant, bool, error) {
	var assistant models.Assistant
	if !validID(id) {
		return assistant, false, nil
	}
	err := p.DB.GetContext(ctx, &assistant, `SELECT `+assistantColumns+` FROM assistants WHERE id = $1`, id)
	return found(assistant, err, "get assistant")
}

func (p *Postgres) GetUserAssistants(ctx context.Context, userID string) ([]models.Assistant, error) {
	assistants := []models.Assistant{}
	err := p.DB.SelectContext(ctx, &assistants, `
SELECT `+assistantColumns+`
FROM assistants
WHERE user_id = $1
ORDER BY id DESC
`, userID)
	return assistants, wrap("user assistants", err)
}

func (p *Postgres) CountUserAssistants(ctx context.Context, userID string) (int, error) {
	var count int
	err := p.DB.GetContext(ctx, &count, `SELECT count(*) FROM assistants WHERE user_id = $1`, userID)
	return count, wrap("count assistants", err)
}

func (p *Postgres) Ping(ctx context.Context) error {
	return wrap("ping", p.DB.PingContext(ctx))
}

func found[T any](row T, err error, op string) (T, bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, wrap(op, err)
	}
	return row, true, nil
}
