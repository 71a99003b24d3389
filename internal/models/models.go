package models

import (
	"time"

	"github.com/lib/pq"
)

// DefaultTemperature is the sampling temperature assigned to assistants created without one.
const DefaultTemperature = 0.7

type User struct {
	ID                        string     `db:"id" json:"id"`
	Email                     *string    `db:"email" json:"email"`
	FirstName                 *string    `db:"first_name" json:"firstName"`
	LastName                  *string    `db:"last_name" json:"lastName"`
	ProfileImageURL           *string    `db:"profile_image_url" json:"profileImageUrl"`
	SubscriptionPlan          *string    `db:"subscription_plan" json:"subscriptionPlan"`
	SubscriptionStatus        *string    `db:"subscription_status" json:"subscriptionStatus"`
	SubscriptionEndsAt        *time.Time `db:"subscription_ends_at" json:"subscriptionEndsAt"`
	StripeCustomerID          *string    `db:"stripe_customer_id" json:"stripeCustomerId"`
	StripeSubscriptionID      *string    `db:"stripe_subscription_id" json:"stripeSubscriptionId"`
	MonthlyProductGenerations *int       `db:"monthly_product_generations" json:"monthlyProductGenerations"`
	MonthlyContentGenerations *int       `db:"monthly_content_generations" json:"monthlyContentGenerations"`
	LastResetDate             *time.Time `db:"last_reset_date" json:"lastResetDate"`
	AffiliateCode             *string    `db:"affiliate_code" json:"affiliateCode"`
	AffiliateEarnings         *float64   `db:"affiliate_earnings" json:"affiliateEarnings"`
	CreatedAt                 *time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt                 *time.Time `db:"updated_at" json:"updatedAt"`
}

// UserProfile is the mutable part of a user accepted by upsert.
type UserProfile struct {
	ID              string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// Tenant and Membership back the multi-tenant grouping tables. No route reads or
// writes them yet.
type Tenant struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Slug      string     `db:"slug" json:"slug"`
	CreatedAt *time.Time `db:"created_at" json:"createdAt"`
}

type Membership struct {
	ID        string     `db:"id" json:"id"`
	TenantID  *string    `db:"tenant_id" json:"tenantId"`
	UserID    *string    `db:"user_id" json:"userId"`
	Role      *string    `db:"role" json:"role"`
	CreatedAt *time.Time `db:"created_at" json:"createdAt"`
}

type Product struct {
	ID           int64          `db:"id" json:"id"`
	UserID       *string        `db:"user_id" json:"userId"`
	Name         string         `db:"name" json:"name"`
	Description  string         `db:"description" json:"description"`
	Price        string         `db:"price" json:"price"`
	ImageURL     string         `db:"image_url" json:"imageUrl"`
	Rating       *float64       `db:"rating" json:"rating"`
	Reviews      *int           `db:"reviews" json:"reviews"`
	Trending     *bool          `db:"trending" json:"trending"`
	Viral        *bool          `db:"viral" json:"viral"`
	Popular      *bool          `db:"popular" json:"popular"`
	Views        *string        `db:"views" json:"views"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	AffiliateURL *string        `db:"affiliate_url" json:"affiliateUrl"`
	Commission   *float64       `db:"commission" json:"commission"`
	Supplier     *string        `db:"supplier" json:"supplier"`
	SupplierURL  *string        `db:"supplier_url" json:"supplierUrl"`
	CreatedAt    *time.Time     `db:"created_at" json:"createdAt"`
}

type NewProduct struct {
	UserID       string
	Name         string
	Description  string
	Price        string
	ImageURL     string
	Rating       *float64
	Reviews      *int
	Trending     *bool
	Viral        *bool
	Popular      *bool
	Views        *string
	Tags         []string
	AffiliateURL *string
	Commission   *float64
	Supplier     *string
	SupplierURL  *string
}

type Content struct {
	ID          int64      `db:"id" json:"id"`
	UserID      *string    `db:"user_id" json:"userId"`
	ProductID   *int64     `db:"product_id" json:"productId"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Music       string     `db:"music" json:"music"`
	Animation   string     `db:"animation" json:"animation"`
	CTA         string     `db:"cta" json:"cta"`
	VideoURL    *string    `db:"video_url" json:"videoUrl"`
	CreatedAt   *time.Time `db:"created_at" json:"createdAt"`
}

type NewContent struct {
	UserID      string
	ProductID   *int64
	Title       string
	Description string
	Music       string
	Animation   string
	CTA         string
	VideoURL    *string
}

type Assistant struct {
	ID           int64      `db:"id" json:"id"`
	UserID       *string    `db:"user_id" json:"userId"`
	Name         string     `db:"name" json:"name"`
	Role         string     `db:"role" json:"role"`
	SystemPrompt string     `db:"system_prompt" json:"systemPrompt"`
	Temperature  *float64   `db:"temperature" json:"temperature"`
	Active       *bool      `db:"active" json:"active"`
	CreatedAt    *time.Time `db:"created_at" json:"createdAt"`
}

// EffectiveTemperature falls back to DefaultTemperature for rows stored without one.
func (a Assistant) EffectiveTemperature() float64 {
	if a.Temperature == nil {
		return DefaultTemperature
	}
	return *a.Temperature
}

type NewAssistant struct {
	UserID       string
	Name         string
	Role         string
	SystemPrompt string
	Temperature  *float64
	Active       *bool
}
