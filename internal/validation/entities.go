package validation

import "viralhub-backend-go/internal/models"

var UserSchema = Schema{
	Entity: "user",
	Fields: []Field{
		{Name: "email", Kind: String, Rules: "omitempty,email"},
		{Name: "firstName", Kind: String, Rules: "max=120"},
		{Name: "lastName", Kind: String, Rules: "max=120"},
		{Name: "profileImageUrl", Kind: String, Rules: "omitempty,url"},
	},
}

var ProductSchema = Schema{
	Entity: "product",
	Fields: []Field{
		{Name: "name", Kind: String, Required: true},
		{Name: "description", Kind: String, Required: true},
		{Name: "price", Kind: String, Required: true},
		{Name: "imageUrl", Kind: String, Required: true},
		{Name: "rating", Kind: Number, Rules: "gte=0,lte=5"},
		{Name: "reviews", Kind: Integer, Rules: "gte=0,lte=2147483647"},
		{Name: "trending", Kind: Bool},
		{Name: "viral", Kind: Bool},
		{Name: "popular", Kind: Bool},
		{Name: "views", Kind: String},
		{Name: "tags", Kind: StringList, Rules: "max=50"},
		{Name: "affiliateUrl", Kind: String, Rules: "omitempty,url"},
		{Name: "commission", Kind: Number, Rules: "gte=0"},
		{Name: "supplier", Kind: String},
		{Name: "supplierUrl", Kind: String, Rules: "omitempty,url"},
	},
}

var ContentSchema = Schema{
	Entity: "content",
	Fields: []Field{
		{Name: "productId", Kind: Integer, Rules: "gt=0,lte=2147483647"},
		{Name: "title", Kind: String, Required: true},
		{Name: "description", Kind: String, Required: true},
		{Name: "music", Kind: String, Required: true},
		{Name: "animation", Kind: String, Required: true},
		{Name: "cta", Kind: String, Required: true},
		{Name: "videoUrl", Kind: String, Rules: "omitempty,url"},
	},
}

var AssistantSchema = Schema{
	Entity: "assistant",
	Fields: []Field{
		{Name: "name", Kind: String, Required: true, Rules: "max=200"},
		{Name: "role", Kind: String, Required: true, Rules: "max=200"},
		{Name: "systemPrompt", Kind: String, Required: true},
		{Name: "temperature", Kind: Number, Rules: "gte=0,lte=2"},
		{Name: "active", Kind: Bool},
	},
}

// UserProfile validates the profile fields of an upsert for userID.
func (v *Validator) UserProfile(userID string, input map[string]any) (models.UserProfile, error) {
	rec, err := v.Narrow(UserSchema, input)
	if err != nil {
		return models.UserProfile{}, err
	}
	return models.UserProfile{
		ID:              userID,
		Email:           rec.OptString("email"),
		FirstName:       rec.OptString("firstName"),
		LastName:        rec.OptString("lastName"),
		ProfileImageURL: rec.OptString("profileImageUrl"),
	}, nil
}

func (v *Validator) Product(userID string, input map[string]any) (models.NewProduct, error) {
	rec, err := v.Narrow(ProductSchema, input)
	if err != nil {
		return models.NewProduct{}, err
	}
	return models.NewProduct{
		UserID:       userID,
		Name:         rec.String("name"),
		Description:  rec.String("description"),
		Price:        rec.String("price"),
		ImageURL:     rec.String("imageUrl"),
		Rating:       rec.OptFloat("rating"),
		Reviews:      rec.OptInt("reviews"),
		Trending:     withDefault(rec.OptBool("trending"), false),
		Viral:        withDefault(rec.OptBool("viral"), false),
		Popular:      withDefault(rec.OptBool("popular"), false),
		Views:        rec.OptString("views"),
		Tags:         rec.Strings("tags"),
		AffiliateURL: rec.OptString("affiliateUrl"),
		Commission:   withDefault(rec.OptFloat("commission"), 0),
		Supplier:     rec.OptString("supplier"),
		SupplierURL:  rec.OptString("supplierUrl"),
	}, nil
}

func (v *Validator) Content(userID string, input map[string]any) (models.NewContent, error) {
	rec, err := v.Narrow(ContentSchema, input)
	if err != nil {
		return models.NewContent{}, err
	}
	return models.NewContent{
		UserID:      userID,
		ProductID:   rec.OptInt64("productId"),
		Title:       rec.String("title"),
		Description: rec.String("description"),
		Music:       rec.String("music"),
		Animation:   rec.String("animation"),
		CTA:         rec.String("cta"),
		VideoURL:    rec.OptString("videoUrl"),
	}, nil
}

// Assistant validates an assistant definition; temperature defaults to 0.7 and
// active to true.
func (v *Validator) Assistant(userID string, input map[string]any) (models.NewAssistant, error) {
	rec, err := v.Narrow(AssistantSchema, input)
	if err != nil {
		return models.NewAssistant{}, err
	}
	return models.NewAssistant{
		UserID:       userID,
		Name:         rec.String("name"),
		Role:         rec.String("role"),
		SystemPrompt: rec.String("systemPrompt"),
		Temperature:  withDefault(rec.OptFloat("temperature"), models.DefaultTemperature),
		Active:       withDefault(rec.OptBool("active"), true),
	}, nil
}

func withDefault[T any](value *T, fallback T) *T {
	if value == nil {
		return &fallback
	}
	return value
}
