package models

import "time"

// Categories is the fixed list of plant categories a product may belong to.
var Categories = []string{
	"Indoor",
	"Outdoor",
	"Succulent",
	"Air Purifying",
	"Home Decor",
	"Flowering",
	"Low Maintenance",
	"Tropical",
	"Herbs",
	"Cacti",
}

// IsCategory reports whether c is one of the fixed categories.
func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// Product represents a plant in the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);index"`
	Price       float64   `json:"price" gorm:"index"`
	Categories  []string  `json:"categories" gorm:"serializer:json;type:text"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"imageUrl" gorm:"column:image_url"`
	Description string    `json:"description" gorm:"type:text"`
	CareTips    string    `json:"careTips" gorm:"column:care_tips;type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index;autoCreateTime:false"`
	Featured    bool      `json:"featured"`
}

// TableName keeps the SQL table aligned with the Mongo collection name.
func (Product) TableName() string {
	return "plants"
}

// InStock reports whether the product can currently be bought.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductInput is the write shape accepted by create and replace.
// Pointer fields distinguish a missing value from an explicit zero.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Categories  []string `json:"categories" validate:"required,min=1,dive,plantcategory"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	CareTips    string   `json:"careTips" validate:"required,min=10,max=300"`
	Featured    bool     `json:"featured"`
}

// Apply copies the mutable fields of the input onto p. Categories are
// de-duplicated keeping their first-seen order. id and createdAt are untouched.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	if in.Price != nil {
		p.Price = *in.Price
	}
	p.Categories = uniqueStrings(in.Categories)
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	p.ImageURL = in.ImageURL
	p.Description = in.Description
	p.CareTips = in.CareTips
	p.Featured = in.Featured
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
